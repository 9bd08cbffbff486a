package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LabelRef is a parsed label reference from a task payload: either a pointer
// at an existing label (ID > 0) or a request to create a new label inline
// (NewName non-empty). Exactly one of the two is set.
type LabelRef struct {
	ID      int64
	NewName string
}

// IsNew reports whether the reference asks for a new label to be created.
func (r LabelRef) IsNew() bool {
	return r.ID == 0
}

// ParseLabelRefs parses the raw "labels" field of a task payload into a list
// of label references. The field may be absent, a single value, or a list;
// each entry is either a positive integer (or numeric string) naming an
// existing label id, or an object with a non-empty "name" field requesting a
// new label. Objects may also arrive JSON-encoded inside a string, which is
// how HTML forms post them.
//
// A malformed entry fails the whole parse with ErrInvalidLabelRef. An absent
// or empty field parses to an empty list: a task may have zero labels.
func ParseLabelRefs(raw json.RawMessage) ([]LabelRef, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var entries []json.RawMessage
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLabelRef, err)
		}
	} else {
		// A single value is treated as a one-element list.
		entries = []json.RawMessage{raw}
	}

	refs := make([]LabelRef, 0, len(entries))
	for _, entry := range entries {
		ref, err := parseLabelRef(entry)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func parseLabelRef(entry json.RawMessage) (LabelRef, error) {
	trimmed := strings.TrimSpace(string(entry))

	switch {
	case strings.HasPrefix(trimmed, "{"):
		return parseInlineLabel(entry)

	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(entry, &s); err != nil {
			return LabelRef{}, fmt.Errorf("%w: %v", ErrInvalidLabelRef, err)
		}
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil && id > 0 {
			return LabelRef{ID: id}, nil
		}
		// Not numeric: the string must carry a JSON-encoded inline payload.
		return parseInlineLabel([]byte(s))

	default:
		var id int64
		if err := json.Unmarshal(entry, &id); err != nil || id <= 0 {
			return LabelRef{}, fmt.Errorf("%w: %q is not a positive label id", ErrInvalidLabelRef, trimmed)
		}
		return LabelRef{ID: id}, nil
	}
}

func parseInlineLabel(data []byte) (LabelRef, error) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return LabelRef{}, fmt.Errorf("%w: %v", ErrInvalidLabelRef, err)
	}
	if payload.Name == "" {
		return LabelRef{}, fmt.Errorf("%w: inline label has no name", ErrInvalidLabelRef)
	}
	return LabelRef{NewName: payload.Name}, nil
}
