// Package api provides HTTP handlers for the API.
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// parseIDParam extracts a positive integer id from the named chi URL
// parameter. Returns domain.ErrInvalidID when the parameter is missing,
// non-numeric, or not positive.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", domain.ErrInvalidID, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}
	return id, nil
}

// parseOptionalIntQuery reads an optional integer query parameter.
// Blank and non-numeric values are treated as absent, matching the lenient
// handling of filter forms.
func parseOptionalIntQuery(r *http.Request, name string) *int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
