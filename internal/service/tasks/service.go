// Package tasks implements the task service: transactional create/update/
// delete of a task together with its label associations, and the filtered
// task listing.
package tasks

import (
	"context"
	"errors"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// Service errors
var (
	// ErrAccessDenied is returned when a user other than the task's creator
	// attempts to delete it.
	ErrAccessDenied = errors.New("only the task's creator may delete it")
)

// TaskInput carries the scalar fields and parsed label references of a task
// create or update request. The creator is never part of the input: on create
// it is the authenticated actor, on update it is preserved.
type TaskInput struct {
	Name        string
	Description string
	StatusID    int64
	ExecutorID  *int64
	LabelRefs   []domain.LabelRef
}

// ListCriteria is the optional filter set for listing tasks. Nil fields are
// dropped from the predicate. When Mine is set, the creator criterion is
// forced to ActorID, overriding any explicit CreatorID.
type ListCriteria struct {
	StatusID   *int64
	ExecutorID *int64
	CreatorID  *int64
	LabelID    *int64
	Mine       bool
	ActorID    int64
}

// TaskService defines the task orchestration operations.
type TaskService interface {
	// Create stores a new task owned by the actor, resolving the label
	// references and relating the resolved set, all in one transaction.
	// Returns domain.ErrInvalidLabelRef on a malformed inline label payload
	// and store errors (duplicate name, invalid references) otherwise; any
	// failure rolls back the entire operation including labels created
	// during resolution.
	Create(ctx context.Context, actorID int64, input TaskInput) (*domain.TaskWithRelations, error)

	// Update replaces an existing task's scalar fields and its full label
	// set in one transaction: all existing associations are removed and the
	// resolved set is related in their place.
	// Returns store.ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id int64, input TaskInput) (*domain.TaskWithRelations, error)

	// Delete removes a task and its label associations in one transaction.
	// Returns ErrAccessDenied unless the actor is the task's creator.
	Delete(ctx context.Context, id, actorID int64) error

	// Get retrieves a single task with its relations resolved.
	Get(ctx context.Context, id int64) (*domain.TaskWithRelations, error)

	// List retrieves the tasks matching the criteria, each with relations
	// resolved. An empty criteria set returns all tasks.
	List(ctx context.Context, criteria ListCriteria) ([]*domain.TaskWithRelations, error)
}
