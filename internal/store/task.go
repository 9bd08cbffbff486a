package store

import (
	"context"
	"database/sql"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// TaskFilter is the optional criteria set for listing tasks. A nil field is
// dropped from the predicate entirely; the final query is the AND of only the
// criteria actually supplied. An empty filter matches all tasks.
type TaskFilter struct {
	StatusID   *int64
	ExecutorID *int64
	CreatorID  *int64
	LabelID    *int64
}

// TaskStore defines the interface for task persistence, including the
// task-label join table. The multi-step operations that must be atomic
// (create/update/delete together with label reconciliation) are composed by
// the tasks service from these primitives inside one transaction.
type TaskStore interface {
	// Create inserts the task's scalar fields and fills in its assigned ID.
	// Returns ErrDuplicate if the task name is already taken, and
	// ErrInvalidEntity if a referenced status or user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task's scalar fields by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update applies the scalar-field update to an existing task row.
	// Returns ErrTaskNotFound if the task does not exist and ErrDuplicate on
	// a name clash.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task row by its ID. The caller must unrelate the
	// task's labels first (the join rows are lifecycle-bound to the task).
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// List retrieves the tasks matching the filter, each with its status,
	// creator, executor, and full label set resolved.
	List(ctx context.Context, filter TaskFilter) ([]*domain.TaskWithRelations, error)

	// GetLabels retrieves the labels currently associated with a task,
	// ordered by label id.
	GetLabels(ctx context.Context, taskID int64) ([]domain.Label, error)

	// RelateLabels inserts join rows linking the task to each label id.
	// Duplicate ids in the input collapse to a single join row. Returns
	// ErrInvalidEntity if a label id does not exist.
	RelateLabels(ctx context.Context, taskID int64, labelIDs []int64) error

	// UnrelateLabels removes all join rows for the task.
	UnrelateLabels(ctx context.Context, taskID int64) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
