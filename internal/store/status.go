package store

import (
	"context"
	"database/sql"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// StatusStore defines the interface for task status persistence.
type StatusStore interface {
	// Create saves a new task status.
	// Returns ErrDuplicate if the name is already taken.
	Create(ctx context.Context, status *domain.TaskStatus) error

	// GetByID retrieves a status by its unique ID.
	// Returns ErrStatusNotFound if the status does not exist.
	GetByID(ctx context.Context, id int64) (*domain.TaskStatus, error)

	// List retrieves all statuses ordered by id.
	List(ctx context.Context) ([]*domain.TaskStatus, error)

	// Update modifies an existing status.
	// Returns ErrStatusNotFound if the status does not exist.
	Update(ctx context.Context, status *domain.TaskStatus) error

	// Delete removes a status by its ID.
	// Returns ErrStatusNotFound if the status does not exist, and ErrInUse
	// while any task references it.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new StatusStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StatusStore
}
