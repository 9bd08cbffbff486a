package store

import (
	"context"
	"database/sql"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// LabelStore defines the interface for label persistence.
type LabelStore interface {
	// Create saves a new label and fills in its assigned ID.
	// Returns ErrDuplicate if the name is already taken.
	Create(ctx context.Context, label *domain.Label) error

	// GetByID retrieves a label by its unique ID.
	// Returns ErrLabelNotFound if the label does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Label, error)

	// GetByIDs retrieves the labels with the given ids, ordered by id.
	// Missing ids are simply absent from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Label, error)

	// List retrieves all labels ordered by id.
	List(ctx context.Context) ([]*domain.Label, error)

	// Update modifies an existing label.
	// Returns ErrLabelNotFound if the label does not exist.
	Update(ctx context.Context, label *domain.Label) error

	// Delete removes a label by its ID.
	// Returns ErrLabelNotFound if the label does not exist, and ErrInUse
	// while the label is associated with any task.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new LabelStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) LabelStore
}
