package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresLabelStore implements the store.LabelStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLabelStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLabelStore creates a new PostgreSQL implementation of the
// LabelStore interface.
func NewPostgresLabelStore(db store.DBTX, logger *slog.Logger) *PostgresLabelStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLabelStore{
		db:     db,
		logger: logger.With(slog.String("component", "label_store")),
	}
}

// Ensure PostgresLabelStore implements store.LabelStore interface
var _ store.LabelStore = (*PostgresLabelStore)(nil)

// WithTx implements store.LabelStore.WithTx
func (s *PostgresLabelStore) WithTx(tx *sql.Tx) store.LabelStore {
	return &PostgresLabelStore{db: tx, logger: s.logger}
}

// Create implements store.LabelStore.Create
// When called inside a transaction (via WithTx) the insert is rolled back
// with the rest of the transaction on failure; inline label creation during
// task association relies on this.
func (s *PostgresLabelStore) Create(ctx context.Context, label *domain.Label) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := label.Validate(); err != nil {
		log.Warn("label validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO labels (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query, label.Name, label.CreatedAt, label.UpdatedAt).
		Scan(&label.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: label name %q", store.ErrDuplicate, label.Name)
		}
		log.Error("failed to create label",
			slog.String("error", err.Error()),
			slog.String("name", label.Name))
		return MapError(err)
	}

	log.Info("label created successfully", slog.Int64("label_id", label.ID))
	return nil
}

// GetByID implements store.LabelStore.GetByID
func (s *PostgresLabelStore) GetByID(ctx context.Context, id int64) (*domain.Label, error) {
	query := `SELECT id, name, created_at, updated_at FROM labels WHERE id = $1`

	var label domain.Label
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&label.ID, &label.Name, &label.CreatedAt, &label.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLabelNotFound
		}
		return nil, err
	}
	return &label, nil
}

// GetByIDs implements store.LabelStore.GetByIDs
func (s *PostgresLabelStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.Label, error) {
	if len(ids) == 0 {
		return []domain.Label{}, nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	// The pgx stdlib driver encodes []int64 as bigint[].
	query := `SELECT id, name, created_at, updated_at FROM labels WHERE id = ANY($1) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		log.Error("failed to get labels by ids", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	return scanLabels(rows)
}

// List implements store.LabelStore.List
func (s *PostgresLabelStore) List(ctx context.Context) ([]*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM labels ORDER BY id`)
	if err != nil {
		log.Error("failed to list labels", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	labels := []*domain.Label{}
	for rows.Next() {
		var label domain.Label
		if err := rows.Scan(&label.ID, &label.Name, &label.CreatedAt, &label.UpdatedAt); err != nil {
			log.Error("failed to scan label row", slog.String("error", err.Error()))
			return nil, err
		}
		labels = append(labels, &label)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}
	return labels, nil
}

// Update implements store.LabelStore.Update
func (s *PostgresLabelStore) Update(ctx context.Context, label *domain.Label) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := label.Validate(); err != nil {
		log.Warn("label validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("label_id", label.ID))
		return err
	}

	query := `UPDATE labels SET name = $1, updated_at = $2 WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, label.Name, label.UpdatedAt, label.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: label name %q", store.ErrDuplicate, label.Name)
		}
		log.Error("failed to update label",
			slog.String("error", err.Error()),
			slog.Int64("label_id", label.ID))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrLabelNotFound)
}

// Delete implements store.LabelStore.Delete
// A label still present in the join table is protected by ON DELETE RESTRICT;
// that surfaces here as store.ErrInUse.
func (s *PostgresLabelStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("label still associated with tasks", slog.Int64("label_id", id))
			return fmt.Errorf("%w: label %d", store.ErrInUse, id)
		}
		log.Error("failed to delete label",
			slog.String("error", err.Error()),
			slog.Int64("label_id", id))
		return err
	}

	return CheckRowsAffected(result, store.ErrLabelNotFound)
}

// scanLabels drains rows into a label slice.
func scanLabels(rows *sql.Rows) ([]domain.Label, error) {
	labels := []domain.Label{}
	for rows.Next() {
		var label domain.Label
		if err := rows.Scan(&label.ID, &label.Name, &label.CreatedAt, &label.UpdatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return labels, nil
}
