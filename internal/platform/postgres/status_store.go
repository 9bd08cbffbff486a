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

// PostgresStatusStore implements the store.StatusStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStatusStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStatusStore creates a new PostgreSQL implementation of the
// StatusStore interface.
func NewPostgresStatusStore(db store.DBTX, logger *slog.Logger) *PostgresStatusStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStatusStore{
		db:     db,
		logger: logger.With(slog.String("component", "status_store")),
	}
}

// Ensure PostgresStatusStore implements store.StatusStore interface
var _ store.StatusStore = (*PostgresStatusStore)(nil)

// WithTx implements store.StatusStore.WithTx
func (s *PostgresStatusStore) WithTx(tx *sql.Tx) store.StatusStore {
	return &PostgresStatusStore{db: tx, logger: s.logger}
}

// Create implements store.StatusStore.Create
func (s *PostgresStatusStore) Create(ctx context.Context, status *domain.TaskStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := status.Validate(); err != nil {
		log.Warn("status validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO task_statuses (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query, status.Name, status.CreatedAt, status.UpdatedAt).
		Scan(&status.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: status name %q", store.ErrDuplicate, status.Name)
		}
		log.Error("failed to create status",
			slog.String("error", err.Error()),
			slog.String("name", status.Name))
		return MapError(err)
	}

	log.Info("status created successfully", slog.Int64("status_id", status.ID))
	return nil
}

// GetByID implements store.StatusStore.GetByID
func (s *PostgresStatusStore) GetByID(ctx context.Context, id int64) (*domain.TaskStatus, error) {
	query := `SELECT id, name, created_at, updated_at FROM task_statuses WHERE id = $1`

	var status domain.TaskStatus
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&status.ID, &status.Name, &status.CreatedAt, &status.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStatusNotFound
		}
		return nil, err
	}
	return &status, nil
}

// List implements store.StatusStore.List
func (s *PostgresStatusStore) List(ctx context.Context) ([]*domain.TaskStatus, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM task_statuses ORDER BY id`)
	if err != nil {
		log.Error("failed to list statuses", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	statuses := []*domain.TaskStatus{}
	for rows.Next() {
		var status domain.TaskStatus
		if err := rows.Scan(&status.ID, &status.Name, &status.CreatedAt, &status.UpdatedAt); err != nil {
			log.Error("failed to scan status row", slog.String("error", err.Error()))
			return nil, err
		}
		statuses = append(statuses, &status)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}
	return statuses, nil
}

// Update implements store.StatusStore.Update
func (s *PostgresStatusStore) Update(ctx context.Context, status *domain.TaskStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := status.Validate(); err != nil {
		log.Warn("status validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("status_id", status.ID))
		return err
	}

	query := `UPDATE task_statuses SET name = $1, updated_at = $2 WHERE id = $3`
	result, err := s.db.ExecContext(ctx, query, status.Name, status.UpdatedAt, status.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: status name %q", store.ErrDuplicate, status.Name)
		}
		log.Error("failed to update status",
			slog.String("error", err.Error()),
			slog.Int64("status_id", status.ID))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrStatusNotFound)
}

// Delete implements store.StatusStore.Delete
// A status referenced by any task is protected by ON DELETE RESTRICT; that
// surfaces here as store.ErrInUse.
func (s *PostgresStatusStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM task_statuses WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("status still referenced by tasks", slog.Int64("status_id", id))
			return fmt.Errorf("%w: status %d", store.ErrInUse, id)
		}
		log.Error("failed to delete status",
			slog.String("error", err.Error()),
			slog.Int64("status_id", id))
		return err
	}

	return CheckRowsAffected(result, store.ErrStatusNotFound)
}
