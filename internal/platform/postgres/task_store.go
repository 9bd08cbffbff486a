package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
// It inserts the task's scalar fields only; label associations are related
// separately by the caller inside the same transaction.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO tasks (name, description, status_id, creator_id, executor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Name,
		nullString(task.Description),
		task.StatusID,
		task.CreatorID,
		task.ExecutorID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("task name already exists", slog.String("name", task.Name))
			return fmt.Errorf("%w: task name %q", store.ErrDuplicate, task.Name)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("name", task.Name))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("creator_id", task.CreatorID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, status_id, creator_id, executor_id, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	var description sql.NullString
	var executorID sql.NullInt64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Name,
		&description,
		&task.StatusID,
		&task.CreatorID,
		&executorID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	task.Description = description.String
	if executorID.Valid {
		task.ExecutorID = &executorID.Int64
	}
	return &task, nil
}

// Update implements store.TaskStore.Update
// It applies the scalar-field update only; the caller reconciles label
// associations separately inside the same transaction.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	query := `
		UPDATE tasks
		SET name = $1, description = $2, status_id = $3, creator_id = $4, executor_id = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Name,
		nullString(task.Description),
		task.StatusID,
		task.CreatorID,
		task.ExecutorID,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: task name %q", store.ErrDuplicate, task.Name)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task updated successfully", slog.Int64("task_id", task.ID))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// GetLabels implements store.TaskStore.GetLabels
func (s *PostgresTaskStore) GetLabels(ctx context.Context, taskID int64) ([]domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT l.id, l.name, l.created_at, l.updated_at
		FROM tasks_labels tl
		JOIN labels l ON l.id = tl.label_id
		WHERE tl.task_id = $1
		ORDER BY l.id
	`
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to get task labels",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	return scanLabels(rows)
}

// RelateLabels implements store.TaskStore.RelateLabels
// ON CONFLICT DO NOTHING on the (task_id, label_id) pair collapses duplicate
// ids in the input, so the join table never holds duplicates.
func (s *PostgresTaskStore) RelateLabels(ctx context.Context, taskID int64, labelIDs []int64) error {
	if len(labelIDs) == 0 {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks_labels (task_id, label_id)
		VALUES ($1, $2)
		ON CONFLICT (task_id, label_id) DO NOTHING
	`
	for _, labelID := range labelIDs {
		if _, err := s.db.ExecContext(ctx, query, taskID, labelID); err != nil {
			if IsForeignKeyViolation(err) {
				log.Warn("label reference does not exist",
					slog.Int64("task_id", taskID),
					slog.Int64("label_id", labelID))
				return fmt.Errorf("%w: label %d does not exist", store.ErrInvalidEntity, labelID)
			}
			log.Error("failed to relate label",
				slog.String("error", err.Error()),
				slog.Int64("task_id", taskID),
				slog.Int64("label_id", labelID))
			return MapError(err)
		}
	}

	log.Debug("labels related",
		slog.Int64("task_id", taskID),
		slog.Int("count", len(labelIDs)))
	return nil
}

// UnrelateLabels implements store.TaskStore.UnrelateLabels
func (s *PostgresTaskStore) UnrelateLabels(ctx context.Context, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks_labels WHERE task_id = $1`, taskID)
	if err != nil {
		log.Error("failed to unrelate labels",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return MapError(err)
	}

	log.Debug("labels unrelated", slog.Int64("task_id", taskID))
	return nil
}

// listSelect is the base of the task listing query: tasks joined with their
// status and creator, and left-joined with the optional executor.
const listSelect = `
SELECT t.id, t.name, t.description, t.status_id, t.creator_id, t.executor_id, t.created_at, t.updated_at,
       s.id, s.name, s.created_at, s.updated_at,
       c.id, c.email, c.password_hash, c.first_name, c.last_name, c.created_at, c.updated_at,
       e.id, e.email, e.password_hash, e.first_name, e.last_name, e.created_at, e.updated_at
FROM tasks t
JOIN task_statuses s ON s.id = t.status_id
JOIN users c ON c.id = t.creator_id
LEFT JOIN users e ON e.id = t.executor_id`

// buildListQuery composes the optional filter criteria into a single query.
// Only the criteria actually supplied contribute predicates; an empty filter
// selects all tasks. The label criterion is satisfied through the join table,
// so a task qualifies when any of its labels matches.
func buildListQuery(filter store.TaskFilter) (string, []any) {
	var conditions []string
	var args []any

	addCondition := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.StatusID != nil {
		addCondition("t.status_id = $%d", *filter.StatusID)
	}
	if filter.ExecutorID != nil {
		addCondition("t.executor_id = $%d", *filter.ExecutorID)
	}
	if filter.CreatorID != nil {
		addCondition("t.creator_id = $%d", *filter.CreatorID)
	}
	if filter.LabelID != nil {
		addCondition(
			"EXISTS (SELECT 1 FROM tasks_labels tl WHERE tl.task_id = t.id AND tl.label_id = $%d)",
			*filter.LabelID,
		)
	}

	query := listSelect
	if len(conditions) > 0 {
		query += "\nWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\nORDER BY t.id"

	return query, args
}

// List implements store.TaskStore.List
// Each matching task is returned with its status, creator, executor, and full
// label set resolved. The labels are fetched in one batched query rather than
// per task.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.TaskWithRelations, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.TaskWithRelations{}
	var taskIDs []int64
	byID := map[int64]*domain.TaskWithRelations{}

	for rows.Next() {
		task, err := scanTaskWithRelations(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
		taskIDs = append(taskIDs, task.ID)
		byID[task.ID] = task
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.attachLabels(ctx, taskIDs, byID); err != nil {
		return nil, err
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// attachLabels resolves the label sets for the given tasks in one query.
func (s *PostgresTaskStore) attachLabels(
	ctx context.Context,
	taskIDs []int64,
	byID map[int64]*domain.TaskWithRelations,
) error {
	if len(taskIDs) == 0 {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT tl.task_id, l.id, l.name, l.created_at, l.updated_at
		FROM tasks_labels tl
		JOIN labels l ON l.id = tl.label_id
		WHERE tl.task_id = ANY($1)
		ORDER BY tl.task_id, l.id
	`
	rows, err := s.db.QueryContext(ctx, query, taskIDs)
	if err != nil {
		log.Error("failed to query task labels", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for rows.Next() {
		var taskID int64
		var label domain.Label
		if err := rows.Scan(&taskID, &label.ID, &label.Name, &label.CreatedAt, &label.UpdatedAt); err != nil {
			log.Error("failed to scan task label row", slog.String("error", err.Error()))
			return err
		}
		if task, ok := byID[taskID]; ok {
			task.Labels = append(task.Labels, label)
		}
	}
	return rows.Err()
}

// scanTaskWithRelations scans one row of the listing query.
func scanTaskWithRelations(rows *sql.Rows) (*domain.TaskWithRelations, error) {
	var task domain.TaskWithRelations
	var description sql.NullString
	var executorID sql.NullInt64
	var status domain.TaskStatus
	var creator domain.User
	var execID sql.NullInt64
	var execEmail, execHash, execFirst, execLast sql.NullString
	var execCreated, execUpdated sql.NullTime

	err := rows.Scan(
		&task.ID, &task.Name, &description, &task.StatusID, &task.CreatorID, &executorID,
		&task.CreatedAt, &task.UpdatedAt,
		&status.ID, &status.Name, &status.CreatedAt, &status.UpdatedAt,
		&creator.ID, &creator.Email, &creator.HashedPassword, &creator.FirstName, &creator.LastName,
		&creator.CreatedAt, &creator.UpdatedAt,
		&execID, &execEmail, &execHash, &execFirst, &execLast, &execCreated, &execUpdated,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	if executorID.Valid {
		task.ExecutorID = &executorID.Int64
	}
	task.Status = &status
	task.Creator = &creator
	task.Labels = []domain.Label{}

	if execID.Valid {
		task.Executor = &domain.User{
			ID:             execID.Int64,
			Email:          execEmail.String,
			HashedPassword: execHash.String,
			FirstName:      execFirst.String,
			LastName:       execLast.String,
			CreatedAt:      execCreated.Time,
			UpdatedAt:      execUpdated.Time,
		}
	}

	return &task, nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
