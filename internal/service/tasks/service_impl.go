package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ TaskService = (*taskServiceImpl)(nil)

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	db         *sql.DB
	taskStore  store.TaskStore
	labelStore store.LabelStore
	userStore  store.UserStore
	statuses   store.StatusStore
	logger     *slog.Logger

	// runTx wraps store.RunInTransaction; injectable for testing
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewTaskService creates a new TaskService implementation.
func NewTaskService(
	db *sql.DB,
	taskStore store.TaskStore,
	labelStore store.LabelStore,
	userStore store.UserStore,
	statusStore store.StatusStore,
	logger *slog.Logger,
) TaskService {
	if db == nil {
		panic("db cannot be nil")
	}
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}
	if labelStore == nil {
		panic("labelStore cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if statusStore == nil {
		panic("statusStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		db:         db,
		taskStore:  taskStore,
		labelStore: labelStore,
		userStore:  userStore,
		statuses:   statusStore,
		logger:     logger.With(slog.String("component", "task_service")),
		runTx:      store.RunInTransaction,
	}
}

// Create implements TaskService.Create.
func (s *taskServiceImpl) Create(
	ctx context.Context,
	actorID int64,
	input TaskInput,
) (*domain.TaskWithRelations, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(input.Name, input.Description, input.StatusID, actorID, input.ExecutorID)
	if err != nil {
		log.Warn("task validation failed",
			slog.String("error", err.Error()),
			slog.Int64("actor_id", actorID))
		return nil, err
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		taskStore := s.taskStore.WithTx(tx)
		labelStore := s.labelStore.WithTx(tx)

		if err := taskStore.Create(ctx, task); err != nil {
			return err
		}

		labelIDs, err := s.resolveLabelRefs(ctx, labelStore, input.LabelRefs)
		if err != nil {
			return err
		}

		return taskStore.RelateLabels(ctx, task.ID, labelIDs)
	})
	if err != nil {
		log.Warn("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("actor_id", actorID))
		return nil, err
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("creator_id", actorID))
	return s.Get(ctx, task.ID)
}

// Update implements TaskService.Update.
// The full label set is reconciled by removing every existing association and
// relating the resolved set in its place; label sets are small and this
// guarantees the stored set exactly matches the resolved one.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id int64,
	input TaskInput,
) (*domain.TaskWithRelations, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		taskStore := s.taskStore.WithTx(tx)
		labelStore := s.labelStore.WithTx(tx)

		task, err := taskStore.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := taskStore.UnrelateLabels(ctx, id); err != nil {
			return err
		}

		labelIDs, err := s.resolveLabelRefs(ctx, labelStore, input.LabelRefs)
		if err != nil {
			return err
		}

		task.Name = input.Name
		task.Description = input.Description
		task.StatusID = input.StatusID
		task.ExecutorID = input.ExecutorID
		task.UpdatedAt = time.Now().UTC()

		if err := taskStore.Update(ctx, task); err != nil {
			return err
		}

		return taskStore.RelateLabels(ctx, id, labelIDs)
	})
	if err != nil {
		log.Warn("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	log.Info("task updated", slog.Int64("task_id", id))
	return s.Get(ctx, id)
}

// Delete implements TaskService.Delete.
// Only the task's creator may delete it; the label associations go with the
// task, the labels themselves stay.
func (s *taskServiceImpl) Delete(ctx context.Context, id, actorID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if task.CreatorID != actorID {
		log.Warn("task delete denied",
			slog.Int64("task_id", id),
			slog.Int64("actor_id", actorID),
			slog.Int64("creator_id", task.CreatorID))
		return ErrAccessDenied
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		taskStore := s.taskStore.WithTx(tx)

		if err := taskStore.UnrelateLabels(ctx, id); err != nil {
			return err
		}
		return taskStore.Delete(ctx, id)
	})
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	log.Info("task deleted",
		slog.Int64("task_id", id),
		slog.Int64("actor_id", actorID))
	return nil
}

// Get implements TaskService.Get.
func (s *taskServiceImpl) Get(ctx context.Context, id int64) (*domain.TaskWithRelations, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &domain.TaskWithRelations{Task: *task}

	if result.Status, err = s.statuses.GetByID(ctx, task.StatusID); err != nil {
		return nil, fmt.Errorf("failed to resolve task status: %w", err)
	}
	if result.Creator, err = s.userStore.GetByID(ctx, task.CreatorID); err != nil {
		return nil, fmt.Errorf("failed to resolve task creator: %w", err)
	}
	if task.ExecutorID != nil {
		if result.Executor, err = s.userStore.GetByID(ctx, *task.ExecutorID); err != nil {
			return nil, fmt.Errorf("failed to resolve task executor: %w", err)
		}
	}
	if result.Labels, err = s.taskStore.GetLabels(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to resolve task labels: %w", err)
	}

	return result, nil
}

// List implements TaskService.List.
// Listing is read-only and runs outside any transaction.
func (s *taskServiceImpl) List(
	ctx context.Context,
	criteria ListCriteria,
) ([]*domain.TaskWithRelations, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter := store.TaskFilter{
		StatusID:   criteria.StatusID,
		ExecutorID: criteria.ExecutorID,
		CreatorID:  criteria.CreatorID,
		LabelID:    criteria.LabelID,
	}

	// The "mine" flag wins over any explicit creator criterion.
	if criteria.Mine {
		actorID := criteria.ActorID
		filter.CreatorID = &actorID
	}

	tasks, err := s.taskStore.List(ctx, filter)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, err
	}
	return tasks, nil
}

// resolveLabelRefs turns the parsed label references into concrete label ids,
// inserting a new label row for each inline reference. It must be called with
// a transactional label store: labels created here are rolled back with the
// enclosing transaction on any later failure. Existing ids are verified with
// one bulk lookup; an id that matches no label fails the whole operation.
func (s *taskServiceImpl) resolveLabelRefs(
	ctx context.Context,
	labelStore store.LabelStore,
	refs []domain.LabelRef,
) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids := make([]int64, 0, len(refs))
	existing := make([]int64, 0, len(refs))
	for _, ref := range refs {
		if !ref.IsNew() {
			ids = append(ids, ref.ID)
			existing = append(existing, ref.ID)
			continue
		}

		label, err := domain.NewLabel(ref.NewName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLabelRef, err)
		}
		if err := labelStore.Create(ctx, label); err != nil {
			return nil, err
		}

		log.Debug("label created during resolution",
			slog.Int64("label_id", label.ID),
			slog.String("name", label.Name))
		ids = append(ids, label.ID)
	}

	if len(existing) > 0 {
		labels, err := labelStore.GetByIDs(ctx, existing)
		if err != nil {
			return nil, err
		}
		found := make(map[int64]bool, len(labels))
		for _, label := range labels {
			found[label.ID] = true
		}
		for _, id := range existing {
			if !found[id] {
				return nil, fmt.Errorf("%w: no label with id %d", domain.ErrInvalidLabelRef, id)
			}
		}
	}

	return ids, nil
}
