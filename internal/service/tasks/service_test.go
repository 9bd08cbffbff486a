package tasks

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// newTestService builds a task service whose transaction runner invokes the
// function directly; combined with mocks whose WithTx returns themselves, the
// full create/update/delete flows run without a database.
func newTestService(
	taskStore *mockTaskStore,
	labelStore *mockLabelStore,
	userStore *mockUserStore,
	statusStore *mockStatusStore,
) *taskServiceImpl {
	return &taskServiceImpl{
		taskStore:  taskStore,
		labelStore: labelStore,
		userStore:  userStore,
		statuses:   statusStore,
		logger:     nil,
		runTx: func(ctx context.Context, db *sql.DB, fn store.TxFn) error {
			return fn(ctx, nil)
		},
	}
}

func expectGet(
	taskStore *mockTaskStore,
	userStore *mockUserStore,
	statusStore *mockStatusStore,
	task *domain.Task,
	labels []domain.Label,
) {
	taskStore.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	statusStore.On("GetByID", mock.Anything, task.StatusID).
		Return(&domain.TaskStatus{ID: task.StatusID, Name: "new"}, nil)
	userStore.On("GetByID", mock.Anything, task.CreatorID).
		Return(&domain.User{ID: task.CreatorID, Email: "creator@example.com"}, nil)
	if task.ExecutorID != nil {
		userStore.On("GetByID", mock.Anything, *task.ExecutorID).
			Return(&domain.User{ID: *task.ExecutorID, Email: "executor@example.com"}, nil)
	}
	taskStore.On("GetLabels", mock.Anything, task.ID).Return(labels, nil)
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("relates the resolved label set exactly", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		labelStore := new(mockLabelStore)
		userStore := new(mockUserStore)
		statusStore := new(mockStatusStore)
		svc := newTestService(taskStore, labelStore, userStore, statusStore)

		taskStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Task).ID = 5
			}).
			Return(nil)
		labelStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.Label")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Label).ID = 9
			}).
			Return(nil)
		labelStore.On("GetByIDs", mock.Anything, []int64{1}).
			Return([]domain.Label{{ID: 1, Name: "bug"}}, nil)
		taskStore.On("RelateLabels", mock.Anything, int64(5), []int64{1, 9}).Return(nil)

		created := &domain.Task{ID: 5, Name: "Fix login", StatusID: 1, CreatorID: 2}
		expectGet(taskStore, userStore, statusStore, created, []domain.Label{
			{ID: 1, Name: "bug"},
			{ID: 9, Name: "urgent"},
		})

		result, err := svc.Create(context.Background(), 2, TaskInput{
			Name:     "Fix login",
			StatusID: 1,
			LabelRefs: []domain.LabelRef{
				{ID: 1},
				{NewName: "urgent"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), result.ID)
		assert.Len(t, result.Labels, 2)
		taskStore.AssertExpectations(t)
		labelStore.AssertExpectations(t)
	})

	t.Run("rejects invalid input before touching the store", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		svc := newTestService(taskStore, new(mockLabelStore), new(mockUserStore), new(mockStatusStore))

		_, err := svc.Create(context.Background(), 2, TaskInput{Name: "", StatusID: 1})
		assert.ErrorIs(t, err, domain.ErrValidation)
		taskStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("label resolution failure aborts before relating", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		labelStore := new(mockLabelStore)
		svc := newTestService(taskStore, labelStore, new(mockUserStore), new(mockStatusStore))

		taskStore.On("Create", mock.Anything, mock.Anything).Return(nil)
		labelStore.On("Create", mock.Anything, mock.Anything).Return(store.ErrDuplicate)

		_, err := svc.Create(context.Background(), 2, TaskInput{
			Name:      "Fix login",
			StatusID:  1,
			LabelRefs: []domain.LabelRef{{NewName: "urgent"}},
		})
		assert.ErrorIs(t, err, store.ErrDuplicate)
		taskStore.AssertNotCalled(t, "RelateLabels", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown label id fails resolution", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		labelStore := new(mockLabelStore)
		svc := newTestService(taskStore, labelStore, new(mockUserStore), new(mockStatusStore))

		taskStore.On("Create", mock.Anything, mock.Anything).Return(nil)
		labelStore.On("GetByIDs", mock.Anything, []int64{42}).Return([]domain.Label{}, nil)

		_, err := svc.Create(context.Background(), 2, TaskInput{
			Name:      "Fix login",
			StatusID:  1,
			LabelRefs: []domain.LabelRef{{ID: 42}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidLabelRef)
		taskStore.AssertNotCalled(t, "RelateLabels", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	t.Run("unrelates then relates the new label set and preserves the creator", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		labelStore := new(mockLabelStore)
		userStore := new(mockUserStore)
		statusStore := new(mockStatusStore)
		svc := newTestService(taskStore, labelStore, userStore, statusStore)

		existing := &domain.Task{
			ID:        5,
			Name:      "Fix login",
			StatusID:  1,
			CreatorID: 2,
			CreatedAt: time.Now().Add(-time.Hour),
		}
		taskStore.On("GetByID", mock.Anything, int64(5)).Return(existing, nil).Once()
		taskStore.On("UnrelateLabels", mock.Anything, int64(5)).Return(nil)

		var updated *domain.Task
		taskStore.On("Update", mock.Anything, mock.AnythingOfType("*domain.Task")).
			Run(func(args mock.Arguments) {
				updated = args.Get(1).(*domain.Task)
			}).
			Return(nil)
		labelStore.On("GetByIDs", mock.Anything, []int64{3}).
			Return([]domain.Label{{ID: 3, Name: "ui"}}, nil)
		taskStore.On("RelateLabels", mock.Anything, int64(5), []int64{3}).Return(nil)

		after := &domain.Task{ID: 5, Name: "Fix login form", StatusID: 2, CreatorID: 2}
		expectGet(taskStore, userStore, statusStore, after, []domain.Label{{ID: 3, Name: "ui"}})

		result, err := svc.Update(context.Background(), 5, TaskInput{
			Name:      "Fix login form",
			StatusID:  2,
			LabelRefs: []domain.LabelRef{{ID: 3}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Fix login form", result.Name)

		require.NotNil(t, updated)
		assert.Equal(t, int64(2), updated.CreatorID)
		assert.Equal(t, int64(2), updated.StatusID)
		taskStore.AssertExpectations(t)
	})

	t.Run("label resolution failure leaves the task untouched", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		labelStore := new(mockLabelStore)
		svc := newTestService(taskStore, labelStore, new(mockUserStore), new(mockStatusStore))

		existing := &domain.Task{ID: 5, Name: "Fix login", StatusID: 1, CreatorID: 2}
		taskStore.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)
		taskStore.On("UnrelateLabels", mock.Anything, int64(5)).Return(nil)
		labelStore.On("Create", mock.Anything, mock.Anything).Return(store.ErrDuplicate)

		_, err := svc.Update(context.Background(), 5, TaskInput{
			Name:     "Fix login form",
			StatusID: 2,
			LabelRefs: []domain.LabelRef{
				{ID: 3},
				{NewName: "urgent"},
			},
		})
		assert.ErrorIs(t, err, store.ErrDuplicate)
		taskStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		taskStore.AssertNotCalled(t, "RelateLabels", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		svc := newTestService(taskStore, new(mockLabelStore), new(mockUserStore), new(mockStatusStore))

		taskStore.On("GetByID", mock.Anything, int64(99)).Return(nil, store.ErrTaskNotFound)

		_, err := svc.Update(context.Background(), 99, TaskInput{Name: "x", StatusID: 1})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		taskStore.AssertNotCalled(t, "UnrelateLabels", mock.Anything, mock.Anything)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()

	t.Run("creator deletes task and its associations", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		svc := newTestService(taskStore, new(mockLabelStore), new(mockUserStore), new(mockStatusStore))

		taskStore.On("GetByID", mock.Anything, int64(5)).
			Return(&domain.Task{ID: 5, CreatorID: 2}, nil)
		taskStore.On("UnrelateLabels", mock.Anything, int64(5)).Return(nil)
		taskStore.On("Delete", mock.Anything, int64(5)).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), 5, 2))
		taskStore.AssertExpectations(t)
	})

	t.Run("non-creator is denied and nothing is touched", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		svc := newTestService(taskStore, new(mockLabelStore), new(mockUserStore), new(mockStatusStore))

		taskStore.On("GetByID", mock.Anything, int64(5)).
			Return(&domain.Task{ID: 5, CreatorID: 2}, nil)

		err := svc.Delete(context.Background(), 5, 3)
		assert.ErrorIs(t, err, ErrAccessDenied)
		taskStore.AssertNotCalled(t, "UnrelateLabels", mock.Anything, mock.Anything)
		taskStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing task", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		svc := newTestService(taskStore, new(mockLabelStore), new(mockUserStore), new(mockStatusStore))

		taskStore.On("GetByID", mock.Anything, int64(99)).Return(nil, store.ErrTaskNotFound)

		err := svc.Delete(context.Background(), 99, 2)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()

	t.Run("passes criteria through as a filter", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		svc := newTestService(taskStore, new(mockLabelStore), new(mockUserStore), new(mockStatusStore))

		statusID, labelID := int64(1), int64(3)
		want := store.TaskFilter{StatusID: &statusID, LabelID: &labelID}
		taskStore.On("List", mock.Anything, want).Return([]*domain.TaskWithRelations{}, nil)

		_, err := svc.List(context.Background(), ListCriteria{
			StatusID: &statusID,
			LabelID:  &labelID,
			ActorID:  2,
		})
		require.NoError(t, err)
		taskStore.AssertExpectations(t)
	})

	t.Run("mine overrides an explicit creator criterion", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		svc := newTestService(taskStore, new(mockLabelStore), new(mockUserStore), new(mockStatusStore))

		otherCreator := int64(7)
		taskStore.On("List", mock.Anything, mock.MatchedBy(func(f store.TaskFilter) bool {
			return f.CreatorID != nil && *f.CreatorID == 2
		})).Return([]*domain.TaskWithRelations{}, nil)

		_, err := svc.List(context.Background(), ListCriteria{
			CreatorID: &otherCreator,
			Mine:      true,
			ActorID:   2,
		})
		require.NoError(t, err)
		taskStore.AssertExpectations(t)
	})
}

func TestTaskServiceGet(t *testing.T) {
	t.Parallel()

	t.Run("resolves all relations", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		userStore := new(mockUserStore)
		statusStore := new(mockStatusStore)
		svc := newTestService(taskStore, new(mockLabelStore), userStore, statusStore)

		executorID := int64(3)
		task := &domain.Task{ID: 5, Name: "Fix login", StatusID: 1, CreatorID: 2, ExecutorID: &executorID}
		expectGet(taskStore, userStore, statusStore, task, []domain.Label{{ID: 1, Name: "bug"}})

		result, err := svc.Get(context.Background(), 5)
		require.NoError(t, err)
		require.NotNil(t, result.Status)
		require.NotNil(t, result.Creator)
		require.NotNil(t, result.Executor)
		assert.Equal(t, executorID, result.Executor.ID)
		assert.Len(t, result.Labels, 1)
	})

	t.Run("relation resolution failure surfaces", func(t *testing.T) {
		t.Parallel()
		taskStore := new(mockTaskStore)
		userStore := new(mockUserStore)
		statusStore := new(mockStatusStore)
		svc := newTestService(taskStore, new(mockLabelStore), userStore, statusStore)

		task := &domain.Task{ID: 5, Name: "Fix login", StatusID: 1, CreatorID: 2}
		taskStore.On("GetByID", mock.Anything, int64(5)).Return(task, nil)
		statusStore.On("GetByID", mock.Anything, int64(1)).
			Return(nil, store.ErrStatusNotFound)

		_, err := svc.Get(context.Background(), 5)
		assert.ErrorIs(t, err, store.ErrStatusNotFound)
	})
}

func TestResolveLabelRefsRollsUpErrors(t *testing.T) {
	t.Parallel()

	labelStore := new(mockLabelStore)
	svc := newTestService(new(mockTaskStore), labelStore, new(mockUserStore), new(mockStatusStore))

	_, err := svc.resolveLabelRefs(context.Background(), labelStore, []domain.LabelRef{
		{NewName: ""},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLabelRef)
	labelStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

