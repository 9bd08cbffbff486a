package tasks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// mockTaskStore is a testify mock of store.TaskStore. WithTx returns the mock
// itself so expectations carry across the transaction boundary.
type mockTaskStore struct {
	mock.Mock
}

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTaskStore) List(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*domain.TaskWithRelations, error) {
	args := m.Called(ctx, filter)
	if tasks, ok := args.Get(0).([]*domain.TaskWithRelations); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) GetLabels(ctx context.Context, taskID int64) ([]domain.Label, error) {
	args := m.Called(ctx, taskID)
	if labels, ok := args.Get(0).([]domain.Label); ok {
		return labels, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) RelateLabels(ctx context.Context, taskID int64, labelIDs []int64) error {
	args := m.Called(ctx, taskID, labelIDs)
	return args.Error(0)
}

func (m *mockTaskStore) UnrelateLabels(ctx context.Context, taskID int64) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// mockLabelStore is a testify mock of store.LabelStore.
type mockLabelStore struct {
	mock.Mock
}

func (m *mockLabelStore) Create(ctx context.Context, label *domain.Label) error {
	args := m.Called(ctx, label)
	return args.Error(0)
}

func (m *mockLabelStore) GetByID(ctx context.Context, id int64) (*domain.Label, error) {
	args := m.Called(ctx, id)
	if label, ok := args.Get(0).(*domain.Label); ok {
		return label, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLabelStore) GetByIDs(ctx context.Context, ids []int64) ([]domain.Label, error) {
	args := m.Called(ctx, ids)
	if labels, ok := args.Get(0).([]domain.Label); ok {
		return labels, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLabelStore) List(ctx context.Context) ([]*domain.Label, error) {
	args := m.Called(ctx)
	if labels, ok := args.Get(0).([]*domain.Label); ok {
		return labels, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLabelStore) Update(ctx context.Context, label *domain.Label) error {
	args := m.Called(ctx, label)
	return args.Error(0)
}

func (m *mockLabelStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLabelStore) WithTx(tx *sql.Tx) store.LabelStore {
	return m
}

// mockUserStore is a testify mock of store.UserStore.
type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]*domain.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// mockStatusStore is a testify mock of store.StatusStore.
type mockStatusStore struct {
	mock.Mock
}

func (m *mockStatusStore) Create(ctx context.Context, status *domain.TaskStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *mockStatusStore) GetByID(ctx context.Context, id int64) (*domain.TaskStatus, error) {
	args := m.Called(ctx, id)
	if status, ok := args.Get(0).(*domain.TaskStatus); ok {
		return status, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStatusStore) List(ctx context.Context) ([]*domain.TaskStatus, error) {
	args := m.Called(ctx)
	if statuses, ok := args.Get(0).([]*domain.TaskStatus); ok {
		return statuses, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStatusStore) Update(ctx context.Context, status *domain.TaskStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *mockStatusStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStatusStore) WithTx(tx *sql.Tx) store.StatusStore {
	return m
}
