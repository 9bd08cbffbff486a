package domain

import (
	"fmt"
	"time"
)

// Common task validation errors, all wrapping ErrValidation.
var (
	ErrEmptyTaskName   = fmt.Errorf("%w: task name cannot be empty", ErrValidation)
	ErrEmptyStatusID   = fmt.Errorf("%w: task status is required", ErrValidation)
	ErrEmptyCreatorID  = fmt.Errorf("%w: task creator is required", ErrValidation)
	ErrInvalidExecutor = fmt.Errorf("%w: task executor is invalid", ErrValidation)
	ErrEmptyStatusName = fmt.Errorf("%w: status name cannot be empty", ErrValidation)
	ErrEmptyLabelName  = fmt.Errorf("%w: label name cannot be empty", ErrValidation)
)

// TaskStatus is a named workflow state referenced by tasks.
type TaskStatus struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTaskStatus creates a TaskStatus with the given name.
func NewTaskStatus(name string) (*TaskStatus, error) {
	now := time.Now().UTC()
	status := &TaskStatus{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return status, nil
}

// Validate checks if the TaskStatus has valid data.
func (s *TaskStatus) Validate() error {
	if s.Name == "" {
		return ErrEmptyStatusName
	}
	return nil
}

// Label is a named tag associated with tasks through a many-to-many join.
type Label struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLabel creates a Label with the given name.
func NewLabel(name string) (*Label, error) {
	now := time.Now().UTC()
	label := &Label{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := label.Validate(); err != nil {
		return nil, err
	}
	return label, nil
}

// Validate checks if the Label has valid data.
func (l *Label) Validate() error {
	if l.Name == "" {
		return ErrEmptyLabelName
	}
	return nil
}

// Task is the central entity: a unit of work with a required status and
// creator, an optional executor, and a set of associated labels. The label
// associations are lifecycle-bound to the task, not to the labels.
type Task struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StatusID    int64     `json:"status_id"`
	CreatorID   int64     `json:"creator_id"`
	ExecutorID  *int64    `json:"executor_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a Task from scalar fields. The creator id must be the
// authenticated actor's id; it is never taken from user input.
func NewTask(name, description string, statusID, creatorID int64, executorID *int64) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		Name:        name,
		Description: description,
		StatusID:    statusID,
		CreatorID:   creatorID,
		ExecutorID:  executorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.Name == "" {
		return ErrEmptyTaskName
	}
	if t.StatusID <= 0 {
		return ErrEmptyStatusID
	}
	if t.CreatorID <= 0 {
		return ErrEmptyCreatorID
	}
	if t.ExecutorID != nil && *t.ExecutorID <= 0 {
		return ErrInvalidExecutor
	}
	return nil
}

// TaskWithRelations is a Task together with its resolved relations, as
// returned by listing and show operations.
type TaskWithRelations struct {
	Task
	Status   *TaskStatus `json:"status,omitempty"`
	Creator  *User       `json:"creator,omitempty"`
	Executor *User       `json:"executor,omitempty"`
	Labels   []Label     `json:"labels"`
}
