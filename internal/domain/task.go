package domain

import (
	"context"
	"time"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TaskFields holds the owner-editable part of a task.
type TaskFields struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
}

// Task is a to-do item. UserID is fixed at creation.
type Task struct {
	ID     string
	UserID string
	TaskFields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskRepository defines persistence operations for tasks. Every method is
// scoped by owner; a task under a different owner is reported as
// ErrNotFound. Mutations match owner and id in the same statement that
// changes the row.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	ListByOwner(ctx context.Context, ownerID string) ([]Task, error)
	GetByOwner(ctx context.Context, ownerID, id string) (*Task, error)
	UpdateByOwner(ctx context.Context, ownerID, id string, fields TaskFields) (*Task, error)
	UpdateStatusByOwner(ctx context.Context, ownerID, id string, status TaskStatus) (*Task, error)
	DeleteByOwner(ctx context.Context, ownerID, id string) error
}
