package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/msomdec/todo-api/internal/domain"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// dueDateLayouts are tried in order when parsing a due date.
var dueDateLayouts = []string{time.DateOnly, time.RFC3339Nano}

// TaskInput is the caller-supplied field set for a create or full update.
// Empty status and priority fall back to open and medium.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *string
}

// TaskService handles owner-scoped task operations.
type TaskService struct {
	tasks domain.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// Create validates in and stores a new task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID string, in TaskInput) (*domain.Task, error) {
	fields, err := parseTaskInput(in)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{UserID: ownerID, TaskFields: fields}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns every task owned by ownerID.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID)
}

// Get returns one of ownerID's tasks.
func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	return s.tasks.GetByOwner(ctx, ownerID, id)
}

// Update replaces all editable fields of one of ownerID's tasks.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, in TaskInput) (*domain.Task, error) {
	fields, err := parseTaskInput(in)
	if err != nil {
		return nil, err
	}
	return s.tasks.UpdateByOwner(ctx, ownerID, id, fields)
}

// UpdateStatus changes only the status of one of ownerID's tasks.
func (s *TaskService) UpdateStatus(ctx context.Context, ownerID, id, status string) (*domain.Task, error) {
	st := domain.TaskStatus(strings.TrimSpace(status))
	if !st.Valid() {
		return nil, fmt.Errorf("%w: status must be one of open, in-progress, done", domain.ErrInvalidInput)
	}
	return s.tasks.UpdateStatusByOwner(ctx, ownerID, id, st)
}

// Delete removes one of ownerID's tasks.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	return s.tasks.DeleteByOwner(ctx, ownerID, id)
}

func parseTaskInput(in TaskInput) (domain.TaskFields, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.TaskFields{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return domain.TaskFields{}, fmt.Errorf("%w: title must be %d characters or fewer", domain.ErrInvalidInput, maxTitleLength)
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLength {
		return domain.TaskFields{}, fmt.Errorf("%w: description must be %d characters or fewer", domain.ErrInvalidInput, maxDescriptionLength)
	}

	status := domain.TaskStatus(strings.TrimSpace(in.Status))
	if status == "" {
		status = domain.TaskStatusOpen
	}
	if !status.Valid() {
		return domain.TaskFields{}, fmt.Errorf("%w: status must be one of open, in-progress, done", domain.ErrInvalidInput)
	}

	priority := domain.TaskPriority(strings.TrimSpace(in.Priority))
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	if !priority.Valid() {
		return domain.TaskFields{}, fmt.Errorf("%w: priority must be one of low, medium, high", domain.ErrInvalidInput)
	}

	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return domain.TaskFields{}, err
	}

	return domain.TaskFields{
		Title:       title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     due,
	}, nil
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*raw)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: dueDate must be YYYY-MM-DD or RFC 3339", domain.ErrInvalidInput)
}
