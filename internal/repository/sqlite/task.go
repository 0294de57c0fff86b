package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/todo-api/internal/domain"
)

const taskColumns = `id, user_id, title, description, status, priority, due_date, created_at, updated_at`

// TaskRepository implements domain.TaskRepository using SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite-backed TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, task.UserID, task.Title, task.Description, string(task.Status), string(task.Priority),
		nullTime(task.DueDate), now, now,
	)
	if err != nil {
		// The owner came from a verified token but no longer has a row.
		if isForeignKeyError(err) {
			return domain.ErrUnauthenticated
		}
		return fmt.Errorf("insert task: %w", err)
	}

	task.ID = id
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY rowid`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	return getTask(ctx, r.db, ownerID, id)
}

func (r *TaskRepository) UpdateByOwner(ctx context.Context, ownerID, id string, fields domain.TaskFields) (*domain.Task, error) {
	return r.mutate(ctx, ownerID, id,
		`UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		fields.Title, fields.Description, string(fields.Status), string(fields.Priority),
		nullTime(fields.DueDate), time.Now().UTC(), id, ownerID,
	)
}

func (r *TaskRepository) UpdateStatusByOwner(ctx context.Context, ownerID, id string, status domain.TaskStatus) (*domain.Task, error) {
	return r.mutate(ctx, ownerID, id,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		string(status), time.Now().UTC(), id, ownerID,
	)
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mutate runs a single owner-filtered UPDATE and reads the row back inside
// the same transaction.
func (r *TaskRepository) mutate(ctx context.Context, ownerID, id, query string, args ...any) (*domain.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}

	task, err := getTask(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return task, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q queryRower, ownerID, id string) (*domain.Task, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, ownerID)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*domain.Task, error) {
	var (
		t        domain.Task
		status   string
		priority string
		due      sql.NullTime
	)
	err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &status, &priority, &due, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	if due.Valid {
		d := due.Time.UTC()
		t.DueDate = &d
	}
	return &t, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func isForeignKeyError(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
