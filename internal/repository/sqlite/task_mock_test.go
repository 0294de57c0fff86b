package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/repository/sqlite"
)

func newMockTaskRepo(t *testing.T) (*sqlite.TaskRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlite.NewTaskRepository(db), mock
}

func TestTaskRepository_UpdateStatus_FiltersOwnerInUpdate(t *testing.T) {
	repo, mock := newMockTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^UPDATE tasks SET status = \?, updated_at = \? WHERE id = \? AND user_id = \?$`).
		WithArgs("done", sqlmock.AnyArg(), "t-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.UpdateStatusByOwner(context.Background(), "u-2", "t-1", domain.TaskStatusDone)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskRepository_Update_FiltersOwnerInUpdate(t *testing.T) {
	repo, mock := newMockTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^UPDATE tasks SET title = \?.*WHERE id = \? AND user_id = \?$`).
		WithArgs("t", "", "open", "low", sqlmock.AnyArg(), sqlmock.AnyArg(), "t-1", "u-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.UpdateByOwner(context.Background(), "u-2", "t-1", domain.TaskFields{
		Title:    "t",
		Status:   domain.TaskStatusOpen,
		Priority: domain.TaskPriorityLow,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskRepository_Delete_FiltersOwnerInDelete(t *testing.T) {
	repo, mock := newMockTaskRepo(t)

	mock.ExpectExec(`^DELETE FROM tasks WHERE id = \? AND user_id = \?$`).
		WithArgs("t-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByOwner(context.Background(), "u-1", "t-1"); err != nil {
		t.Fatalf("DeleteByOwner: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTaskRepository_StoreFailure(t *testing.T) {
	repo, mock := newMockTaskRepo(t)
	storeErr := errors.New("disk I/O error")

	mock.ExpectQuery(`SELECT .* FROM tasks WHERE user_id = \?`).
		WithArgs("u-1").
		WillReturnError(storeErr)

	_, err := repo.ListByOwner(context.Background(), "u-1")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("store failure must not look like ErrNotFound")
	}
}

func TestTaskRepository_GetByOwner_NoRows(t *testing.T) {
	repo, mock := newMockTaskRepo(t)

	mock.ExpectQuery(`SELECT .* FROM tasks WHERE id = \? AND user_id = \?`).
		WithArgs("t-1", "u-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByOwner(context.Background(), "u-1", "t-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
