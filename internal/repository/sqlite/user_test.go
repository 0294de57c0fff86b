package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/msomdec/todo-api/internal/domain"
	"github.com/msomdec/todo-api/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, repo domain.UserRepository, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: email, PasswordHash: "hash"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create %s: %v", username, err)
	}
	return user
}

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()

	user := createUser(t, repo, "alice", "alice@example.com")

	if user.ID == "" {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_Duplicates(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same email", "other", "dup@example.com"},
		{"same username", "dup", "other@example.com"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			repo := db.Users()
			createUser(t, repo, "dup", "dup@example.com")

			err := repo.Create(context.Background(), &domain.User{
				Username:     tc.username,
				Email:        tc.email,
				PasswordHash: "hash2",
			})
			if !errors.Is(err, domain.ErrDuplicateIdentity) {
				t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
			}
		})
	}
}

func TestUserRepository_ExistsByEmailOrUsername(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()
	createUser(t, repo, "bob", "bob@example.com")

	tests := []struct {
		name     string
		email    string
		username string
		want     bool
	}{
		{"email matches", "bob@example.com", "someone", true},
		{"username matches", "someone@example.com", "bob", true},
		{"both match", "bob@example.com", "bob", true},
		{"neither matches", "someone@example.com", "someone", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.ExistsByEmailOrUsername(ctx, tc.email, tc.username)
			if err != nil {
				t.Fatalf("ExistsByEmailOrUsername: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	user := createUser(t, repo, "carol", "carol@example.com")

	found, err := repo.GetByEmail(context.Background(), "carol@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if found.ID != user.ID {
		t.Fatalf("expected id %s, got %s", user.ID, found.ID)
	}
	if found.Username != "carol" || found.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", found)
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByEmail(context.Background(), "nonexistent@example.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
