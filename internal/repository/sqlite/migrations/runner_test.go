package migrations_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/msomdec/todo-api/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	// Enable foreign keys for consistency with production.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	// Verify the schema by inserting a user and one of their tasks.
	if _, err := db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)",
		"u1", "alice", "a@x.com", "hash123",
	); err != nil {
		t.Fatalf("insert into users: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO tasks (id, user_id, title) VALUES (?, ?, ?)",
		"t1", "u1", "buy milk",
	); err != nil {
		t.Fatalf("insert into tasks: %v", err)
	}

	var status, priority string
	if err := db.QueryRowContext(ctx, "SELECT status, priority FROM tasks WHERE id = ?", "t1").Scan(&status, &priority); err != nil {
		t.Fatalf("select task: %v", err)
	}
	if status != "open" || priority != "medium" {
		t.Fatalf("expected defaults open/medium, got %s/%s", status, priority)
	}

	// Tasks cannot reference a missing owner.
	if _, err := db.ExecContext(ctx,
		"INSERT INTO tasks (id, user_id, title) VALUES (?, ?, ?)",
		"t2", "ghost", "orphan",
	); err == nil {
		t.Fatal("expected foreign key violation for unknown owner")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	// Run migrations twice; second run should be a no-op.
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	files, err := migrations.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != len(files) {
		t.Fatalf("expected %d migration records, got %d", len(files), count)
	}
}
