package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, MongoDB) owns its own schema or index
// setup, ensuring the entire backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Store is a Database that also hands out the repositories built on it.
type Store interface {
	Database
	Users() UserRepository
	Tasks() TaskRepository
}
