package domain

import (
	"context"
	"time"
)

// User represents a registered user of the application.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create assigns the user an ID. A username or email collision with an
	// existing record yields ErrDuplicateIdentity.
	Create(ctx context.Context, user *User) error
	// ExistsByEmailOrUsername reports whether any user has the given email
	// or the given username.
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
