package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/todo-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles user registration, credential checks and login.
type AuthService struct {
	users      domain.UserRepository
	tokens     *TokenService
	bcryptCost int
	// dummyHash is compared against on unknown emails so both login
	// failure paths pay for a bcrypt comparison.
	dummyHash []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		// Only an out-of-range cost fails here; fall back to the default.
		dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

// Register creates a new user account. A username or email already in use
// yields domain.ErrDuplicateIdentity.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email, and password are required", domain.ErrInvalidInput)
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateIdentity
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	// The unique indexes catch a registration racing past the check above.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Verify returns the user with the given email if password matches.
// Unknown emails and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies credentials and returns a signed token with the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.Verify(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return token, user, nil
}
