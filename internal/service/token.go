package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/todo-api/internal/domain"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the signed token payload.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed identity tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. A non-positive ttl selects
// DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of s that reads the current time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

// Issue signs a token for userID that expires ttl from now.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry and returns the embedded user ID.
// Every failure is reported as domain.ErrUnauthenticated.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", domain.ErrUnauthenticated
	}
	if claims.UserID == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.UserID, nil
}
