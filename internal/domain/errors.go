package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateIdentity  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidInput       = errors.New("invalid input")
)
