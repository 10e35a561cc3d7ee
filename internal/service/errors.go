package service

import "errors"

// Outcomes returned to the API layer. The core never logs them; callers map
// them to transport codes with errors.Is.
var (
	ErrUnauthenticated    = errors.New("could not validate credentials")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrConflict           = errors.New("username already registered")
	ErrNotFound           = errors.New("task not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidToken       = errors.New("invalid token")
)
