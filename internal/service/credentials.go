package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// CredentialStore persists identities and checks passwords.
type CredentialStore struct {
	repo   repository.Authorization
	hasher PasswordHasher
}

func NewCredentialStore(repo repository.Authorization, hasher PasswordHasher) *CredentialStore {
	return &CredentialStore{repo: repo, hasher: hasher}
}

type credentials struct {
	Username string `validate:"required,max=255"`
	Password string `validate:"required"`
}

// FindByUsername returns (nil, nil) when no such user exists.
func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Create registers a user. Usernames are compared exactly, case included.
func (s *CredentialStore) Create(ctx context.Context, username, password string) (models.User, error) {
	if err := checkStruct(credentials{Username: username, Password: password}); err != nil {
		return models.User{}, err
	}
	if strings.TrimSpace(username) == "" {
		return models.User{}, fmt.Errorf("%w: username is blank", ErrInvalidInput)
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, ErrConflict
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}
	id, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return models.User{}, ErrConflict
		}
		return models.User{}, err
	}
	return models.User{ID: id, Username: username, PasswordHash: hash}, nil
}

// Authenticate returns the user only when the password matches; an unknown
// user or wrong password both yield (nil, nil).
func (s *CredentialStore) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil
	}
	return u, nil
}
