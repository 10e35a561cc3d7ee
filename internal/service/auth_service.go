package service

import (
	"context"
	"fmt"

	"task_tracker/internal/models"
)

// AuthService handles user auth logic: registration, password login and
// resolving bearer tokens to users.
type AuthService struct {
	creds  *CredentialStore
	tokens *TokenService
}

func NewAuthService(creds *CredentialStore, tokens *TokenService) *AuthService {
	return &AuthService{creds: creds, tokens: tokens}
}

// SignUp creates a new user.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (models.User, error) {
	return s.creds.Create(ctx, username, password)
}

// GenerateToken validates credentials and returns a bearer token.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (AccessToken, error) {
	u, err := s.creds.Authenticate(ctx, username, password)
	if err != nil {
		return AccessToken{}, err
	}
	if u == nil {
		return AccessToken{}, ErrInvalidCredentials
	}

	ttl := s.tokens.TTL()
	token, err := s.tokens.Issue(u.Username, ttl)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: token, TokenType: "bearer", ExpiresIn: ttl}, nil
}

// Authenticate resolves a bearer token to its user. A bad token and an
// unknown subject are both ErrUnauthenticated; only storage failures differ.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	username, err := s.tokens.Validate(accessToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	u, err := s.creds.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	if u == nil {
		return nil, ErrUnauthenticated
	}
	return u, nil
}
