package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	CreateFn        func(username, hash string) (int, error)
	GetByUsernameFn func(username string) (*models.User, error)

	createCalls []struct {
		username string
		hash     string
	}
	getCalls []string
}

func (m *mockAuthRepo) Create(_ context.Context, username, hash string) (int, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		hash     string
	}{username: username, hash: hash})
	return m.CreateFn(username, hash)
}

func (m *mockAuthRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.getCalls = append(m.getCalls, username)
	if m.GetByUsernameFn == nil {
		return nil, nil
	}
	return m.GetByUsernameFn(username)
}

// memUsers is a tiny in-memory Authorization for round-trip tests.
type memUsers struct {
	byName map[string]models.User
}

func newMemUsers() *memUsers { return &memUsers{byName: map[string]models.User{}} }

func (m *memUsers) Create(_ context.Context, username, hash string) (int, error) {
	if _, ok := m.byName[username]; ok {
		return 0, repository.ErrDuplicateUsername
	}
	id := len(m.byName) + 1
	m.byName[username] = models.User{ID: id, Username: username, PasswordHash: hash}
	return id, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.byName[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

const testSecret = "test-secret"

func newTestAuthService(t *testing.T, repo repository.Authorization) (*AuthService, *TokenService) {
	t.Helper()
	tokens, err := NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return NewAuthService(NewCredentialStore(repo, NewBcryptHasher(4)), tokens), tokens
}

// --- SignUp tests ---

func TestAuthService_SignUp_SuccessHashesPasswordAndCallsRepo(t *testing.T) {
	mock := &mockAuthRepo{
		CreateFn: func(username, hash string) (int, error) {
			return 42, nil
		},
	}
	svc, _ := newTestAuthService(t, mock)

	u, err := svc.SignUp(context.Background(), "alice", "s3cr3t")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if u.ID != 42 || u.Username != "alice" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if len(mock.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(mock.createCalls))
	}
	call := mock.createCalls[0]
	if call.hash == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if !NewBcryptHasher(4).Verify("s3cr3t", call.hash) {
		t.Errorf("stored hash does not verify with original password")
	}
}

func TestAuthService_SignUp_InvalidInput(t *testing.T) {
	for _, tc := range []struct{ name, username, password string }{
		{"empty password", "bob", ""},
		{"empty username", "", "pw"},
		{"blank username", "  ", "pw"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockAuthRepo{
				CreateFn: func(username, hash string) (int, error) {
					t.Fatal("Create should not be called for invalid input")
					return 0, nil
				},
			}
			svc, _ := newTestAuthService(t, mock)

			_, err := svc.SignUp(context.Background(), tc.username, tc.password)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_SignUp_WhitespacePasswordIsAPassword(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemUsers())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "frank", "   "); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := svc.GenerateToken(ctx, "frank", "   "); err != nil {
		t.Fatalf("GenerateToken with the same blank password: %v", err)
	}
	if _, err := svc.GenerateToken(ctx, "frank", " "); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for a different password, got %v", err)
	}
}

func TestAuthService_SignUp_Conflict(t *testing.T) {
	svc, _ := newTestAuthService(t, newMemUsers())

	if _, err := svc.SignUp(context.Background(), "carl", "pass123"); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	_, err := svc.SignUp(context.Background(), "carl", "other")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthService_SignUp_ConflictFromRepoRace(t *testing.T) {
	mock := &mockAuthRepo{
		CreateFn: func(username, hash string) (int, error) {
			return 0, repository.ErrDuplicateUsername
		},
	}
	svc, _ := newTestAuthService(t, mock)

	_, err := svc.SignUp(context.Background(), "carl", "pass123")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestAuthService_SignUp_RepoError(t *testing.T) {
	mock := &mockAuthRepo{
		CreateFn: func(username, hash string) (int, error) {
			return 0, errors.New("db down")
		},
	}
	svc, _ := newTestAuthService(t, mock)

	_, err := svc.SignUp(context.Background(), "carl", "pass123")
	if err == nil || errors.Is(err, ErrConflict) {
		t.Fatalf("expected plain repo error, got %v", err)
	}
}

// --- GenerateToken tests ---

func TestAuthService_SignUpThenGenerateToken(t *testing.T) {
	svc, tokens := newTestAuthService(t, newMemUsers())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "diana", "letmein"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	tok, err := svc.GenerateToken(ctx, "diana", "letmein")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if tok.Token == "" || tok.TokenType != "bearer" || tok.ExpiresIn != time.Hour {
		t.Fatalf("unexpected token: %+v", tok)
	}
	sub, err := tokens.Validate(tok.Token)
	if err != nil || sub != "diana" {
		t.Fatalf("Validate: sub=%q err=%v", sub, err)
	}

	if _, err := svc.GenerateToken(ctx, "diana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
}

func TestAuthService_GenerateToken_UserNotFound(t *testing.T) {
	svc, _ := newTestAuthService(t, &mockAuthRepo{})

	_, err := svc.GenerateToken(context.Background(), "ghost", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestAuthService_GenerateToken_RepoError(t *testing.T) {
	mock := &mockAuthRepo{
		GetByUsernameFn: func(username string) (*models.User, error) {
			return nil, errors.New("query failed")
		},
	}
	svc, _ := newTestAuthService(t, mock)

	_, err := svc.GenerateToken(context.Background(), "john", "pw")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

// --- Authenticate tests ---

func TestAuthService_Authenticate(t *testing.T) {
	users := newMemUsers()
	svc, tokens := newTestAuthService(t, users)
	ctx := context.Background()
	if _, err := users.Create(ctx, "erin", "h"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	good, _ := tokens.Issue("erin", time.Hour)
	ghost, _ := tokens.Issue("ghost", time.Hour)
	expired, _ := tokens.Issue("erin", -time.Minute)

	u, err := svc.Authenticate(ctx, good)
	if err != nil || u == nil || u.Username != "erin" {
		t.Fatalf("Authenticate(good): %+v, %v", u, err)
	}

	for name, tok := range map[string]string{
		"unknown user": ghost,
		"expired":      expired,
		"malformed":    "not-a-jwt",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			u, err := svc.Authenticate(ctx, tok)
			if !errors.Is(err, ErrUnauthenticated) || u != nil {
				t.Fatalf("expected ErrUnauthenticated, got %+v, %v", u, err)
			}
		})
	}
}

func TestAuthService_Authenticate_StorageError(t *testing.T) {
	mock := &mockAuthRepo{
		GetByUsernameFn: func(username string) (*models.User, error) {
			return nil, errors.New("db down")
		},
	}
	svc, tokens := newTestAuthService(t, mock)
	tok, _ := tokens.Issue("erin", time.Hour)

	_, err := svc.Authenticate(context.Background(), tok)
	if err == nil || errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
