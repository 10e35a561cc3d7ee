package service

import (
	"context"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (models.User, error)
	GenerateToken(ctx context.Context, username, password string) (AccessToken, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// Tasks exposes owner-scoped task operations. ownerID always comes from an
// authenticated user, never from request input.
type Tasks interface {
	CreateTask(ctx context.Context, ownerID int, in TaskInput) (models.Task, error)
	ListTasks(ctx context.Context, ownerID int, p ListParams) ([]models.Task, error)
	TopTasks(ctx context.Context, ownerID, n int) ([]models.Task, error)
	GetTask(ctx context.Context, ownerID, taskID int) (models.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID int, p models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID int) (models.Task, error)
}

type Service struct {
	Authorization
	Tasks
}

// Options carry the settings NewService needs from configuration.
type Options struct {
	TokenSecret string
	TokenTTL    time.Duration
	BcryptCost  int
	Tasks       TaskOptions
}

// NewService wires repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) (*Service, error) {
	tokens, err := NewTokenService(opts.TokenSecret, opts.TokenTTL)
	if err != nil {
		return nil, err
	}
	creds := NewCredentialStore(repos.Auth, NewBcryptHasher(opts.BcryptCost))
	return &Service{
		Authorization: NewAuthService(creds, tokens),
		Tasks:         NewTaskService(repos.Tasks, opts.Tasks),
	}, nil
}
