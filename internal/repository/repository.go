package repository

import (
	"context"
	"database/sql"
	"errors"

	"task_tracker/internal/models"
)

// ErrDuplicateUsername is returned by Authorization.Create when the
// username is already taken.
var ErrDuplicateUsername = errors.New("username already exists")

// Authorization persists user identities. Absent users are reported as (nil, nil).
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// TaskRepo persists tasks. Every method is scoped to ownerID; a task owned by
// someone else is reported exactly like a missing one, as (nil, nil).
type TaskRepo interface {
	Create(ctx context.Context, t models.Task) (models.Task, error)
	List(ctx context.Context, ownerID int, q models.TaskQuery) ([]models.Task, error)
	Top(ctx context.Context, ownerID, n int) ([]models.Task, error)
	Get(ctx context.Context, ownerID, taskID int) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID int, p models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID int) (*models.Task, error)
}

type Repository struct {
	Auth  Authorization
	Tasks TaskRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:  NewUserRepository(db),
		Tasks: NewTaskRepository(db),
	}
}
