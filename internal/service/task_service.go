package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

const (
	DefaultStatus    = "pending"
	DefaultPriority  = 1
	DefaultListLimit = 100
	DefaultMaxLimit  = 1000
)

// TaskOptions tune task defaults. Zero values select the package defaults.
type TaskOptions struct {
	DefaultStatus string
	DefaultLimit  int
	MaxLimit      int
}

func (o TaskOptions) withDefaults() TaskOptions {
	if o.DefaultStatus == "" {
		o.DefaultStatus = DefaultStatus
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = DefaultMaxLimit
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DefaultListLimit
	}
	if o.DefaultLimit > o.MaxLimit {
		o.DefaultLimit = o.MaxLimit
	}
	return o
}

// TaskService applies validation and defaults on top of the owner-scoped
// task repository. Every list call hits storage; nothing is cached.
type TaskService struct {
	repo repository.TaskRepo
	opts TaskOptions
	now  func() time.Time
}

func NewTaskService(repo repository.TaskRepo, opts TaskOptions) *TaskService {
	return &TaskService{repo: repo, opts: opts.withDefaults(), now: time.Now}
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID int, in TaskInput) (models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := checkStruct(in); err != nil {
		return models.Task{}, err
	}

	t := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      s.opts.DefaultStatus,
		Priority:    DefaultPriority,
		CreatedAt:   s.now(),
		OwnerID:     ownerID,
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	return s.repo.Create(ctx, t)
}

// normalizeListParams resolves defaults, caps limit at MaxLimit and rejects
// anything the storage layer would not accept, including sort fields outside
// the allow-list.
func (s *TaskService) normalizeListParams(p ListParams) (models.TaskQuery, error) {
	q := models.TaskQuery{
		Skip:   p.Skip,
		Limit:  s.opts.DefaultLimit,
		SortBy: strings.TrimSpace(p.SortBy),
		Order:  strings.ToLower(strings.TrimSpace(p.Order)),
		Search: p.Search,
	}
	if p.Limit != nil {
		q.Limit = *p.Limit
	}
	if q.SortBy == "" {
		q.SortBy = models.SortCreatedAt
	}
	if q.Order == "" {
		q.Order = models.OrderAsc
	}

	if err := checkVar("skip", q.Skip, "gte=0"); err != nil {
		return models.TaskQuery{}, err
	}
	if err := checkVar("limit", q.Limit, "gte=0"); err != nil {
		return models.TaskQuery{}, err
	}
	if q.Limit > s.opts.MaxLimit {
		q.Limit = s.opts.MaxLimit
	}
	if !repository.IsSortable(q.SortBy) {
		return models.TaskQuery{}, fmt.Errorf("%w: sort_by must be one of: title, description, status, priority, created_at", ErrInvalidInput)
	}
	if err := checkVar("order", q.Order, "oneof=asc desc"); err != nil {
		return models.TaskQuery{}, err
	}
	return q, nil
}

func (s *TaskService) ListTasks(ctx context.Context, ownerID int, p ListParams) ([]models.Task, error) {
	q, err := s.normalizeListParams(p)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ownerID, q)
}

// TopTasks returns up to n tasks by descending priority; order among equal
// priorities is whatever storage yields.
func (s *TaskService) TopTasks(ctx context.Context, ownerID, n int) ([]models.Task, error) {
	if err := checkVar("n", n, "gte=0"); err != nil {
		return nil, err
	}
	return s.repo.Top(ctx, ownerID, n)
}

func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID int) (models.Task, error) {
	return found(s.repo.Get(ctx, ownerID, taskID))
}

// UpdateTask changes only the fields set in p.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID int, p models.TaskPatch) (models.Task, error) {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if err := checkVar("title", title, "required,max=255"); err != nil {
			return models.Task{}, err
		}
		p.Title = &title
	}
	if p.Description != nil {
		if err := checkVar("description", *p.Description, "max=1000"); err != nil {
			return models.Task{}, err
		}
	}
	if p.Status != nil {
		if err := checkVar("status", *p.Status, "max=100"); err != nil {
			return models.Task{}, err
		}
	}
	return found(s.repo.Update(ctx, ownerID, taskID, p))
}

// DeleteTask removes the task and returns what it was.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID int) (models.Task, error) {
	return found(s.repo.Delete(ctx, ownerID, taskID))
}

// found maps the repository's (nil, nil) to ErrNotFound.
func found(t *models.Task, err error) (models.Task, error) {
	if err != nil {
		return models.Task{}, err
	}
	if t == nil {
		return models.Task{}, ErrNotFound
	}
	return *t, nil
}
