package handlers

import (
	"context"
	"net/http"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser  models.User
	signUpErr   error
	genToken    service.AccessToken
	genTokenErr error
	authUser    *models.User
	authErr     error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastToken          string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (models.User, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpUser, m.signUpErr
}

func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (service.AccessToken, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genToken, m.genTokenErr
}

func (m *mockAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	m.lastToken = token
	return m.authUser, m.authErr
}

type mockTasks struct {
	task    models.Task
	tasks   []models.Task
	err     error
	ctxErr  error
	ownerID int

	hasDeadline bool

	lastInput  service.TaskInput
	lastParams service.ListParams
	lastN      int
	lastID     int
	lastPatch  models.TaskPatch
}

func (m *mockTasks) CreateTask(ctx context.Context, ownerID int, in service.TaskInput) (models.Task, error) {
	m.ownerID, m.lastInput = ownerID, in
	m.ctxErr = ctx.Err()
	return m.task, m.err
}

func (m *mockTasks) ListTasks(ctx context.Context, ownerID int, p service.ListParams) ([]models.Task, error) {
	m.ownerID, m.lastParams = ownerID, p
	m.ctxErr = ctx.Err()
	_, m.hasDeadline = ctx.Deadline()
	return m.tasks, m.err
}

func (m *mockTasks) TopTasks(_ context.Context, ownerID, n int) ([]models.Task, error) {
	m.ownerID, m.lastN = ownerID, n
	return m.tasks, m.err
}

func (m *mockTasks) GetTask(_ context.Context, ownerID, taskID int) (models.Task, error) {
	m.ownerID, m.lastID = ownerID, taskID
	return m.task, m.err
}

func (m *mockTasks) UpdateTask(_ context.Context, ownerID, taskID int, p models.TaskPatch) (models.Task, error) {
	m.ownerID, m.lastID, m.lastPatch = ownerID, taskID, p
	return m.task, m.err
}

func (m *mockTasks) DeleteTask(_ context.Context, ownerID, taskID int) (models.Task, error) {
	m.ownerID, m.lastID = ownerID, taskID
	return m.task, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
