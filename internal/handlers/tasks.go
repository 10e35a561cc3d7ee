package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"task_tracker/internal/metrics"
	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// createTaskRequest is the body of POST /api/v1/tasks. Omitted status and
// priority take the server defaults.
type createTaskRequest struct {
	Title       string  `json:"title" example:"buy milk"`
	Description string  `json:"description" example:"2 litres"`
	Status      *string `json:"status,omitempty" example:"pending"`
	Priority    *int    `json:"priority,omitempty" example:"1"`
}

// updateTaskRequest is a partial update: only fields present in the body change.
type updateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" example:"done"`
	Priority    *int    `json:"priority,omitempty"`
}

type listTasksQuery struct {
	Skip   int    `form:"skip"`
	Limit  *int   `form:"limit"`
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
	Search string `form:"search"`
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{service.ErrInvalidInput}, args...)...)
}

// intParam parses an integer path parameter.
func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, invalidInput("%s must be an integer", name)
	}
	return v, nil
}

// bindPatchOrBadRequest binds a JSON patch body. A missing body is an empty
// patch, not an error.
func (h *Handler) bindPatchOrBadRequest(c *gin.Context, dst *updateTaskRequest) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        input  body      createTaskRequest  true  "task"
// @Success      201    {object}  models.Task
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      422    {object}  map[string]string
// @Router       /api/v1/tasks [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	user := currentUser(c)
	var req createTaskRequest
	if ok := h.bindOrBadRequest(c, &req); !ok {
		return
	}

	task, err := h.services.CreateTask(c.Request.Context(), user.ID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		h.respondError(c, err, "task_create_failed", "owner_id", user.ID)
		return
	}

	metrics.TasksCreatedTotal.Inc()
	c.JSON(http.StatusCreated, task)
}

// @Summary      List tasks
// @Description  Owner's tasks, optionally filtered by a substring of title or description, sorted and paginated. Pagination applies after filtering and sorting.
// @Tags         tasks
// @Produce      json
// @Param        skip     query  int     false  "Results to skip"  default(0)
// @Param        limit    query  int     false  "Maximum results, capped at the server maximum"  default(100)
// @Param        sort_by  query  string  false  "Sort field"  Enums(title,description,status,priority,created_at)
// @Param        order    query  string  false  "Sort order"  Enums(asc,desc)
// @Param        search   query  string  false  "Substring of title or description"
// @Success      200  {array}   models.Task
// @Failure      401  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/tasks [get]
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	user := currentUser(c)
	var q listTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.respondError(c, invalidInput("skip and limit must be integers"), "")
		return
	}

	tasks, err := h.services.ListTasks(c.Request.Context(), user.ID, service.ListParams{
		Skip:   q.Skip,
		Limit:  q.Limit,
		SortBy: q.SortBy,
		Order:  q.Order,
		Search: q.Search,
	})
	if err != nil {
		h.respondError(c, err, "task_list_failed", "owner_id", user.ID)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Top tasks
// @Description  The owner's n highest-priority tasks. Order among equal priorities is unspecified.
// @Tags         tasks
// @Produce      json
// @Param        n    path      int  true  "Number of tasks"
// @Success      200  {array}   models.Task
// @Failure      401  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/v1/tasks/top/{n} [get]
// @Security     BearerAuth
func (h *Handler) topTasks(c *gin.Context) {
	user := currentUser(c)
	n, err := intParam(c, "n")
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	tasks, err := h.services.TopTasks(c.Request.Context(), user.ID, n)
	if err != nil {
		h.respondError(c, err, "task_top_failed", "owner_id", user.ID)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/tasks/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTask(c *gin.Context) {
	user := currentUser(c)
	id, err := intParam(c, "id")
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	task, err := h.services.GetTask(c.Request.Context(), user.ID, id)
	if err != nil {
		h.respondError(c, err, "task_get_failed", "owner_id", user.ID, "task_id", id)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Update task
// @Description  Partial update: fields missing from the body keep their values; an empty body changes nothing. owner and created_at never change.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id     path      int                true  "Task ID"
// @Param        input  body      updateTaskRequest  true  "fields to change"
// @Success      200    {object}  models.Task
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      422    {object}  map[string]string
// @Router       /api/v1/tasks/{id} [patch]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	user := currentUser(c)
	id, err := intParam(c, "id")
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	var req updateTaskRequest
	if ok := h.bindPatchOrBadRequest(c, &req); !ok {
		return
	}

	task, err := h.services.UpdateTask(c.Request.Context(), user.ID, id, models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		h.respondError(c, err, "task_update_failed", "owner_id", user.ID, "task_id", id)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Delete task
// @Description  Permanently deletes the task and returns its last state.
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/tasks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	user := currentUser(c)
	id, err := intParam(c, "id")
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	task, err := h.services.DeleteTask(c.Request.Context(), user.ID, id)
	if err != nil {
		h.respondError(c, err, "task_delete_failed", "owner_id", user.ID, "task_id", id)
		return
	}

	metrics.TasksDeletedTotal.Inc()
	c.JSON(http.StatusOK, task)
}
