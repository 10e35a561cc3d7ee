package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_tracker/internal/models"
)

type TaskSQLite struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskSQLite {
	return &TaskSQLite{db: db}
}

var _ TaskRepo = (*TaskSQLite)(nil)

// createdAtLayout is fixed width so that ORDER BY created_at on the stored
// text matches chronological order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

const (
	taskColumns = `id, title, description, status, priority, created_at, owner_id`

	insertTaskSQL = `INSERT INTO tasks (title, description, status, priority, created_at, owner_id) VALUES (?, ?, ?, ?, ?, ?)`

	selectTaskSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND owner_id = ?`

	selectTopTasksSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ? ORDER BY priority DESC LIMIT ?`

	deleteTaskSQL = `DELETE FROM tasks WHERE id = ? AND owner_id = ?`

	selectOwnedTasksSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`
	searchTasksClause   = ` AND (instr(title, ?) > 0 OR instr(description, ?) > 0)`
)

// sortColumns is the allow-list of sortable fields and their columns.
// Nothing outside this map is ever interpolated into SQL.
var sortColumns = map[string]string{
	models.SortTitle:       "title",
	models.SortDescription: "description",
	models.SortStatus:      "status",
	models.SortPriority:    "priority",
	models.SortCreatedAt:   "created_at",
}

// IsSortable reports whether field may be used as TaskQuery.SortBy.
func IsSortable(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t         models.Task
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &createdAt, &t.OwnerID); err != nil {
		return models.Task{}, err
	}
	ts, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	t.CreatedAt = ts
	return t, nil
}

func formatCreatedAt(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

// Create inserts t and returns it with its new ID. CreatedAt defaults to now.
func (r *TaskSQLite) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.CreatedAt = t.CreatedAt.UTC()

	res, err := r.db.ExecContext(ctx, insertTaskSQL,
		t.Title, t.Description, t.Status, t.Priority, formatCreatedAt(t.CreatedAt), t.OwnerID)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task for owner %d: %w", t.OwnerID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("get last insert id for task: %w", err)
	}
	t.ID = int(id)
	return t, nil
}

// buildListQuery assembles the owner-scoped list statement. Filtering and
// sorting happen before LIMIT/OFFSET.
func buildListQuery(ownerID int, q models.TaskQuery) (string, []any, error) {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		return "", nil, fmt.Errorf("unsupported sort field %q", q.SortBy)
	}
	dir := "ASC"
	switch q.Order {
	case models.OrderAsc:
	case models.OrderDesc:
		dir = "DESC"
	default:
		return "", nil, fmt.Errorf("unsupported sort order %q", q.Order)
	}

	var sb strings.Builder
	args := []any{ownerID}
	sb.WriteString(selectOwnedTasksSQL)
	if q.Search != "" {
		sb.WriteString(searchTasksClause)
		args = append(args, q.Search, q.Search)
	}
	// id breaks ties so pages never overlap.
	fmt.Fprintf(&sb, " ORDER BY %s %s, id %s LIMIT ? OFFSET ?", col, dir, dir)
	args = append(args, q.Limit, q.Skip)
	return sb.String(), args, nil
}

// List returns the owner's tasks matching q.
func (r *TaskSQLite) List(ctx context.Context, ownerID int, q models.TaskQuery) ([]models.Task, error) {
	query, args, err := buildListQuery(ownerID, q)
	if err != nil {
		return nil, err
	}
	return r.queryTasks(ctx, query, args...)
}

// Top returns up to n of the owner's tasks by descending priority.
func (r *TaskSQLite) Top(ctx context.Context, ownerID, n int) ([]models.Task, error) {
	return r.queryTasks(ctx, selectTopTasksSQL, ownerID, n)
}

func (r *TaskSQLite) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

// Get returns the task or (nil, nil) if the owner has no such task.
func (r *TaskSQLite) Get(ctx context.Context, ownerID, taskID int) (*models.Task, error) {
	return getTask(ctx, r.db, ownerID, taskID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q queryRower, ownerID, taskID int) (*models.Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx, selectTaskSQL, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task %d: %w", taskID, err)
	}
	return &t, nil
}

// patchAssignments turns the supplied fields of p into SET clauses.
// owner_id and created_at are never part of it.
func patchAssignments(p models.TaskPatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if p.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *p.Priority)
	}
	return sets, args
}

// Update applies only the supplied fields of p and returns the stored task,
// or (nil, nil) if the owner has no such task.
func (r *TaskSQLite) Update(ctx context.Context, ownerID, taskID int, p models.TaskPatch) (*models.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update task %d: %w", taskID, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if sets, args := patchAssignments(p); len(sets) > 0 {
		args = append(args, taskID, ownerID)
		res, err := tx.ExecContext(ctx,
			"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner_id = ?", args...)
		if err != nil {
			return nil, fmt.Errorf("update task %d: %w", taskID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected for task %d: %w", taskID, err)
		}
		if n == 0 {
			return nil, nil
		}
	}

	t, err := getTask(ctx, tx, ownerID, taskID)
	if err != nil || t == nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update task %d: %w", taskID, err)
	}
	return t, nil
}

// Delete removes the task and returns its prior state, or (nil, nil) if the
// owner has no such task.
func (r *TaskSQLite) Delete(ctx context.Context, ownerID, taskID int) (*models.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete task %d: %w", taskID, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	t, err := getTask(ctx, tx, ownerID, taskID)
	if err != nil || t == nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, deleteTaskSQL, taskID, ownerID); err != nil {
		return nil, fmt.Errorf("delete task %d: %w", taskID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete task %d: %w", taskID, err)
	}
	return t, nil
}
