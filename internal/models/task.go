package models

import "time"

// Task is a work item owned by exactly one user.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    int       `json:"priority"` // higher = more important
	CreatedAt   time.Time `json:"created_at"`
	OwnerID     int       `json:"owner_id"`
}

// TaskPatch carries the fields of a partial update. Nil means "leave as is".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *int
}

// Sortable task fields accepted by list queries.
const (
	SortTitle       = "title"
	SortDescription = "description"
	SortStatus      = "status"
	SortPriority    = "priority"
	SortCreatedAt   = "created_at"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// TaskQuery is a normalized list query. SortBy and Order are always set
// by the service layer before it reaches storage.
type TaskQuery struct {
	Skip   int
	Limit  int
	SortBy string
	Order  string
	Search string
}
