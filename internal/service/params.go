package service

import "time"

// TaskInput is the payload for creating a task. Nil Status and Priority
// take the configured defaults.
type TaskInput struct {
	Title       string  `validate:"required,max=255"`
	Description string  `validate:"max=1000"`
	Status      *string `validate:"omitempty,max=100"`
	Priority    *int
}

// ListParams are the raw list query arguments. Empty SortBy/Order and a nil
// Limit select the defaults.
type ListParams struct {
	Skip   int
	Limit  *int
	SortBy string
	Order  string
	Search string
}

// AccessToken is what a successful password login returns.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresIn time.Duration
}
