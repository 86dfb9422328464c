package ports

import (
	"context"

	"github.com/tasklight/tasklight/internal/core/domain"
)

// CreateTodoInput carries the fields for a new todo.
type CreateTodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTodoInput carries a partial update; nil fields are left untouched.
type UpdateTodoInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// TodoAPI is the backend todo CRUD surface.
type TodoAPI interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, input CreateTodoInput) (*domain.Todo, error)
	Update(ctx context.Context, id string, input UpdateTodoInput) (*domain.Todo, error)
	Delete(ctx context.Context, id string) error
	// Summarize asks the backend for the AI-generated summary of the list.
	Summarize(ctx context.Context) (string, error)
}
