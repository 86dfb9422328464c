package api

import (
	"context"
	"net/http"

	"github.com/tasklight/tasklight/internal/core/domain"
	"github.com/tasklight/tasklight/internal/core/ports"
)

// List implements ports.TodoAPI.
func (c *Client) List(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Create implements ports.TodoAPI.
func (c *Client) Create(ctx context.Context, input ports.CreateTodoInput) (*domain.Todo, error) {
	var todo domain.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", input, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Update implements ports.TodoAPI. Partial: only non-nil fields change.
func (c *Client) Update(ctx context.Context, id string, input ports.UpdateTodoInput) (*domain.Todo, error) {
	var todo domain.Todo
	if err := c.do(ctx, http.MethodPatch, "/todos/"+id, input, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// Delete implements ports.TodoAPI.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+id, nil, nil)
}

// Summarize implements ports.TodoAPI.
func (c *Client) Summarize(ctx context.Context) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/todos/summary", nil, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}
