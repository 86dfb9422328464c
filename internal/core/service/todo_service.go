package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tasklight/tasklight/internal/core/domain"
	"github.com/tasklight/tasklight/internal/core/ports"
	"github.com/tasklight/tasklight/internal/metrics"
)

// TodoService wraps the todo API and keeps the last successfully fetched
// list in memory. The backend owns the data; the cache carries no invariant
// beyond "reflects the last successful fetch or mutation".
type TodoService struct {
	api ports.TodoAPI
	log zerolog.Logger

	mu     sync.Mutex
	cached []domain.Todo
}

func NewTodoService(api ports.TodoAPI, log zerolog.Logger) *TodoService {
	return &TodoService{api: api, log: log}
}

// List fetches the todo list, refreshing the cache on success.
func (s *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	todos, err := s.api.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list todos")
		return nil, err
	}
	// Cache a private copy so later mutations never rewrite a slice a
	// caller is still holding.
	s.mu.Lock()
	s.cached = append([]domain.Todo(nil), todos...)
	s.mu.Unlock()
	return todos, nil
}

// Cached returns the result of the last successful fetch without touching
// the network.
func (s *TodoService) Cached() []domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Todo, len(s.cached))
	copy(out, s.cached)
	return out
}

func (s *TodoService) Create(ctx context.Context, title, description string) (*domain.Todo, error) {
	todo, err := s.api.Create(ctx, ports.CreateTodoInput{Title: title, Description: description})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create todo")
		return nil, err
	}
	metrics.TodoMutationsTotal.WithLabelValues("create").Inc()

	s.mu.Lock()
	s.cached = append(s.cached, *todo)
	s.mu.Unlock()
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, id, title, description string) (*domain.Todo, error) {
	todo, err := s.api.Update(ctx, id, ports.UpdateTodoInput{Title: &title, Description: &description})
	if err != nil {
		s.log.Error().Err(err).Str("todo_id", id).Msg("failed to update todo")
		return nil, err
	}
	metrics.TodoMutationsTotal.WithLabelValues("update").Inc()
	s.replace(*todo)
	return todo, nil
}

// Toggle flips a todo's completion state.
func (s *TodoService) Toggle(ctx context.Context, id string, completed bool) (*domain.Todo, error) {
	todo, err := s.api.Update(ctx, id, ports.UpdateTodoInput{Completed: &completed})
	if err != nil {
		s.log.Error().Err(err).Str("todo_id", id).Msg("failed to toggle todo")
		return nil, err
	}
	metrics.TodoMutationsTotal.WithLabelValues("toggle").Inc()
	s.replace(*todo)
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("todo_id", id).Msg("failed to delete todo")
		return err
	}
	metrics.TodoMutationsTotal.WithLabelValues("delete").Inc()

	s.mu.Lock()
	kept := make([]domain.Todo, 0, len(s.cached))
	for _, t := range s.cached {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.cached = kept
	s.mu.Unlock()
	return nil
}

// Summarize fetches the backend's AI-generated summary of the list.
func (s *TodoService) Summarize(ctx context.Context) (string, error) {
	summary, err := s.api.Summarize(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to summarize todos")
		return "", err
	}
	return summary, nil
}

func (s *TodoService) replace(updated domain.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.cached {
		if t.ID == updated.ID {
			s.cached[i] = updated
			return
		}
	}
}
