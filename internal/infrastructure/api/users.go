package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tasklight/tasklight/internal/core/domain"
)

// wireUser accepts the user payload shapes the backend variants emit: the
// id arrives as either "id" or "_id", matching the identity payload.
type wireUser struct {
	ID        string    `json:"id"`
	LegacyID  string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireUser) user() domain.User {
	id := w.ID
	if id == "" {
		id = w.LegacyID
	}
	return domain.User{
		ID:        id,
		Name:      w.Name,
		Email:     w.Email,
		Role:      w.Role,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
	}
}

// ListUsers implements ports.UserAPI. The endpoint returns either a bare
// array or a {"users": [...]} envelope depending on the backend version.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/users", nil, &raw); err != nil {
		return nil, err
	}

	var wire []wireUser
	if err := json.Unmarshal(raw, &wire); err != nil {
		var env struct {
			Users []wireUser `json:"users"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, err
		}
		wire = env.Users
	}

	users := make([]domain.User, 0, len(wire))
	for _, w := range wire {
		users = append(users, w.user())
	}
	return users, nil
}

// ToggleUserStatus implements ports.UserAPI.
func (c *Client) ToggleUserStatus(ctx context.Context, id string) (*domain.User, error) {
	var w wireUser
	if err := c.do(ctx, http.MethodPatch, "/users/"+id+"/toggle-status", nil, &w); err != nil {
		return nil, err
	}
	user := w.user()
	return &user, nil
}
