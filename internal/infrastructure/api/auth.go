package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tasklight/tasklight/internal/core/ports"
)

// authEnvelope accepts both token field spellings the backend variants use.
type authEnvelope struct {
	Token       string          `json:"token"`
	AccessToken string          `json:"access_token"`
	User        json.RawMessage `json:"user"`
}

func (e authEnvelope) token() string {
	if e.Token != "" {
		return e.Token
	}
	return e.AccessToken
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Login implements ports.AuthAPI.
func (c *Client) Login(ctx context.Context, email, password string) (ports.AuthResult, error) {
	var envelope authEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &envelope); err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{Token: envelope.token(), User: envelope.User}, nil
}

// Register implements ports.AuthAPI.
func (c *Client) Register(ctx context.Context, name, email, password, role string) (ports.AuthResult, error) {
	req := registerRequest{Name: name, Email: email, Password: password, Role: role}
	var envelope authEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &envelope); err != nil {
		return ports.AuthResult{}, err
	}
	return ports.AuthResult{Token: envelope.token(), User: envelope.User}, nil
}

// Profile implements ports.AuthAPI: the "who am I" call used by bootstrap.
func (c *Client) Profile(ctx context.Context) ([]byte, error) {
	var payload json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Logout implements ports.AuthAPI.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
