package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tasklight/tasklight/internal/core/domain"
)

func TestClient_ListUsers_BareArray(t *testing.T) {
	e := echo.New()
	e.GET("/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []map[string]any{
			{"_id": "u1", "name": "Ann", "email": "ann@example.com", "role": "admin", "isActive": true},
			{"id": "u2", "name": "Bob", "email": "bob@example.com", "role": "member", "isActive": false},
		})
	})

	client, _ := newTestClient(t, e)

	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("unexpected users: %+v", users)
	}
	// "_id" and "id" both map to ID.
	if users[0].ID != "u1" || users[1].ID != "u2" {
		t.Fatalf("id mapping wrong: %+v", users)
	}
	if users[0].Role != domain.RoleAdmin || !users[0].Active || users[1].Active {
		t.Fatalf("field mapping wrong: %+v", users)
	}
}

func TestClient_ListUsers_Envelope(t *testing.T) {
	e := echo.New()
	e.GET("/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"users": []map[string]any{
				{"_id": "u1", "name": "Ann", "role": "member", "isActive": true},
			},
		})
	})

	client, _ := newTestClient(t, e)

	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Ann" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestClient_ToggleUserStatus(t *testing.T) {
	var gotPath string

	e := echo.New()
	e.PATCH("/users/:id/toggle-status", func(c echo.Context) error {
		gotPath = c.Request().URL.Path
		return c.JSON(http.StatusOK, map[string]any{
			"_id": c.Param("id"), "name": "Bob", "isActive": false,
		})
	})

	client, _ := newTestClient(t, e)

	user, err := client.ToggleUserStatus(context.Background(), "u2")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if gotPath != "/users/u2/toggle-status" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if user.ID != "u2" || user.Active {
		t.Fatalf("unexpected user: %+v", user)
	}
}
