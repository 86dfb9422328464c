package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tasklight/tasklight/internal/core/domain"
	"github.com/tasklight/tasklight/internal/core/ports"
	"github.com/tasklight/tasklight/internal/core/service"
	"github.com/tasklight/tasklight/internal/infrastructure/store"
)

func newTestClient(t *testing.T, e *echo.Echo) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}), srv
}

func TestClient_AttachesCredential(t *testing.T) {
	var gotAuth, gotCookie string

	e := echo.New()
	e.GET("/auth/me", func(c echo.Context) error {
		gotAuth = c.Request().Header.Get("Authorization")
		if cookie, err := c.Cookie("token"); err == nil {
			gotCookie = cookie.Value
		}
		return c.JSON(http.StatusOK, map[string]string{"id": "u1"})
	})

	client, _ := newTestClient(t, e)
	client.BindSession(func() string { return "tok-123" }, nil)

	if _, err := client.Profile(context.Background()); err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotCookie != "tok-123" {
		t.Fatalf("expected companion cookie, got %q", gotCookie)
	}
}

func TestClient_NoCredential_NoHeader(t *testing.T) {
	var gotAuth string

	e := echo.New()
	e.GET("/auth/me", func(c echo.Context) error {
		gotAuth = c.Request().Header.Get("Authorization")
		return c.JSON(http.StatusOK, map[string]string{"id": "u1"})
	})

	client, _ := newTestClient(t, e)
	client.BindSession(func() string { return "" }, nil)

	if _, err := client.Profile(context.Background()); err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
}

func TestClient_UnauthorizedHook_FiresOnceAndPropagates(t *testing.T) {
	e := echo.New()
	e.GET("/todos", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "expired"})
	})

	client, _ := newTestClient(t, e)
	hookCalls := 0
	client.BindSession(func() string { return "stale" }, func() { hookCalls++ })

	_, err := client.List(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *ports.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected APIError 401, got %v", err)
	}
	if hookCalls != 1 {
		t.Fatalf("expected hook to fire exactly once, fired %d times", hookCalls)
	}
}

func TestClient_NoAutomaticRetries(t *testing.T) {
	requests := 0
	e := echo.New()
	e.GET("/todos", func(c echo.Context) error {
		requests++
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
	})

	client, _ := newTestClient(t, e)

	_, err := client.List(context.Background())
	var apiErr *ports.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected APIError 500, got %v", err)
	}
	if requests != 1 {
		t.Fatalf("expected exactly one request, got %d", requests)
	}
}

func TestClient_Login_TokenFieldVariants(t *testing.T) {
	for _, field := range []string{"token", "access_token"} {
		e := echo.New()
		e.POST("/auth/login", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]any{
				field:  "t1",
				"user": map[string]string{"id": "u1", "name": "Ann", "email": "ann@x.com"},
			})
		})

		client, _ := newTestClient(t, e)
		result, err := client.Login(context.Background(), "ann@x.com", "secret")
		if err != nil {
			t.Fatalf("[%s] login failed: %v", field, err)
		}
		if result.Token != "t1" {
			t.Fatalf("[%s] expected token t1, got %q", field, result.Token)
		}
	}
}

// fakeBackend is an echo app with one account and revocable tokens, the
// same server stack the client is deployed against.
type fakeBackend struct {
	e       *echo.Echo
	secret  string
	revoked bool
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{e: echo.New(), secret: "test-secret"}

	b.e.POST("/auth/login", func(c echo.Context) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}
		if req.Email != "ann@x.com" || req.Password != "secret" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"token": b.mint(),
			"user":  map[string]string{"_id": "u1", "name": "Ann", "email": "ann@x.com"},
		})
	})

	b.e.GET("/auth/me", func(c echo.Context) error {
		if !b.authorized(c) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return c.JSON(http.StatusOK, map[string]string{"_id": "u1", "name": "Ann", "email": "ann@x.com"})
	})

	b.e.GET("/todos", func(c echo.Context) error {
		if !b.authorized(c) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return c.JSON(http.StatusOK, []map[string]any{{"id": "1", "title": "buy milk", "completed": false}})
	})

	b.e.POST("/auth/logout", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	return b
}

func (b *fakeBackend) mint() string {
	claims := jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(b.secret))
	return token
}

func (b *fakeBackend) authorized(c echo.Context) bool {
	if b.revoked {
		return false
	}
	auth := c.Request().Header.Get("Authorization")
	if len(auth) < 8 || auth[:7] != "Bearer " {
		return false
	}
	_, err := jwt.Parse(auth[7:], func(*jwt.Token) (any, error) {
		return []byte(b.secret), nil
	})
	return err == nil
}

// TestSessionFlow exercises the full stack: real HTTP client, file store,
// session controller, and an echo backend minting HS256 tokens.
func TestSessionFlow_LoginReloadAndForcedLogout(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.e)
	defer srv.Close()

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	fileStore, err := store.NewFileStore(sessionPath, nil)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	newStack := func() (*Client, *service.SessionController) {
		client := NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
		controller := service.NewSessionController(fileStore, client, zerolog.Nop())
		client.BindSession(controller.Credential, controller.HandleUnauthorized)
		return client, controller
	}

	// Login.
	_, controller := newStack()
	if err := controller.Login(context.Background(), "ann@x.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got := controller.Current(); got.Identity == nil || got.Identity.ID != "u1" {
		t.Fatalf("expected normalized identity, got %+v", got.Identity)
	}

	// Simulated reload: fresh client and controller over the same file.
	client, reloaded := newStack()
	if err := reloaded.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	s := reloaded.Current()
	if s.Status != domain.StatusAuthenticated || s.Identity.ID != "u1" {
		t.Fatalf("expected restored session, got %+v", s)
	}

	// An unrelated CRUD call hitting 401 forces the session anonymous
	// without anyone calling Logout.
	backend.revoked = true
	if _, err := client.List(context.Background()); err == nil {
		t.Fatalf("expected list to fail")
	}
	if got := reloaded.Current().Status; got != domain.StatusAnonymous {
		t.Fatalf("expected forced anonymous, got %s", got)
	}
	stored, err := fileStore.Load(context.Background())
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	if !stored.Empty() {
		t.Fatalf("expected purged store, got %+v", stored)
	}
}
