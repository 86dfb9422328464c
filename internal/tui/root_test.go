package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasklight/tasklight/internal/core/domain"
)

type stubSessionOps struct {
	stubSession
	updates chan domain.Session
}

func newStubSessionOps() *stubSessionOps {
	return &stubSessionOps{updates: make(chan domain.Session, 4)}
}

func (s *stubSessionOps) Subscribe() (<-chan domain.Session, func()) {
	return s.updates, func() {}
}

func (s *stubSessionOps) Bootstrap(context.Context) error { return nil }
func (s *stubSessionOps) Login(context.Context, string, string) error {
	return nil
}
func (s *stubSessionOps) Register(context.Context, string, string, string, string) error {
	return nil
}
func (s *stubSessionOps) Logout(context.Context) error { return nil }

type stubTodoOps struct{}

func (stubTodoOps) List(context.Context) ([]domain.Todo, error) { return nil, nil }
func (stubTodoOps) Create(context.Context, string, string) (*domain.Todo, error) {
	return &domain.Todo{}, nil
}
func (stubTodoOps) Update(context.Context, string, string, string) (*domain.Todo, error) {
	return &domain.Todo{}, nil
}
func (stubTodoOps) Toggle(context.Context, string, bool) (*domain.Todo, error) {
	return &domain.Todo{}, nil
}
func (stubTodoOps) Delete(context.Context, string) error      { return nil }
func (stubTodoOps) Summarize(context.Context) (string, error) { return "", nil }

type stubUserOps struct{}

func (stubUserOps) List(context.Context) ([]domain.User, error) { return nil, nil }
func (stubUserOps) ToggleStatus(context.Context, string) (*domain.User, error) {
	return &domain.User{}, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_NeverShowsLoginWhileInitializing(t *testing.T) {
	session := newStubSessionOps()
	session.ready = false
	session.session = domain.Session{Status: domain.StatusInitializing}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})

	view := m.View()
	if strings.Contains(view, "Sign in") {
		t.Fatalf("login page rendered during initialization:\n%s", view)
	}
	if !strings.Contains(view, "Restoring session") {
		t.Fatalf("expected waiting indicator, got:\n%s", view)
	}
}

func TestView_ShowsLoginWhenAnonymousAndReady(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{Status: domain.StatusAnonymous}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})

	if !strings.Contains(m.View(), "Sign in") {
		t.Fatalf("expected login page for anonymous session")
	}
}

func TestView_ShowsTodosWhenAuthenticated(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{
		Status:   domain.StatusAuthenticated,
		Identity: &domain.Identity{ID: "u1", Name: "Ann"},
	}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})

	view := m.View()
	if !strings.Contains(view, "Todos") {
		t.Fatalf("expected todos page, got:\n%s", view)
	}
	if !strings.Contains(view, "Ann") {
		t.Fatalf("expected identity in header, got:\n%s", view)
	}
}

func TestUpdate_BackgroundInvalidationRedirectsToLogin(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{
		Status:   domain.StatusAuthenticated,
		Identity: &domain.Identity{ID: "u1"},
	}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})

	// The transport hook flipped the session in the background.
	session.session = domain.Session{Status: domain.StatusAnonymous}
	next, _ := m.Update(sessionMsg(session.session))

	model := next.(Model)
	if model.page != PageLogin {
		t.Fatalf("expected redirect to login, got page %v", model.page)
	}
}

func TestUpdate_BackgroundInvalidationShowsExpiryNotice(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{
		Status:   domain.StatusAuthenticated,
		Identity: &domain.Identity{ID: "u1"},
	}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})
	next, _ := m.Update(sessionMsg(session.session))
	m = next.(Model)

	session.session = domain.Session{Status: domain.StatusAnonymous}
	next, _ = m.Update(sessionMsg(session.session))

	model := next.(Model)
	if model.login.errMsg != domain.ErrSessionExpired.Error() {
		t.Fatalf("expected expiry notice on login page, got %q", model.login.errMsg)
	}
}

func TestUpdate_ManualLogoutShowsNoExpiryNotice(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{
		Status:   domain.StatusAuthenticated,
		Identity: &domain.Identity{ID: "u1"},
	}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})
	next, _ := m.Update(sessionMsg(session.session))
	m = next.(Model)

	next, _ = m.Update(runes("L"))
	m = next.(Model)

	session.session = domain.Session{Status: domain.StatusAnonymous}
	next, _ = m.Update(sessionMsg(session.session))

	model := next.(Model)
	if model.page != PageLogin {
		t.Fatalf("expected login page after logout, got page %v", model.page)
	}
	if model.login.errMsg != "" {
		t.Fatalf("unexpected notice after explicit logout: %q", model.login.errMsg)
	}
}

func TestUpdate_AuthSuccessReturnsToRequestedPage(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{Status: domain.StatusAnonymous}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})
	m.page = PageLogin
	_ = m.guard.Resolve(PageTodos) // the user originally asked for todos

	session.session = domain.Session{
		Status:   domain.StatusAuthenticated,
		Identity: &domain.Identity{ID: "u1"},
	}
	next, cmd := m.Update(sessionMsg(session.session))

	model := next.(Model)
	if model.page != PageTodos {
		t.Fatalf("expected return to todos after login, got page %v", model.page)
	}
	if cmd == nil {
		t.Fatalf("expected a todos load command")
	}
}

func TestUpdate_AuthFailureShowsInlineError(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{Status: domain.StatusAnonymous}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})
	m.page = PageLogin

	next, _ := m.Update(authResultMsg{err: domain.ErrInvalidCredentials})

	model := next.(Model)
	if model.login.errMsg != domain.ErrInvalidCredentials.Error() {
		t.Fatalf("expected classified error inline, got %q", model.login.errMsg)
	}
	if !strings.Contains(model.View(), domain.ErrInvalidCredentials.Error()) {
		t.Fatalf("error not rendered")
	}
}

func TestUpdate_UsersPageDeniedForMembers(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{
		Status:   domain.StatusAuthenticated,
		Identity: &domain.Identity{ID: "u1", Role: domain.RoleMember},
	}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})

	next, cmd := m.Update(runes("u"))
	model := next.(Model)
	if model.page != PageUsers {
		t.Fatalf("expected users page, got page %v", model.page)
	}
	if cmd != nil {
		t.Fatalf("expected no fetch for a non-admin")
	}
	if !strings.Contains(model.View(), "Access denied") {
		t.Fatalf("expected access denied view, got:\n%s", model.View())
	}
}

func TestUpdate_UsersPageListsForAdmins(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{
		Status:   domain.StatusAuthenticated,
		Identity: &domain.Identity{ID: "admin1", Role: domain.RoleAdmin},
	}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})

	next, cmd := m.Update(runes("u"))
	m = next.(Model)
	if m.page != PageUsers {
		t.Fatalf("expected users page, got page %v", m.page)
	}
	if cmd == nil {
		t.Fatalf("expected a users load command")
	}

	next, _ = m.Update(usersLoadedMsg{users: []domain.User{
		{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: domain.RoleMember, Active: true},
		{ID: "u3", Name: "Eve", Email: "eve@example.com", Role: domain.RoleMember, Active: false},
	}})
	m = next.(Model)

	view := m.View()
	if !strings.Contains(view, "Bob") || !strings.Contains(view, "inactive") {
		t.Fatalf("expected user rows with status, got:\n%s", view)
	}
}

func TestUpdate_UserToggleRequiresConfirmation(t *testing.T) {
	session := newStubSessionOps()
	session.ready = true
	session.session = domain.Session{
		Status:   domain.StatusAuthenticated,
		Identity: &domain.Identity{ID: "admin1", Role: domain.RoleAdmin},
	}

	m := NewModel(session, stubTodoOps{}, stubUserOps{})
	m.page = PageUsers
	m.users.setUsers([]domain.User{{ID: "u2", Name: "Bob", Active: true}})

	next, cmd := m.Update(runes(" "))
	m = next.(Model)
	if cmd != nil || !m.users.confirm {
		t.Fatalf("expected pending confirmation, confirm=%v", m.users.confirm)
	}

	next, cmd = m.Update(runes("n"))
	m = next.(Model)
	if cmd != nil || m.users.confirm {
		t.Fatalf("expected declined confirmation to do nothing")
	}

	next, _ = m.Update(runes(" "))
	m = next.(Model)
	next, cmd = m.Update(runes("y"))
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected a toggle command after confirmation")
	}

	next, _ = m.Update(userToggledMsg{user: &domain.User{ID: "u2", Name: "Bob", Active: false}})
	m = next.(Model)
	if m.users.users[0].Active {
		t.Fatalf("expected the toggled record applied to the list")
	}
}
