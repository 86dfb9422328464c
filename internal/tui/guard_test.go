package tui

import (
	"testing"

	"github.com/tasklight/tasklight/internal/core/domain"
)

type stubSession struct {
	ready   bool
	session domain.Session
}

func (s *stubSession) Current() domain.Session { return s.session }
func (s *stubSession) Ready() bool             { return s.ready }
func (s *stubSession) Subscribe() (<-chan domain.Session, func()) {
	ch := make(chan domain.Session)
	return ch, func() {}
}

func TestGuard_WaitsWhileInitializing(t *testing.T) {
	session := &stubSession{ready: false, session: domain.Session{Status: domain.StatusInitializing}}
	guard := NewGuard(session)

	if got := guard.Resolve(PageTodos); got != RouteWait {
		t.Fatalf("expected RouteWait before ready, got %v", got)
	}

	// Even an anonymous-looking session must not redirect until ready:
	// no flash of the login page before restoration completes.
	session.session = domain.Session{Status: domain.StatusAnonymous}
	if got := guard.Resolve(PageTodos); got != RouteWait {
		t.Fatalf("expected RouteWait while not ready, got %v", got)
	}
}

func TestGuard_RedirectsAnonymousAndRemembersPage(t *testing.T) {
	session := &stubSession{ready: true, session: domain.Session{Status: domain.StatusAnonymous}}
	guard := NewGuard(session)

	if got := guard.Resolve(PageTodos); got != RouteLogin {
		t.Fatalf("expected RouteLogin, got %v", got)
	}
	if got := guard.Resume(); got != PageTodos {
		t.Fatalf("expected requested page remembered, got %v", got)
	}
}

func TestGuard_RendersAuthenticated(t *testing.T) {
	session := &stubSession{
		ready:   true,
		session: domain.Session{Status: domain.StatusAuthenticated, Identity: &domain.Identity{ID: "u1"}},
	}
	guard := NewGuard(session)

	if got := guard.Resolve(PageTodos); got != RouteRender {
		t.Fatalf("expected RouteRender, got %v", got)
	}
}

func TestGuard_ReactsToBackgroundInvalidation(t *testing.T) {
	session := &stubSession{
		ready:   true,
		session: domain.Session{Status: domain.StatusAuthenticated, Identity: &domain.Identity{ID: "u1"}},
	}
	guard := NewGuard(session)

	if got := guard.Resolve(PageTodos); got != RouteRender {
		t.Fatalf("expected RouteRender, got %v", got)
	}

	// A background unauthorized signal flips the session; the next
	// evaluation must redirect.
	session.session = domain.Session{Status: domain.StatusAnonymous}
	if got := guard.Resolve(PageTodos); got != RouteLogin {
		t.Fatalf("expected RouteLogin after invalidation, got %v", got)
	}
}
