package tui

import "github.com/tasklight/tasklight/internal/core/ports"

// Page identifies a screen in the application.
type Page int

const (
	PageTodos Page = iota // guarded
	PageUsers             // guarded, admin only
	PageLogin
	PageRegister
)

// guarded reports whether the page requires an authenticated session.
func (p Page) guarded() bool {
	return p == PageTodos || p == PageUsers
}

// RouteDecision is the guard's verdict for a guarded page.
type RouteDecision int

const (
	// RouteWait: the session is still initializing; render a neutral
	// waiting indicator and make no redirect decision.
	RouteWait RouteDecision = iota
	// RouteLogin: anonymous; redirect to the login entry point.
	RouteLogin
	// RouteRender: authenticated; render the requested page unchanged.
	RouteRender
)

// Guard gates guarded pages on session state. It holds only a read
// reference to the session and never mutates it. When it redirects to
// login it remembers the originally requested page so a successful login
// returns the user there.
type Guard struct {
	session   ports.SessionReader
	requested Page
}

func NewGuard(session ports.SessionReader) *Guard {
	return &Guard{session: session, requested: PageTodos}
}

// Resolve decides what to show for a guarded page. It must be re-evaluated
// on every session transition: a background unauthorized signal while the
// page is mounted flips the verdict to RouteLogin.
func (g *Guard) Resolve(page Page) RouteDecision {
	if !g.session.Ready() {
		return RouteWait
	}
	if !g.session.Current().Authenticated() {
		g.requested = page
		return RouteLogin
	}
	return RouteRender
}

// Resume returns the page requested before the last redirect to login.
func (g *Guard) Resume() Page {
	return g.requested
}
