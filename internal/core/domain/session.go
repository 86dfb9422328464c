package domain

// SessionStatus is the lifecycle state of the client session.
type SessionStatus string

const (
	// StatusInitializing is the state between process start and the end of
	// the bootstrap reconciliation. Guards must not route while it holds.
	StatusInitializing  SessionStatus = "initializing"
	StatusAuthenticated SessionStatus = "authenticated"
	StatusAnonymous     SessionStatus = "anonymous"
)

// Session is the in-memory session state owned by the session controller.
// Consumers receive copies and never mutate it directly.
type Session struct {
	// Credential is the bearer token issued by the backend. It may be empty
	// even when authenticated if the deployment relies on a server-set cookie.
	Credential string
	Identity   *Identity
	Status     SessionStatus
}

// Authenticated reports whether the session carries a verified identity.
// Status is Authenticated iff Identity is non-nil.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}
