package ports

import "context"

// AuthResult is the backend's answer to login and register: an optional
// bearer token (absent when the deployment is cookie-only) and the raw user
// payload, left unparsed so domain.NormalizeIdentity is the single decoder.
type AuthResult struct {
	Token string
	User  []byte
}

// AuthAPI is the backend authentication surface consumed by the session
// controller. Implementations return transport-level errors unclassified;
// the controller maps them to the domain taxonomy.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Register(ctx context.Context, name, email, password, role string) (AuthResult, error)
	// Profile is the "who am I" verification used by bootstrap.
	Profile(ctx context.Context) ([]byte, error)
	Logout(ctx context.Context) error
}
