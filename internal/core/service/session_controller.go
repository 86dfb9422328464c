package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/tasklight/tasklight/internal/core/domain"
	"github.com/tasklight/tasklight/internal/core/ports"
	"github.com/tasklight/tasklight/internal/metrics"
)

const subscriberBuffer = 16

// SessionController owns the client session: it runs the startup
// reconciliation, performs login/register/logout, reacts to unauthorized
// signals from the transport, and publishes every transition to its
// subscribers. It is the single writer of session state and of the
// persisted store.
type SessionController struct {
	store ports.SessionStore
	api   ports.AuthAPI
	log   zerolog.Logger

	mu           sync.Mutex
	session      domain.Session
	ready        bool
	bootstrapped bool
	subs         map[int]chan domain.Session
	nextSub      int
}

func NewSessionController(store ports.SessionStore, api ports.AuthAPI, log zerolog.Logger) *SessionController {
	return &SessionController{
		store:   store,
		api:     api,
		log:     log,
		session: domain.Session{Status: domain.StatusInitializing},
		subs:    make(map[int]chan domain.Session),
	}
}

// Bootstrap reconciles the persisted session with the server. It runs at
// most once per controller; later calls are no-ops. Whatever happens, the
// controller is ready when Bootstrap returns, so guards may start routing.
func (c *SessionController) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	if c.bootstrapped {
		c.mu.Unlock()
		return nil
	}
	c.bootstrapped = true
	c.mu.Unlock()

	defer c.markReady()

	stored, err := c.store.Load(ctx)
	if err != nil {
		// A broken cache never blocks startup.
		c.log.Warn().Err(err).Msg("session store unreadable, starting anonymous")
		stored = ports.StoredSession{}
	}

	if stored.Credential == "" {
		c.transition(domain.Session{Status: domain.StatusAnonymous}, "bootstrap")
		return nil
	}

	if credentialExpired(stored.Credential) {
		c.log.Info().Msg("cached credential expired, skipping verification")
		c.purge(ctx, "bootstrap")
		return nil
	}

	// Optimistic restore: show the cached identity while the server
	// verdict is in flight, so a reload doesn't flash "logged out".
	if identity, err := domain.NormalizeIdentity(stored.Identity); err == nil && identity.ID != "" {
		c.transition(domain.Session{
			Credential: stored.Credential,
			Identity:   identity,
			Status:     domain.StatusAuthenticated,
		}, "bootstrap")
	} else {
		c.setCredential(stored.Credential)
	}

	payload, err := c.api.Profile(ctx)
	if err != nil {
		c.log.Info().Err(err).Msg("credential verification failed")
		c.purge(ctx, "bootstrap")
		return nil
	}

	identity, err := domain.NormalizeIdentity(payload)
	if err != nil {
		c.log.Warn().Err(err).Msg("unparseable profile payload")
		c.purge(ctx, "bootstrap")
		return nil
	}

	c.persist(ctx, stored.Credential, identity)
	c.transition(domain.Session{
		Credential: stored.Credential,
		Identity:   identity,
		Status:     domain.StatusAuthenticated,
	}, "bootstrap")
	c.log.Info().Str("user_id", identity.ID).Msg("session restored")
	return nil
}

// Login authenticates with the backend. On success the store is updated
// before Login returns, so a restart immediately observes the new session.
func (c *SessionController) Login(ctx context.Context, email, password string) error {
	result, err := c.api.Login(ctx, email, password)
	if err != nil {
		return classifyLoginErr(err)
	}

	identity, err := domain.NormalizeIdentity(result.User)
	if err != nil {
		c.log.Error().Err(err).Msg("login response carried an unparseable user")
		return domain.ErrTransient
	}

	c.persist(ctx, result.Token, identity)
	c.transition(domain.Session{
		Credential: result.Token,
		Identity:   identity,
		Status:     domain.StatusAuthenticated,
	}, "login")
	c.log.Info().Str("user_id", identity.ID).Msg("logged in")
	return nil
}

// Register creates an account. The register response already carries a
// usable session, so no follow-up login call is made.
func (c *SessionController) Register(ctx context.Context, name, email, password, role string) error {
	result, err := c.api.Register(ctx, name, email, password, role)
	if err != nil {
		return classifyRegisterErr(err)
	}

	identity, err := domain.NormalizeIdentity(result.User)
	if err != nil {
		c.log.Error().Err(err).Msg("register response carried an unparseable user")
		return domain.ErrTransient
	}

	c.persist(ctx, result.Token, identity)
	c.transition(domain.Session{
		Credential: result.Token,
		Identity:   identity,
		Status:     domain.StatusAuthenticated,
	}, "register")
	c.log.Info().Str("user_id", identity.ID).Msg("registered")
	return nil
}

// Logout notifies the backend best-effort, then unconditionally purges the
// session. Idempotent: logging out while anonymous is a no-op.
func (c *SessionController) Logout(ctx context.Context) error {
	c.mu.Lock()
	anonymous := c.session.Status == domain.StatusAnonymous && c.session.Credential == ""
	c.mu.Unlock()
	if anonymous {
		return nil
	}

	if err := c.api.Logout(ctx); err != nil {
		// Server-side invalidation is best-effort; the local purge is what
		// the caller is owed.
		c.log.Warn().Err(err).Msg("backend logout failed")
	}

	c.purge(ctx, "logout")
	c.log.Info().Msg("logged out")
	return nil
}

// HandleUnauthorized is invoked by the HTTP client when any request comes
// back 401. It purges the session; navigation is left to the route guard
// reacting to the published transition.
func (c *SessionController) HandleUnauthorized() {
	c.mu.Lock()
	wasAuthenticated := c.session.Status == domain.StatusAuthenticated
	c.mu.Unlock()

	c.purge(context.Background(), "unauthorized")
	if wasAuthenticated {
		metrics.ForcedLogoutsTotal.Inc()
		c.log.Warn().Err(domain.ErrSessionExpired).Msg("session invalidated by server")
	}
}

// Current returns a copy of the session state.
func (c *SessionController) Current() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSession(c.session)
}

// Credential returns the current bearer token, empty when anonymous. It is
// the credential source wired into the HTTP client.
func (c *SessionController) Credential() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Credential
}

// Ready reports whether Bootstrap has completed.
func (c *SessionController) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Subscribe registers for transition notifications. Sends never block the
// controller: a subscriber that falls more than subscriberBuffer updates
// behind misses intermediate states, not the final one it reads via Current.
func (c *SessionController) Subscribe() (<-chan domain.Session, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan domain.Session, subscriberBuffer)
	c.subs[id] = ch
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *SessionController) markReady() {
	c.mu.Lock()
	c.ready = true
	s := cloneSession(c.session)
	subs := subsSnapshot(c.subs)
	c.mu.Unlock()
	notify(subs, s)
}

func (c *SessionController) setCredential(credential string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Credential = credential
}

// transition swaps the session state and fans the copy out to subscribers.
func (c *SessionController) transition(next domain.Session, cause string) {
	c.mu.Lock()
	c.session = next
	s := cloneSession(next)
	subs := subsSnapshot(c.subs)
	c.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(string(next.Status), cause).Inc()
	notify(subs, s)
}

// purge clears the persisted store and resets the session to anonymous.
func (c *SessionController) purge(ctx context.Context, cause string) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear session store")
	}
	c.transition(domain.Session{Status: domain.StatusAnonymous}, cause)
}

// persist mirrors the session into the store before the operation resolves.
// Store failures are logged, never surfaced: the cache is best-effort.
func (c *SessionController) persist(ctx context.Context, credential string, identity *domain.Identity) {
	raw, err := json.Marshal(identity)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to serialize identity")
		return
	}
	if err := c.store.Save(ctx, ports.StoredSession{Credential: credential, Identity: raw}); err != nil {
		c.log.Warn().Err(err).Msg("failed to persist session")
	}
}

func notify(subs []chan domain.Session, s domain.Session) {
	for _, ch := range subs {
		select {
		case ch <- s:
		default:
		}
	}
}

func subsSnapshot(m map[int]chan domain.Session) []chan domain.Session {
	out := make([]chan domain.Session, 0, len(m))
	for _, ch := range m {
		out = append(out, ch)
	}
	return out
}

func cloneSession(s domain.Session) domain.Session {
	if s.Identity != nil {
		identity := *s.Identity
		s.Identity = &identity
	}
	return s
}

// credentialExpired reports whether a cached JWT credential is already past
// its exp claim, making the verification round-trip pointless. Opaque
// (non-JWT) credentials always return false: the server decides.
func credentialExpired(credential string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}

func classifyLoginErr(err error) error {
	var apiErr *ports.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return domain.ErrInvalidCredentials
		case http.StatusForbidden:
			return domain.ErrAccountDisabled
		}
	}
	return domain.ErrTransient
}

func classifyRegisterErr(err error) error {
	var apiErr *ports.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
		return domain.ErrEmailTaken
	}
	return domain.ErrTransient
}
