package ports

import "context"

// StoredSession is the persisted projection of the session: the credential
// and the serialized identity, always written and invalidated together.
type StoredSession struct {
	Credential string `json:"credential,omitempty"`
	Identity   []byte `json:"identity,omitempty"`
}

// Empty reports whether nothing usable is persisted.
func (s StoredSession) Empty() bool {
	return s.Credential == "" && len(s.Identity) == 0
}

// SessionStore is the durable client-side cache of the session. It is
// best-effort: the server stays authoritative, and implementations must
// read corrupt or missing data as absent rather than failing.
type SessionStore interface {
	Load(ctx context.Context) (StoredSession, error)
	Save(ctx context.Context, s StoredSession) error
	Clear(ctx context.Context) error
}
