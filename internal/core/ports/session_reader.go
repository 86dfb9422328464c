package ports

import "github.com/tasklight/tasklight/internal/core/domain"

// SessionReader is the read-only session surface handed to route guards and
// pages. Only the session controller mutates session state.
type SessionReader interface {
	// Current returns a copy of the session state.
	Current() domain.Session
	// Ready reports whether the bootstrap reconciliation has completed.
	// Guards must not make routing decisions before Ready returns true.
	Ready() bool
	// Subscribe registers for state-change notifications. The returned
	// channel receives a copy of the new session after every transition;
	// call the cancel func to unsubscribe.
	Subscribe() (<-chan domain.Session, func())
}
