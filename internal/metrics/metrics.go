// Package metrics defines and registers all custom Prometheus metrics for
// the Tasklight client. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tasklight"

// ── HTTP client metrics ───────────────────────────────────────────────────────

// RequestsTotal counts outgoing API requests that received a response.
// Labels:
//   - method: HTTP method of the request
//   - code: response status code
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of API requests issued, by method and status code.",
	},
	[]string{"method", "code"},
)

// RequestDuration measures end-to-end latency of outgoing API requests.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests from send to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state transitions.
// Labels:
//   - to: the state entered ("authenticated" or "anonymous")
//   - cause: what drove the transition (e.g. "bootstrap", "login", "logout",
//     "register", "unauthorized")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by target state and cause.",
	},
	[]string{"to", "cause"},
)

// ForcedLogoutsTotal counts sessions terminated by an unauthorized signal
// rather than an explicit logout.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions invalidated by a 401 on any request.",
	},
)

// ── User directory metrics ────────────────────────────────────────────────────

// UserStatusTogglesTotal counts admin activate/deactivate actions sent to
// the backend.
var UserStatusTogglesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_status_toggles_total",
		Help:      "Total number of user activate/deactivate actions issued.",
	},
)

// ── Todo metrics ──────────────────────────────────────────────────────────────

// TodoMutationsTotal counts todo mutations issued to the backend.
// Label:
//   - op: "create", "update", "toggle", or "delete"
var TodoMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todo_mutations_total",
		Help:      "Total number of todo mutations sent, by operation.",
	},
	[]string{"op"},
)
