// Package metrics defines and registers all custom Prometheus metrics for
// the identity API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// ── Account lifecycle ─────────────────────────────────────────────────────────

// RegistrationsTotal counts completed registrations.
// Label:
//   - role: the role the account was created with
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// VerificationsTotal counts successful channel verifications.
// Label:
//   - channel: "email" or "phone"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of successful channel verifications.",
	},
	[]string{"channel"},
)

// ── Authentication ────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "invalid_credentials", "locked", "unverified", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// LockoutsTotal counts login attempts refused because a lockout window was
// open.
var LockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lockouts_total",
		Help:      "Total number of login attempts refused due to an active lockout.",
	},
)

// RateLimitedTotal counts requests refused by the verification-route guard.
// Label:
//   - route: the guarded route name
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests refused by the request-rate guard.",
	},
	[]string{"route"},
)

// ── Notification queue ────────────────────────────────────────────────────────

// NotificationsEnqueuedTotal counts notifications handed to the dispatcher.
// Label:
//   - channel: "email" or "whatsapp"
var NotificationsEnqueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_enqueued_total",
		Help:      "Total number of notifications enqueued for delivery.",
	},
	[]string{"channel"},
)

// NotificationsFailedTotal counts notifications whose delivery failed.
// Label:
//   - channel: "email" or "whatsapp"
var NotificationsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_failed_total",
		Help:      "Total number of notification deliveries that failed.",
	},
	[]string{"channel"},
)

// NotificationQueueDepth tracks pending notifications per worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
