// Package metrics defines and registers the custom Prometheus metrics of the
// LPPM portal auth service. It is the single source of truth for metric
// names, labels, and help strings.
//
// All metrics are registered with the default registry at package init via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lppm"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Labels:
//   - variant: "generic", "dosen" or "reviewer"
//   - outcome: "created", "invalid", "conflict" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by variant and outcome.",
	},
	[]string{"variant", "outcome"},
)

// LoginsTotal counts login attempts.
// Label:
//   - outcome: "success", "invalid", "not_found", "wrong_password", "inactive" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Access control metrics ────────────────────────────────────────────────────

// TokenVerificationsTotal counts bearer token checks in the auth middleware.
// Label:
//   - result: "valid", "missing", "malformed" or "rejected"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts requests stopped by the role gate.
// Label:
//   - role: the caller's role claim
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by the role gate, by caller role.",
	},
	[]string{"role"},
)

// RateLimitedTotal counts requests rejected by a rate limiter.
// Label:
//   - scope: "register" or "login"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting, by scope.",
	},
	[]string{"scope"},
)

// ── Document metrics ──────────────────────────────────────────────────────────

// DocumentCleanupTotal counts orphaned CV removals.
// Label:
//   - result: "deleted", "failed" or "dropped" (queue full)
var DocumentCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_cleanup_total",
		Help:      "Total number of orphaned document cleanups, by result.",
	},
	[]string{"result"},
)

// DocumentCleanupQueueDepth tracks documents waiting for removal.
var DocumentCleanupQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "document_cleanup_queue_depth",
		Help:      "Current number of documents pending removal.",
	},
)
