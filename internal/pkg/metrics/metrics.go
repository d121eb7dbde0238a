// Package metrics defines and registers all custom Prometheus metrics for the
// resume API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto and exposed by promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "resume"

// ── Authentication metrics ───────────────────────────────────────────────────

// SignInTotal counts sign-in attempts.
// Label:
//   - result: "success" or "failure"
var SignInTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_signin_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts presented tokens that left a request anonymous.
// Label:
//   - reason: "malformed", "bad_signature", "expired", "unknown_subject" or "lookup_error"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_rejections_total",
		Help:      "Total number of presented tokens downgraded to anonymous.",
	},
	[]string{"reason"},
)

// ── Authorization metrics ────────────────────────────────────────────────────

// AccessDecisionsTotal counts access decisions.
// Labels:
//   - outcome: "allow" or "deny"
//   - reason:  "", "unauthenticated" or "forbidden"
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access decisions, by outcome and deny reason.",
	},
	[]string{"outcome", "reason"},
)

// ── Public link metrics ──────────────────────────────────────────────────────

// PublicLinkAllocationsTotal counts allocation attempts.
// Label:
//   - result: "allocated", "reused", "collision" or "exhausted"
var PublicLinkAllocationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "public_link_allocations_total",
		Help:      "Total number of public link allocation attempts, by result.",
	},
	[]string{"result"},
)

// PublicCacheTotal counts public resume cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var PublicCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "public_cache_lookups_total",
		Help:      "Total number of public resume cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events leaving the dispatcher.
// Label:
//   - result: "recorded", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by delivery result.",
	},
	[]string{"result"},
)

// ── HTTP metrics ─────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency.
// Labels:
//   - method: HTTP method
//   - route:  the matched route pattern (e.g. "/api/resumes/:id")
//   - code:   response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status code.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method", "route", "code"},
)
