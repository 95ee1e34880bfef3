// Package metrics defines and registers all custom Prometheus metrics for the
// MoveSwift admin console. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts outbound requests to the backend.
// Labels:
//   - route: the backend path template (e.g. "/customer/viewcustomer/:id")
//   - code: the HTTP status, or "timeout" / "unreachable" on transport failure
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of requests sent to the backend API.",
	},
	[]string{"method", "route", "code"},
)

// GatewayRequestDuration measures backend round-trip latency per route.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of backend API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"route"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state machine events.
// Label:
//   - event: restore_ok, restore_empty, restore_corrupt, login_ok, login_failed,
//     logout, expired
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session lifecycle events.",
	},
	[]string{"event"},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// MutationsTotal counts create/update/delete/restore calls.
// Labels:
//   - entity: "customer" or "shipment"
//   - action: "create", "update", "delete", "restore"
//   - result: "ok" or "error"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of entity mutations issued from the console.",
	},
	[]string{"entity", "action", "result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit entries waiting in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit entries discarded because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped on a full queue.",
	},
)

// AuditErrorsTotal counts audit entries that failed to persist.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit entries that could not be written.",
	},
)
