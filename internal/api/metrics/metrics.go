// Package metrics defines and registers all custom Prometheus metrics for the
// notes API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Collectors register with the default Prometheus registry on import, which
// is what the /metrics endpoint serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notes"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthDecisionsTotal counts gatekeeper outcomes.
// Label:
//   - outcome: "allow", "refreshed" or "deny"
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of gatekeeper decisions, by outcome.",
	},
	[]string{"outcome"},
)

// LoginsTotal counts signup and login attempts.
// Labels:
//   - action: "signup" or "login"
//   - result: "success", "invalid", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of signup and login attempts, by result.",
	},
	[]string{"action", "result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each shard.
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

// AuditEventsDroppedTotal counts audit events discarded because a shard was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped because the dispatcher was full.",
	},
)

// AuditWriteErrorsTotal counts audit events that could not be persisted.
var AuditWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_errors_total",
		Help:      "Total number of audit events that failed to persist.",
	},
)

// ── Note metrics ──────────────────────────────────────────────────────────────

// NoteOperationsTotal counts note mutations and listings.
// Label:
//   - op: "create", "update", "delete", "today", "past", "future" or "search"
var NoteOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "note_operations_total",
		Help:      "Total number of successful note operations, by operation.",
	},
	[]string{"op"},
)

// UploadURLsIssuedTotal counts pre-signed upload URLs handed out.
var UploadURLsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_urls_issued_total",
		Help:      "Total number of pre-signed attachment upload URLs issued.",
	},
)
