// Package metrics defines and registers all custom Prometheus metrics of the
// clinic portal and the reference clinic API. It is the single source of truth
// for metric names, labels, and help strings.
//
// Metrics are registered with the default registry on package load through
// promauto; HTTP-level metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Portal ────────────────────────────────────────────────────────────────────

// ViewTransitionsTotal counts view activations.
// Label:
//   - view: the activated view (e.g. "dashboard")
var ViewTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "portal",
		Name:      "view_transitions_total",
		Help:      "Total number of view activations, by view.",
	},
	[]string{"view"},
)

// StaleRendersTotal counts fetch results dropped because the view they were
// issued for is no longer active.
var StaleRendersTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "portal",
		Name:      "stale_renders_total",
		Help:      "Total number of fetch results discarded because their view was left.",
	},
)

// DashboardRefreshTotal counts periodic dashboard refresh ticks.
var DashboardRefreshTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "portal",
		Name:      "dashboard_refresh_total",
		Help:      "Total number of dashboard refresh ticks.",
	},
)

// ToastsTotal counts transient messages shown to users.
var ToastsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "portal",
		Name:      "toasts_total",
		Help:      "Total number of toast messages shown.",
	},
)

// PromptsTotal counts confirmation prompts by outcome.
// Label:
//   - answer: "confirmed", "cancelled" or "superseded"
var PromptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "portal",
		Name:      "prompts_total",
		Help:      "Total number of confirmation prompts resolved, by answer.",
	},
	[]string{"answer"},
)

// SessionsActive tracks portal controllers currently registered.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "portal",
		Name:      "sessions_active",
		Help:      "Current number of portal sessions.",
	},
)

// ClinicAPIRequestsTotal counts outbound calls to the clinic API.
// Labels:
//   - collection: "patients", "therapies", "notifications" or "send-email"
//   - method: HTTP method
//   - outcome: "ok" or "transport_error"
var ClinicAPIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "portal",
		Name:      "clinic_api_requests_total",
		Help:      "Total number of requests sent to the clinic API.",
	},
	[]string{"collection", "method", "outcome"},
)

// ClinicAPIRequestDuration measures outbound call latency.
var ClinicAPIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "portal",
		Name:      "clinic_api_request_duration_seconds",
		Help:      "Duration of requests sent to the clinic API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"collection", "method"},
)

// ── Reference API ─────────────────────────────────────────────────────────────

// RecordMutationsTotal counts successful writes.
// Labels:
//   - collection: the REST collection
//   - op: "create", "update" or "delete"
var RecordMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "record_mutations_total",
		Help:      "Total number of successful record mutations.",
	},
	[]string{"collection", "op"},
)

// EmailsQueuedTotal counts send-email requests by result ("accepted"/"rejected").
var EmailsQueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "emails_queued_total",
		Help:      "Total number of send-email requests, by queueing result.",
	},
	[]string{"result"},
)

// EmailsDeliveredTotal counts delivery attempts by result ("sent"/"failed").
var EmailsDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "emails_delivered_total",
		Help:      "Total number of e-mail delivery attempts, by result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks pending e-mails per worker.
// Label:
//   - worker_id: numeric worker index
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "mail_queue_depth",
		Help:      "Current number of e-mails pending in each mail worker channel.",
	},
	[]string{"worker_id"},
)
