// Package metrics defines and registers all custom Prometheus metrics for the
// SweetConnect messaging API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the /metrics endpoint exposes them next to the HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetconnect"

// ── Message metrics ───────────────────────────────────────────────────────────

// MessagesSubmittedTotal counts messages persisted by the router.
// Label:
//   - kind: the message kind tag (e.g. "message")
var MessagesSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_submitted_total",
		Help:      "Total number of messages persisted, by kind.",
	},
	[]string{"kind"},
)

// MessageSubmitErrorsTotal counts rejected or failed submissions.
// Label:
//   - reason: "empty_content", "unauthenticated_sender", "no_counterparty", "persistence"
var MessageSubmitErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "message_submit_errors_total",
		Help:      "Total number of message submissions that did not persist.",
	},
	[]string{"reason"},
)

// ActivitiesLoggedTotal counts persisted activities.
// Label:
//   - type: the activity type tag (e.g. "login")
var ActivitiesLoggedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activities_logged_total",
		Help:      "Total number of activities persisted, by type.",
	},
	[]string{"type"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification outcomes.
// Labels:
//   - template: the template kind
//   - result: "sent", "failed", "dropped" (queue full or shutdown), "render_error"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications by template and outcome.",
	},
	[]string{"template", "result"},
)

// NotificationQueueDepth tracks pending notifications in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationSendDuration measures a single delivery attempt against the mail boundary.
var NotificationSendDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_send_duration_seconds",
		Help:      "Duration of a single notification delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Live delivery metrics ─────────────────────────────────────────────────────

// LiveConnections tracks open push-channel connections.
var LiveConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_connections",
		Help:      "Current number of open push-channel connections.",
	},
)

// PublishDeliveriesTotal counts per-connection outcomes of a publish.
// Label:
//   - result: "delivered", "filtered" (not visible to the connection), "dropped" (send buffer full)
var PublishDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publish_deliveries_total",
		Help:      "Total number of per-connection publish outcomes.",
	},
	[]string{"result"},
)
