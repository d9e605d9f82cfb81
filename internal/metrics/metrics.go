// Package metrics defines Prometheus metrics for Netrika.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netrika_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netrika_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netrika_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	EventQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netrika_event_queue_depth",
			Help: "Current moderation event queue depth",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netrika_websocket_connections",
			Help: "Active WebSocket feed connections",
		},
	)

	PendingEdits = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netrika_pending_edits",
			Help: "Pending edits awaiting review",
		},
	)

	ModerationDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netrika_moderation_decisions_total",
			Help: "Resolved pending edits by decision",
		},
		[]string{"decision"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		EventQueueDepth, WSConnections,
		PendingEdits, ModerationDecisions,
	)
}
