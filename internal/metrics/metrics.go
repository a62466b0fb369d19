// Package metrics holds domain counters exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts registration attempts by outcome
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_registrations_total",
			Help: "Registration attempts by outcome",
		},
		[]string{"outcome"},
	)

	// DMMessagesSent counts posted DM messages by sender and kind
	DMMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_dm_messages_sent_total",
			Help: "DM messages posted",
		},
		[]string{"sender", "kind"},
	)

	// UploadsRejected counts uploads refused before reaching storage
	UploadsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_uploads_rejected_total",
			Help: "Uploads rejected by validation",
		},
		[]string{"reason"},
	)

	// RealtimeEventsPublished counts change events by kind
	RealtimeEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_realtime_events_total",
			Help: "Realtime change events published",
		},
		[]string{"kind"},
	)

	// JobRuns counts cron job executions
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_job_runs_total",
			Help: "Cron job runs by job and result",
		},
		[]string{"job", "result"},
	)

	// HTTPRequests counts requests by API surface and route template
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventhub_http_requests_total",
			Help: "HTTP requests by surface, route and status",
		},
		[]string{"surface", "method", "route", "status"},
	)

	// HTTPDuration tracks latency per surface and route template
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventhub_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"surface", "route"},
	)

	// HTTPInFlight is the number of requests being served per surface
	HTTPInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eventhub_http_in_flight",
			Help: "Requests currently being served",
		},
		[]string{"surface"},
	)

	// DBConnections mirrors sql.DBStats by state (in_use, idle)
	DBConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eventhub_db_connections",
			Help: "Database pool connections by state",
		},
		[]string{"state"},
	)

	// PushClients is the number of dashboards attached to this instance
	PushClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventhub_push_clients",
			Help: "Connected admin push channels",
		},
	)
)
