package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HttpRequestsTotal counts handled requests by route pattern, method and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of http requests handled by the service.",
		},
		[]string{"path", "method", "code"},
	)

	// RemindersTotal counts reminder emails by category and outcome
	// (sent, failed, skipped).
	RemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Total number of reminder emails attempted, by outcome.",
		},
		[]string{"category", "status"},
	)

	ReminderSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reminder_sweep_duration_seconds",
			Help:    "Duration of completed and aborted reminder sweeps.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// StoreUp is 1 while the last health probe reached the store.
	StoreUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_up",
			Help: "Whether the last store health probe succeeded. 1 if reachable, 0 otherwise.",
		},
	)
)
