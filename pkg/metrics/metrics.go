package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findscooter_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// Signups counts account creations by result (success|duplicate|error).
	Signups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findscooter_signups_total",
			Help: "Total number of signup attempts",
		},
		[]string{"result"},
	)

	// Verifications counts verification attempts by result (success|mismatch|expired|error).
	Verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findscooter_verifications_total",
			Help: "Total number of email verification attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "findscooter_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
