package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "journal",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Appended message turns by outcome (analyzed or fallback)
	AppendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Subsystem: "api",
			Name:      "message_appends_total",
			Help:      "Total conversation turns appended",
		},
		[]string{"outcome"},
	)

	// Analysis provider calls
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Subsystem: "api",
			Name:      "provider_calls_total",
			Help:      "Total analysis provider calls",
		},
		[]string{"operation", "status"},
	)

	// Storage operation duration
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "journal",
			Subsystem: "api",
			Name:      "storage_duration_seconds",
			Help:      "Storage operation duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation"},
	)
)

// RecordRequest captures one completed HTTP request.
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordProviderCall captures one analysis provider call outcome.
func RecordProviderCall(operation, status string) {
	ProviderCallsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveStorageOp records the elapsed time of a storage operation; meant
// to be deferred with the operation start time.
func ObserveStorageOp(operation string, start time.Time) {
	StorageDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
