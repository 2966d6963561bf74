// ABOUTME: Prometheus instrumentation for blog API calls.
// ABOUTME: Counts requests and records latency per operation and status.
package blogapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_api_request_duration_seconds",
		Help:    "Duration of blog API requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_api_requests_total",
		Help: "Total number of blog API requests.",
	}, []string{"operation", "status"})
)

// observe records one finished request. status is the HTTP code or "error".
func observe(op, status string, elapsed time.Duration) {
	requestDuration.WithLabelValues(op, status).Observe(elapsed.Seconds())
	requestsTotal.WithLabelValues(op, status).Inc()
}
