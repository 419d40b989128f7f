// Package observability registers the service's Prometheus metrics.
package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simple_access",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "simple_access",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	businessErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simple_access",
			Subsystem: "policy",
			Name:      "rejections_total",
			Help:      "Operations rejected by the lifecycle and uniqueness policy.",
		},
		[]string{"entity", "kind"},
	)
)

// RegisterMetrics registers the collectors with the default registry. Safe to
// call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, businessErrors)
	})
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, route, statusLabel).Inc()
	httpDuration.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
}

// RecordRejection records a business-rule rejection.
func RecordRejection(entity, kind string) {
	RegisterMetrics()
	if entity == "" {
		entity = "unknown"
	}
	businessErrors.WithLabelValues(entity, kind).Inc()
}
