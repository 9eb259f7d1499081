package metrics

import (
	"time"

	"fud-buddy/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Stream outcomes.
const (
	StreamComplete = "complete"
	StreamFallback = "fallback"
	StreamCanceled = "canceled"
)

// RequestMetrics tracks HTTP traffic.
//
// Metrics:
//   - fudbuddy_http_requests_total{route,method,status}
//   - fudbuddy_http_request_duration_seconds{route,method}
//   - fudbuddy_http_streams_total{outcome}
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	streamsTotal    *prometheus.CounterVec
}

// NewRequestMetrics creates and registers HTTP metrics.
func NewRequestMetrics(cfg *config.MetricsConfig, registry prometheus.Registerer) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"route", "method", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"route", "method"},
		),

		streamsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "streams_total",
				Help:      "Streaming chat responses by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration, rm.streamsTotal)

	return rm
}

// Record records one request.
func (rm *RequestMetrics) Record(route, method, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(route, method, status).Inc()
	rm.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordStream records one stream outcome.
func (rm *RequestMetrics) RecordStream(outcome string) {
	rm.streamsTotal.WithLabelValues(outcome).Inc()
}
