package metrics

import (
	"time"

	"fud-buddy/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks calls to the model backend.
//
// Metrics:
//   - fudbuddy_upstream_requests_total{provider,model,result}
//   - fudbuddy_upstream_latency_seconds{provider,model}
//   - fudbuddy_upstream_errors_total{provider,kind}
//   - fudbuddy_upstream_health{provider} (1 healthy, 0 unhealthy)
type UpstreamMetrics struct {
	requestsTotal *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
	health        *prometheus.GaugeVec
}

// NewUpstreamMetrics creates and registers upstream metrics.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry prometheus.Registerer) *UpstreamMetrics {
	um := &UpstreamMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of upstream model calls",
			},
			[]string{"provider", "model", "result"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "latency_seconds",
				Help:      "Upstream model call latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"provider", "model"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "errors_total",
				Help:      "Upstream failures by kind",
			},
			[]string{"provider", "kind"},
		),

		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "upstream",
				Name:      "health",
				Help:      "Upstream health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(um.requestsTotal, um.latency, um.errorsTotal, um.health)

	return um
}

// Record records one upstream call.
func (um *UpstreamMetrics) Record(provider, model string, latency time.Duration, errorKind string) {
	result := "success"
	if errorKind != "" {
		result = "error"
		um.errorsTotal.WithLabelValues(provider, errorKind).Inc()
	}
	um.requestsTotal.WithLabelValues(provider, model, result).Inc()
	um.latency.WithLabelValues(provider, model).Observe(latency.Seconds())
}

// UpdateHealth sets the health gauge for provider.
func (um *UpstreamMetrics) UpdateHealth(provider string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1
	}
	um.health.WithLabelValues(provider).Set(v)
}
