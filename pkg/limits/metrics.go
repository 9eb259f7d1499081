package limits

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains Prometheus metrics for the limiters.
type Metrics struct {
	checks  *prometheus.CounterVec
	denied  *prometheus.CounterVec
	tracked *prometheus.GaugeVec
}

// NewMetrics creates the limiter collectors and registers them with reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fudbuddy_limits_checks_total",
				Help: "Total number of rate limit checks performed",
			},
			[]string{"limiter", "result"},
		),
		denied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fudbuddy_limits_denied_total",
				Help: "Total number of requests rejected by a rate limiter",
			},
			[]string{"limiter"},
		),
		tracked: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fudbuddy_limits_tracked_identities",
				Help: "Number of client identities with a live window after the last sweep",
			},
			[]string{"limiter"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.checks, m.denied, m.tracked)
	}
	return m
}

func (m *Metrics) recordCheck(limiter string, allowed bool) {
	result := "allowed"
	if !allowed {
		result = "denied"
		m.denied.WithLabelValues(limiter).Inc()
	}
	m.checks.WithLabelValues(limiter, result).Inc()
}

func (m *Metrics) setTracked(limiter string, n int) {
	m.tracked.WithLabelValues(limiter).Set(float64(n))
}
