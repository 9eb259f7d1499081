package metrics

import (
	"fud-buddy/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics tracks response cache behaviour.
//
// Metrics:
//   - fudbuddy_cache_hits_total{cache}
//   - fudbuddy_cache_misses_total{cache}
//   - fudbuddy_cache_entries{cache}
//   - fudbuddy_cache_evictions_total{cache}
//
// Hit rate is derived in PromQL:
//
//	rate(fudbuddy_cache_hits_total[5m]) /
//	(rate(fudbuddy_cache_hits_total[5m]) + rate(fudbuddy_cache_misses_total[5m]))
type CacheMetrics struct {
	hitsTotal      *prometheus.CounterVec
	missesTotal    *prometheus.CounterVec
	entries        *prometheus.GaugeVec
	evictionsTotal *prometheus.CounterVec
}

// NewCacheMetrics creates and registers cache metrics.
func NewCacheMetrics(cfg *config.MetricsConfig, registry prometheus.Registerer) *CacheMetrics {
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		}
	}

	cm := &CacheMetrics{
		hitsTotal:   prometheus.NewCounterVec(opts("hits_total", "Total number of cache hits"), []string{"cache"}),
		missesTotal: prometheus.NewCounterVec(opts("misses_total", "Total number of cache misses"), []string{"cache"}),
		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "cache",
				Name:      "entries",
				Help:      "Current number of entries in cache",
			},
			[]string{"cache"},
		),
		evictionsTotal: prometheus.NewCounterVec(opts("evictions_total", "Total number of expired or cleared entries"), []string{"cache"}),
	}

	registry.MustRegister(cm.hitsTotal, cm.missesTotal, cm.entries, cm.evictionsTotal)

	return cm
}

// RecordHit records a cache hit.
func (cm *CacheMetrics) RecordHit(cacheName string) {
	cm.hitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordMiss records a cache miss.
func (cm *CacheMetrics) RecordMiss(cacheName string) {
	cm.missesTotal.WithLabelValues(cacheName).Inc()
}

// UpdateSize sets the current entry count.
func (cm *CacheMetrics) UpdateSize(cacheName string, size int) {
	cm.entries.WithLabelValues(cacheName).Set(float64(size))
}

// RecordEviction records one removed entry.
func (cm *CacheMetrics) RecordEviction(cacheName string) {
	cm.evictionsTotal.WithLabelValues(cacheName).Inc()
}
