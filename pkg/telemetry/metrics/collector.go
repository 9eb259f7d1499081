package metrics

import (
	"strconv"
	"sync"
	"time"

	"fud-buddy/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// OtherRoute replaces route labels once the cardinality limit is reached.
const OtherRoute = "other"

// maxRoutes bounds the number of distinct route labels. Unknown paths
// probed by scanners would otherwise grow the series count without limit.
const maxRoutes = 64

// Collector records every gateway metric on a private registry.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requests *RequestMetrics
	upstream *UpstreamMetrics
	cache    *CacheMetrics

	routes *CardinalityLimiter
}

// NewCollector creates a collector. A nil registry gets a fresh one with
// the Go runtime and process collectors attached.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = config.DefaultRequestDurationBuckets
	}

	return &Collector{
		config:   cfg,
		registry: registry,
		requests: NewRequestMetrics(cfg, registry),
		upstream: NewUpstreamMetrics(cfg, registry),
		cache:    NewCacheMetrics(cfg, registry),
		routes:   NewCardinalityLimiter(maxRoutes),
	}
}

// RecordRequest records a completed HTTP request.
func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	if !c.routes.Allow(route) {
		route = OtherRoute
	}
	c.requests.Record(route, method, strconv.Itoa(status), duration)
}

// RecordStream records how a streaming chat response ended.
func (c *Collector) RecordStream(outcome string) {
	if !c.config.Enabled {
		return
	}
	c.requests.RecordStream(outcome)
}

// RecordUpstream records one upstream call. An empty errorKind marks
// success.
func (c *Collector) RecordUpstream(provider, model string, latency time.Duration, errorKind string) {
	if !c.config.Enabled {
		return
	}
	c.upstream.Record(provider, model, latency, errorKind)
}

// UpdateUpstreamHealth sets the backend health gauge.
func (c *Collector) UpdateUpstreamHealth(provider string, healthy bool) {
	if !c.config.Enabled {
		return
	}
	c.upstream.UpdateHealth(provider, healthy)
}

// RecordHit records a cache hit.
func (c *Collector) RecordHit(cacheName string) {
	if !c.config.Enabled {
		return
	}
	c.cache.RecordHit(cacheName)
}

// RecordMiss records a cache miss.
func (c *Collector) RecordMiss(cacheName string) {
	if !c.config.Enabled {
		return
	}
	c.cache.RecordMiss(cacheName)
}

// UpdateSize sets the number of entries in a cache.
func (c *Collector) UpdateSize(cacheName string, size int) {
	if !c.config.Enabled {
		return
	}
	c.cache.UpdateSize(cacheName, size)
}

// RecordEviction records one removed cache entry.
func (c *Collector) RecordEviction(cacheName string) {
	if !c.config.Enabled {
		return
	}
	c.cache.RecordEviction(cacheName)
}

// Registry returns the collector's registry. Other packages register
// their own metrics on it.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting up to maxCardinality
// distinct values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already tracked or there is room for it.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	_, exists := cl.current[value]
	cl.mu.RUnlock()
	if exists {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the number of tracked values.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
