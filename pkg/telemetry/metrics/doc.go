// Package metrics exposes the gateway's Prometheus metrics.
//
// A Collector owns its own registry and groups metrics by concern:
//
//   - HTTP: requests by route, method and status; request duration
//   - Streams: streaming chat outcomes (complete, fallback, canceled)
//   - Upstream: Ollama call latency, errors by kind, backend health
//   - Cache: hits, misses, entries and evictions
//
// The Collector satisfies the recorder interfaces of pkg/chat and
// pkg/cache, so those packages never import Prometheus. Rate limiter
// metrics are registered on Registry() by pkg/limits.
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
package metrics
