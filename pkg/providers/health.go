package providers

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// unhealthyThreshold is the number of consecutive failures that marks a
// provider unhealthy.
const unhealthyThreshold = 3

// HealthTracker records call outcomes and derives a health state. Concrete
// providers embed it.
type HealthTracker struct {
	name string

	health   ProviderHealth
	healthMu sync.RWMutex

	stopOnce           sync.Once
	stopHealthCheck    chan struct{}
	healthCheckStopped chan struct{}
	checkerStarted     bool
}

// NewHealthTracker returns a tracker that starts out healthy.
func NewHealthTracker(name string) *HealthTracker {
	now := time.Now()
	return &HealthTracker{
		name: name,
		health: ProviderHealth{
			IsHealthy:             true,
			LastCheck:             now,
			LastSuccessfulRequest: now,
		},
		stopHealthCheck:    make(chan struct{}),
		healthCheckStopped: make(chan struct{}),
	}
}

// IsHealthy returns the current health status.
func (h *HealthTracker) IsHealthy() bool {
	h.healthMu.RLock()
	defer h.healthMu.RUnlock()
	return h.health.IsHealthy
}

// GetHealth returns detailed health information.
func (h *HealthTracker) GetHealth() ProviderHealth {
	h.healthMu.RLock()
	defer h.healthMu.RUnlock()
	return h.health
}

// RecordResult updates the health state from the outcome of one call.
func (h *HealthTracker) RecordResult(err error) {
	h.healthMu.Lock()
	defer h.healthMu.Unlock()

	h.health.LastCheck = time.Now()
	h.health.TotalRequests++

	if err == nil {
		if !h.health.IsHealthy {
			slog.Info("provider marked healthy",
				"provider", h.name,
				"previous_failures", h.health.ConsecutiveFailures,
			)
		}
		h.health.IsHealthy = true
		h.health.ConsecutiveFailures = 0
		h.health.LastError = nil
		h.health.LastSuccessfulRequest = h.health.LastCheck
		return
	}

	h.health.FailedRequests++
	h.health.ConsecutiveFailures++
	h.health.LastError = err

	if h.health.ConsecutiveFailures >= unhealthyThreshold && h.health.IsHealthy {
		h.health.IsHealthy = false
		slog.Warn("provider marked unhealthy",
			"provider", h.name,
			"consecutive_failures", h.health.ConsecutiveFailures,
			"error", err,
		)
	}
}

// StartHealthChecker runs check every interval until ctx is cancelled or
// StopHealthChecker is called. While unhealthy the interval backs off
// exponentially.
func (h *HealthTracker) StartHealthChecker(ctx context.Context, interval time.Duration, check func(context.Context) error) {
	if interval <= 0 {
		return
	}
	h.checkerStarted = true
	go h.runHealthChecker(ctx, interval, check)
}

// StopHealthChecker stops a running health checker and waits for it to exit.
func (h *HealthTracker) StopHealthChecker() {
	h.stopOnce.Do(func() {
		close(h.stopHealthCheck)
		if h.checkerStarted {
			<-h.healthCheckStopped
		}
	})
}

func (h *HealthTracker) runHealthChecker(ctx context.Context, interval time.Duration, check func(context.Context) error) {
	defer close(h.healthCheckStopped)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("health checker started", "provider", h.name, "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.Debug("health checker stopped (context cancelled)", "provider", h.name)
			return

		case <-h.stopHealthCheck:
			slog.Debug("health checker stopped (provider closed)", "provider", h.name)
			return

		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := check(checkCtx)
			cancel()

			if err != nil {
				slog.Error("health check failed", "provider", h.name, "error", err)
			}

			if !h.IsHealthy() {
				backoff := calculateBackoff(h.GetHealth().ConsecutiveFailures, interval)
				ticker.Reset(backoff)
				slog.Debug("health check backoff", "provider", h.name, "next_check_in", backoff)
			} else {
				ticker.Reset(interval)
			}
		}
	}
}

// calculateBackoff returns base * 2^failures, capped at 10x base and 5 minutes.
func calculateBackoff(consecutiveFailures int, baseInterval time.Duration) time.Duration {
	if consecutiveFailures <= 0 {
		return baseInterval
	}

	multiplier := 10
	if consecutiveFailures < 4 {
		multiplier = 1 << uint(consecutiveFailures)
	}

	backoff := baseInterval * time.Duration(multiplier)
	if backoff > 5*time.Minute {
		backoff = 5 * time.Minute
	}
	return backoff
}
