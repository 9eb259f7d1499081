package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// FixedWindow counts requests in consecutive, non-overlapping windows.
type FixedWindow struct {
	limit  int64
	window time.Duration

	count int64
	start time.Time

	mu sync.Mutex
}

// NewFixedWindow creates a counter admitting cfg.MaxRequests per cfg.Window.
func NewFixedWindow(cfg Config) *FixedWindow {
	return &FixedWindow{
		limit:  cfg.MaxRequests,
		window: cfg.Window,
	}
}

// Check records a request arriving at now and reports whether it is admitted.
// Rejected requests are not counted. Check never blocks on anything but the
// window's own mutex.
func (fw *FixedWindow) Check(now time.Time) CheckResult {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.rollLocked(now)
	reset := fw.start.Add(fw.window)

	if fw.count >= fw.limit {
		return CheckResult{
			Allowed:    false,
			Reason:     fmt.Sprintf("rate limit exceeded: %d requests per %s", fw.limit, fw.window),
			Limit:      fw.limit,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: reset.Sub(now),
		}
	}

	fw.count++
	return CheckResult{
		Allowed:   true,
		Limit:     fw.limit,
		Remaining: fw.limit - fw.count,
		Reset:     reset,
	}
}

// Expired reports whether the current window has fully elapsed at now.
// An expired window behaves exactly like a fresh one.
func (fw *FixedWindow) Expired(now time.Time) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	return fw.start.IsZero() || !now.Before(fw.start.Add(fw.window))
}

// Count returns the number of admitted requests in the window active at now.
func (fw *FixedWindow) Count(now time.Time) int64 {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.rollLocked(now)
	return fw.count
}

// Reset clears the counter.
func (fw *FixedWindow) Reset() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.count = 0
	fw.start = time.Time{}
}

// rollLocked starts a new window at now once the previous one has elapsed.
func (fw *FixedWindow) rollLocked(now time.Time) {
	if fw.start.IsZero() || !now.Before(fw.start.Add(fw.window)) {
		fw.start = now
		fw.count = 0
	}
}
