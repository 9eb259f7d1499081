package limits

import (
	"sync"
	"time"

	"fud-buddy/gateway/pkg/limits/ratelimit"
)

// Limiter keeps one fixed window per client identity.
type Limiter struct {
	name    string
	config  ratelimit.Config
	windows map[string]*ratelimit.FixedWindow
	metrics *Metrics
	now     func() time.Time

	// mu guards the map. Checks hold the read lock so Sweep cannot drop a
	// window while a request is being counted in it.
	mu sync.RWMutex
}

// NewLimiter creates a named limiter. metrics may be nil.
func NewLimiter(name string, cfg ratelimit.Config, metrics *Metrics) *Limiter {
	return &Limiter{
		name:    name,
		config:  cfg,
		windows: make(map[string]*ratelimit.FixedWindow),
		metrics: metrics,
		now:     time.Now,
	}
}

// Name returns the limiter's name.
func (l *Limiter) Name() string {
	return l.name
}

// Config returns the limiter's budget.
func (l *Limiter) Config() ratelimit.Config {
	return l.config
}

// Allow counts a request for identity and reports whether it is admitted.
// It returns immediately; callers decide how to respond to a denial.
func (l *Limiter) Allow(identity string) ratelimit.CheckResult {
	if identity == "" {
		identity = UnknownIdentity
	}
	now := l.now()

	l.mu.RLock()
	fw, ok := l.windows[identity]
	if ok {
		result := fw.Check(now)
		l.mu.RUnlock()
		l.record(result)
		return result
	}
	l.mu.RUnlock()

	l.mu.Lock()
	fw, ok = l.windows[identity]
	if !ok {
		fw = ratelimit.NewFixedWindow(l.config)
		l.windows[identity] = fw
	}
	result := fw.Check(now)
	l.mu.Unlock()

	l.record(result)
	return result
}

// Sweep drops identities whose window has elapsed and returns how many were
// removed.
func (l *Limiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for identity, fw := range l.windows {
		if fw.Expired(now) {
			delete(l.windows, identity)
			removed++
		}
	}

	if l.metrics != nil {
		l.metrics.setTracked(l.name, len(l.windows))
	}
	return removed
}

// Len returns the number of tracked identities.
func (l *Limiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.windows)
}

// Reset forgets every identity.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = make(map[string]*ratelimit.FixedWindow)
}

func (l *Limiter) record(result ratelimit.CheckResult) {
	if l.metrics != nil {
		l.metrics.recordCheck(l.name, result.Allowed)
	}
}
