package cache

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a response stays valid.
	DefaultTTL = 10 * time.Minute

	// DefaultSweepInterval is how often expired entries are removed.
	DefaultSweepInterval = 15 * time.Minute

	// Name labels this cache in metrics.
	Name = "responses"
)

// Recorder receives cache activity. telemetry/metrics.CacheMetrics
// satisfies it.
type Recorder interface {
	RecordHit(cacheName string)
	RecordMiss(cacheName string)
	UpdateSize(cacheName string, size int)
	RecordEviction(cacheName string)
}

// Fingerprint derives the cache key for a sanitized message under chatType.
func Fingerprint(chatType, message string) string {
	return chatType + ":" + strings.ToLower(strings.TrimSpace(message))
}

// entry is immutable once stored; Set replaces it rather than mutating it.
type entry struct {
	text      string
	createdAt time.Time
}

// Cache is a TTL map of fingerprints to response text.
type Cache struct {
	entries  map[string]entry
	ttl      time.Duration
	recorder Recorder
	now      func() time.Time

	mu sync.RWMutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithRecorder reports hits, misses and size to r.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) {
		c.recorder = r
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache whose entries expire after ttl. A non-positive ttl
// uses DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the text stored under key if it is younger than the TTL.
// Expired entries are reported absent even if no sweep has removed them.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.expired(e, c.now()) {
		c.recordMiss()
		return "", false
	}

	c.recordHit()
	return e.text, true
}

// Set stores text under key with the current time as its creation time.
func (c *Cache) Set(key, text string) {
	c.mu.Lock()
	c.entries[key] = entry{text: text, createdAt: c.now()}
	size := len(c.entries)
	c.mu.Unlock()

	c.updateSize(size)
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	size := len(c.entries)
	c.mu.Unlock()

	c.updateSize(size)
}

// Len returns the number of stored entries, including expired ones that
// have not been swept yet.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes every entry and returns how many were removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	c.mu.Unlock()

	c.updateSize(0)
	return n
}

// Sweep removes expired entries and returns how many were removed. Live
// entries are left untouched.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	removed := 0
	for key, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if c.recorder != nil {
		for i := 0; i < removed; i++ {
			c.recorder.RecordEviction(Name)
		}
	}
	c.updateSize(size)
	return removed
}

func (c *Cache) expired(e entry, now time.Time) bool {
	return now.Sub(e.createdAt) >= c.ttl
}

func (c *Cache) recordHit() {
	if c.recorder != nil {
		c.recorder.RecordHit(Name)
	}
}

func (c *Cache) recordMiss() {
	if c.recorder != nil {
		c.recorder.RecordMiss(Name)
	}
}

func (c *Cache) updateSize(n int) {
	if c.recorder != nil {
		c.recorder.UpdateSize(Name, n)
	}
}
