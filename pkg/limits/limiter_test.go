package limits

import (
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"fud-buddy/gateway/pkg/limits/ratelimit"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(max int64, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter("test", ratelimit.Config{MaxRequests: max, Window: window}, nil)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_NPlusOneDenied(t *testing.T) {
	l, clock := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		if !l.Allow("10.0.0.1").Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		clock.Advance(time.Second)
	}

	result := l.Allow("10.0.0.1")
	if result.Allowed {
		t.Fatal("11th request should be denied")
	}
	if result.RetryAfter != 50*time.Second {
		t.Errorf("expected retry after of 50s, got %v", result.RetryAfter)
	}

	clock.Advance(50 * time.Second)
	if !l.Allow("10.0.0.1").Allowed {
		t.Error("request in the following window should be allowed")
	}
}

func TestLimiter_IdentitiesIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("a").Allowed {
		t.Fatal("first request from a should be allowed")
	}
	if l.Allow("a").Allowed {
		t.Fatal("second request from a should be denied")
	}
	if !l.Allow("b").Allowed {
		t.Error("identity b must not share a's bucket")
	}
}

func TestLimiter_EmptyIdentitySharesBucket(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	l.Allow("")
	if l.Allow("").Allowed {
		t.Error("requests without identity should share one bucket")
	}
	if l.Allow(UnknownIdentity).Allowed {
		t.Error("empty identity should map to the unknown bucket")
	}
}

func TestLimiter_ConcurrentSameIdentity(t *testing.T) {
	l, _ := newTestLimiter(500, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 30; j++ {
				if l.Allow("shared").Allowed {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if allowed != 500 {
		t.Errorf("expected exactly 500 admitted out of 600, got %d", allowed)
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(5, time.Minute)

	l.Allow("old")
	clock.Advance(30 * time.Second)
	l.Allow("fresh")
	clock.Advance(31 * time.Second)

	if removed := l.Sweep(); removed != 1 {
		t.Errorf("expected 1 expired identity removed, got %d", removed)
	}
	if l.Len() != 1 {
		t.Errorf("expected 1 tracked identity, got %d", l.Len())
	}
}

func TestManager_MetricsAndNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(Config{
		Global: ratelimit.Config{MaxRequests: 2, Window: time.Minute},
		Chat:   ratelimit.Config{MaxRequests: 1, Window: time.Minute},
	}, reg)

	if m.Global().Name() != LimiterGlobal || m.Chat().Name() != LimiterChat {
		t.Fatalf("unexpected limiter names %q, %q", m.Global().Name(), m.Chat().Name())
	}

	m.Chat().Allow("x")
	m.Chat().Allow("x")

	if got := testutil.ToFloat64(m.metrics.denied.WithLabelValues(LimiterChat)); got != 1 {
		t.Errorf("expected 1 denied chat request, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.checks.WithLabelValues(LimiterChat, "allowed")); got != 1 {
		t.Errorf("expected 1 allowed chat check, got %v", got)
	}
	if !m.Global().Allow("x").Allowed {
		t.Error("global limiter must be independent of the chat limiter")
	}
}

func TestLimitError(t *testing.T) {
	err := error(&LimitError{Limiter: LimiterChat, Identity: "1.2.3.4", RetryAfter: 3 * time.Second})

	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Error("LimitError should unwrap to ErrRateLimitExceeded")
	}
	var le *LimitError
	if !errors.As(err, &le) || le.Limiter != LimiterChat {
		t.Error("expected errors.As to recover the LimitError")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 1},
		{200 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{59 * time.Second, 59},
	}
	for _, tt := range tests {
		if got := RetryAfterSeconds(tt.in); got != tt.want {
			t.Errorf("RetryAfterSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClientIdentity(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trust      bool
		want       string
	}{
		{"remote addr", "192.168.1.10:5000", nil, true, "192.168.1.10"},
		{"forwarded first entry", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, true, "203.0.113.7"},
		{"real ip", "10.0.0.1:1", map[string]string{"X-Real-IP": "198.51.100.2"}, true, "198.51.100.2"},
		{"untrusted headers ignored", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.7"}, false, "10.0.0.1"},
		{"no port", "10.0.0.9", nil, false, "10.0.0.9"},
		{"nothing", "", nil, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/health", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIdentity(r, tt.trust); got != tt.want {
				t.Errorf("ClientIdentity() = %q, want %q", got, tt.want)
			}
		})
	}
}
