package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fud-buddy/gateway/pkg/cache"
	"fud-buddy/gateway/pkg/chat"
	"fud-buddy/gateway/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var (
	_ chat.Recorder  = (*Collector)(nil)
	_ cache.Recorder = (*Collector)(nil)
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:                true,
		Namespace:              "test",
		RequestDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func TestCollector_RecordRequest(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordRequest("/api/chat", http.MethodPost, 200, 120*time.Millisecond)
	c.RecordRequest("/api/chat", http.MethodPost, 200, 80*time.Millisecond)
	c.RecordRequest("/api/chat", http.MethodPost, 429, time.Millisecond)

	if got := testutil.ToFloat64(c.requests.requestsTotal.WithLabelValues("/api/chat", "POST", "200")); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.requests.requestsTotal.WithLabelValues("/api/chat", "POST", "429")); got != 1 {
		t.Errorf("429 count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.requests.requestDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestCollector_RouteCardinality(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	for i := 0; i < maxRoutes+10; i++ {
		c.RecordRequest("/probe/"+strings.Repeat("x", i), http.MethodGet, 404, time.Millisecond)
	}

	if got := c.routes.Count(); got != maxRoutes {
		t.Errorf("tracked routes = %d, want %d", got, maxRoutes)
	}
	if got := testutil.ToFloat64(c.requests.requestsTotal.WithLabelValues(OtherRoute, "GET", "404")); got != 10 {
		t.Errorf("overflow count = %v, want 10", got)
	}
}

func TestCollector_RecordUpstream(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordUpstream("ollama", "qwen2.5:14b", time.Second, "")
	c.RecordUpstream("ollama", "qwen2.5:14b", 60*time.Second, "timeout")
	c.RecordUpstream("ollama", "qwen2.5:14b", time.Millisecond, "status")

	if got := testutil.ToFloat64(c.upstream.requestsTotal.WithLabelValues("ollama", "qwen2.5:14b", "success")); got != 1 {
		t.Errorf("success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.upstream.requestsTotal.WithLabelValues("ollama", "qwen2.5:14b", "error")); got != 2 {
		t.Errorf("error = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.upstream.errorsTotal.WithLabelValues("ollama", "timeout")); got != 1 {
		t.Errorf("timeout errors = %v, want 1", got)
	}
}

func TestCollector_UpstreamHealth(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.UpdateUpstreamHealth("ollama", true)
	if got := testutil.ToFloat64(c.upstream.health.WithLabelValues("ollama")); got != 1 {
		t.Errorf("health = %v, want 1", got)
	}

	c.UpdateUpstreamHealth("ollama", false)
	if got := testutil.ToFloat64(c.upstream.health.WithLabelValues("ollama")); got != 0 {
		t.Errorf("health = %v, want 0", got)
	}
}

func TestCollector_CacheRecorder(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())
	rc := cache.New(time.Minute, cache.WithRecorder(c))

	rc.Set("question:pizza", "Try the margherita.")
	rc.Get("question:pizza")
	rc.Get("question:sushi")
	rc.Clear()

	if got := testutil.ToFloat64(c.cache.hitsTotal.WithLabelValues(cache.Name)); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.cache.missesTotal.WithLabelValues(cache.Name)); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.cache.entries.WithLabelValues(cache.Name)); got != 0 {
		t.Errorf("entries = %v, want 0 after clear", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	c := NewCollector(cfg, prometheus.NewRegistry())

	c.RecordRequest("/api/chat", http.MethodPost, 200, time.Second)
	c.RecordStream(StreamComplete)
	c.RecordHit(cache.Name)

	if got := testutil.CollectAndCount(c.requests.requestsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d series", got)
	}
	if got := testutil.CollectAndCount(c.requests.streamsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d stream series", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(testConfig(), nil)
	c.RecordStream(StreamFallback)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{`test_http_streams_total{outcome="fallback"} 1`, "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
