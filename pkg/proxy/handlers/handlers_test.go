package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fud-buddy/gateway/pkg/cache"
	"fud-buddy/gateway/pkg/chat"
	"fud-buddy/gateway/pkg/limits"
	"fud-buddy/gateway/pkg/limits/ratelimit"
	"fud-buddy/gateway/pkg/providers"
	"fud-buddy/gateway/pkg/providers/ollama"
	"fud-buddy/gateway/pkg/proxy/types"
	"fud-buddy/gateway/pkg/telemetry/metrics"
	"fud-buddy/gateway/pkg/validation"
)

// fakeOllama imitates the Ollama endpoints the gateway uses.
type fakeOllama struct {
	deltas    []string
	failAfter int // emit an error line after this many deltas; -1 never
	status    int // non-zero answers every generate call with this status
	tagsDown  atomic.Bool
	generates atomic.Int32
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/tags":
		if f.tagsDown.Load() {
			http.Error(w, `{"error":"unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"models":[{"name":"qwen2.5:14b","model":"qwen2.5:14b","size":9000000000,"details":{"family":"qwen2"}}]}`)

	case "/api/generate":
		f.generates.Add(1)
		var body struct {
			Stream *bool `json:"stream"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if f.status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			fmt.Fprint(w, `{"error":"model exploded"}`)
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		if body.Stream != nil && !*body.Stream {
			fmt.Fprintf(w, `{"model":"qwen2.5:14b","response":%q,"done":true}`+"\n", strings.Join(f.deltas, ""))
			return
		}
		flusher := w.(http.Flusher)
		for i, d := range f.deltas {
			if i == f.failAfter {
				fmt.Fprint(w, `{"error":"out of memory"}`+"\n")
				return
			}
			fmt.Fprintf(w, `{"model":"qwen2.5:14b","response":%q,"done":false}`+"\n", d)
			flusher.Flush()
		}
		fmt.Fprint(w, `{"model":"qwen2.5:14b","response":"","done":true}`+"\n")

	default:
		http.NotFound(w, r)
	}
}

type fixture struct {
	upstream *fakeOllama
	service  *chat.Service
	cache    *cache.Cache
}

func newFixture(t *testing.T, upstream *fakeOllama) *fixture {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client, err := ollama.NewClient(providers.ProviderConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	c := cache.New(time.Minute)
	return &fixture{
		upstream: upstream,
		service:  chat.NewService(client, c, ollama.DefaultModel),
		cache:    c,
	}
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatHandler_SuccessThenCached(t *testing.T) {
	f := newFixture(t, &fakeOllama{deltas: []string{"Try ", "the ramen."}, failAfter: -1})
	h := NewChatHandler(f.service, validation.NewValidator(), nil)

	first := post(h, `{"message":"Where should I eat?","chatType":"whereToGo"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("code = %d body=%s", first.Code, first.Body)
	}
	var resp types.ChatResponse
	if err := json.NewDecoder(first.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Response != "Try the ramen." || resp.Cached || resp.Model == "" {
		t.Errorf("first response = %+v", resp)
	}

	second := post(h, `{"message":"  WHERE should I eat?  ","chatType":"whereToGo"}`)
	if err := json.NewDecoder(second.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Cached || resp.Response != "Try the ramen." {
		t.Errorf("second response = %+v, want cache hit", resp)
	}
	if got := f.upstream.generates.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestChatHandler_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantField string
	}{
		{"missing message", `{}`, http.StatusBadRequest, "message"},
		{"empty body", ``, http.StatusBadRequest, "message"},
		{"malformed json", `{"message":`, http.StatusBadRequest, "body"},
		{"bad chat type", `{"message":"hi","chatType":"lunch"}`, http.StatusBadRequest, "chatType"},
		{"oversized", `{"message":"` + strings.Repeat("a", 70<<10) + `"}`, http.StatusRequestEntityTooLarge, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &fakeOllama{deltas: []string{"x"}, failAfter: -1})
			h := NewChatHandler(f.service, validation.NewValidator(), nil)

			rec := post(h, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body)
			}
			if tt.wantField != "" {
				var body types.ValidationErrorResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatal(err)
				}
				if body.Error != types.MessageInvalidInput || len(body.Details) == 0 || body.Details[0].Field != tt.wantField {
					t.Errorf("body = %+v", body)
				}
			}
			if f.upstream.generates.Load() != 0 {
				t.Error("rejected request reached the upstream")
			}
		})
	}
}

func TestChatHandler_UpstreamFailure(t *testing.T) {
	f := newFixture(t, &fakeOllama{status: http.StatusInternalServerError})
	h := NewChatHandler(f.service, validation.NewValidator(), nil)

	rec := post(h, `{"message":"what should I order?","chatType":"whatToOrder"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
	var body types.FallbackResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Fallback || body.Response != chat.Fallback(chat.TypeWhatToOrder) {
		t.Errorf("body = %+v", body)
	}
	if strings.Contains(rec.Body.String(), "model exploded") {
		t.Error("raw upstream error leaked to the client")
	}
	if f.cache.Len() != 0 {
		t.Error("failure was cached")
	}
}

func TestChatHandler_ChatLimiter(t *testing.T) {
	f := newFixture(t, &fakeOllama{deltas: []string{"ok"}, failAfter: -1})
	limiter := limits.NewLimiter(limits.LimiterChat, ratelimit.Config{MaxRequests: 1, Window: time.Minute}, nil)
	h := NewChatHandler(f.service, validation.NewValidator(), limiter)

	if rec := post(h, `{"message":"first"}`); rec.Code != http.StatusOK {
		t.Fatalf("first code = %d", rec.Code)
	}

	// An invalid request is rejected before it is counted.
	if rec := post(h, `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid code = %d", rec.Code)
	}

	rec := post(h, `{"message":"second"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second code = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}

// sseRecords splits an event stream body into its data payloads.
func sseRecords(t *testing.T, r io.Reader) []string {
	t.Helper()
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
			out = append(out, line)
		}
	}
	return out
}

func TestStreamHandler_Complete(t *testing.T) {
	f := newFixture(t, &fakeOllama{deltas: []string{"Ta", "cos", "!"}, failAfter: -1})
	rec := &streamOutcomes{}
	h := NewStreamHandler(f.service, validation.NewValidator(), nil, rec)

	resp := post(h, `{"message":"something fun","chatType":"somethingFun"}`)

	if resp.Code != http.StatusOK || resp.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("code = %d content-type = %q", resp.Code, resp.Header().Get("Content-Type"))
	}
	records := sseRecords(t, resp.Body)
	want := []string{`{"content":"Ta"}`, `{"content":"cos"}`, `{"content":"!"}`, "[DONE]"}
	if strings.Join(records, "|") != strings.Join(want, "|") {
		t.Errorf("records = %v, want %v", records, want)
	}
	if rec.last != metrics.StreamComplete {
		t.Errorf("outcome = %q", rec.last)
	}
	if got, ok := f.cache.Get(cache.Fingerprint("somethingFun", "something fun")); !ok || got != "Tacos!" {
		t.Errorf("cached = %q, %v", got, ok)
	}
}

func TestStreamHandler_FailureBeforeFirstByte(t *testing.T) {
	f := newFixture(t, &fakeOllama{status: http.StatusBadGateway})
	h := NewStreamHandler(f.service, validation.NewValidator(), nil, nil)

	resp := post(h, `{"message":"hello"}`)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want JSON fallback", ct)
	}
	var body types.FallbackResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Response != chat.Fallback(chat.TypeHome) {
		t.Errorf("fallback = %q", body.Response)
	}
}

func TestStreamHandler_MidStreamFailure(t *testing.T) {
	f := newFixture(t, &fakeOllama{deltas: []string{"Half ", "an ", "answer"}, failAfter: 2})
	rec := &streamOutcomes{}
	h := NewStreamHandler(f.service, validation.NewValidator(), nil, rec)

	resp := post(h, `{"message":"where to go","chatType":"whereToGo"}`)

	records := sseRecords(t, resp.Body)
	if len(records) != 4 {
		t.Fatalf("records = %v", records)
	}
	var last types.ContentRecord
	if err := json.Unmarshal([]byte(records[2]), &last); err != nil {
		t.Fatal(err)
	}
	if !last.Fallback || last.Content != chat.Fallback(chat.TypeWhereToGo) {
		t.Errorf("fallback record = %+v", last)
	}
	if records[3] != "[DONE]" {
		t.Errorf("stream not terminated: %v", records)
	}
	if rec.last != metrics.StreamFallback {
		t.Errorf("outcome = %q", rec.last)
	}
	if f.cache.Len() != 0 {
		t.Error("partial reply was cached")
	}
}

func TestStreamHandler_ValidationIsJSON(t *testing.T) {
	f := newFixture(t, &fakeOllama{})
	h := NewStreamHandler(f.service, validation.NewValidator(), nil, nil)

	resp := post(h, `{"message":"   "}`)
	if resp.Code != http.StatusBadRequest || resp.Header().Get("Content-Type") != "application/json" {
		t.Errorf("code = %d content-type = %q", resp.Code, resp.Header().Get("Content-Type"))
	}
}

type streamOutcomes struct{ last string }

func (s *streamOutcomes) RecordStream(outcome string) { s.last = outcome }

type healthOutcomes struct{ healthy []bool }

func (h *healthOutcomes) UpdateUpstreamHealth(_ string, healthy bool) {
	h.healthy = append(h.healthy, healthy)
}

func TestHealthHandler(t *testing.T) {
	f := newFixture(t, &fakeOllama{})
	f.cache.Set("home:pizza", "Margherita.")
	reporter := &healthOutcomes{}
	h := NewHealthHandler(f.service, reporter)

	get := func() types.HealthResponse {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		var body types.HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		return body
	}

	up := get()
	if up.Status != "ok" || up.Ollama != types.UpstreamConnected || up.CacheSize != 1 || up.Model != ollama.DefaultModel {
		t.Errorf("healthy response = %+v", up)
	}

	f.upstream.tagsDown.Store(true)
	down := get()
	if down.Ollama != types.UpstreamDisconnected || down.Status != "ok" {
		t.Errorf("unhealthy response = %+v", down)
	}

	if len(reporter.healthy) != 2 || !reporter.healthy[0] || reporter.healthy[1] {
		t.Errorf("reported = %v", reporter.healthy)
	}
}

func TestModelsHandler(t *testing.T) {
	f := newFixture(t, &fakeOllama{})
	h := NewModelsHandler(f.service)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var body struct {
		Models  []providers.ModelInfo `json:"models"`
		Default string                `json:"default"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Models) != 1 || body.Models[0].Name != "qwen2.5:14b" || body.Default != ollama.DefaultModel {
		t.Errorf("body = %+v", body)
	}

	f.upstream.tagsDown.Store(true)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
	var errBody types.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
		t.Fatal(err)
	}
	if errBody.Error != types.MessageModelsUnavailable || errBody.Message == "" {
		t.Errorf("error body = %+v", errBody)
	}
}

func TestModelsHandler_HidesUpstreamDetail(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	client, err := ollama.NewClient(providers.ProviderConfig{BaseURL: downURL, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })
	h := NewModelsHandler(chat.NewService(client, nil, ollama.DefaultModel))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", rec.Code)
	}
	host := strings.TrimPrefix(downURL, "http://")
	if body := rec.Body.String(); strings.Contains(body, host) || strings.Contains(body, "dial") {
		t.Errorf("body leaks upstream detail: %s", body)
	}
}

func TestCacheClearHandler(t *testing.T) {
	c := cache.New(time.Minute)
	c.Set("home:a", "1")
	c.Set("home:b", "2")

	rec := httptest.NewRecorder()
	NewCacheClearHandler(c).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cache/clear", nil))

	var body types.CacheClearResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "Cache cleared" || body.Size != 0 || c.Len() != 0 {
		t.Errorf("body = %+v, len = %d", body, c.Len())
	}
}
