package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLiveness(t *testing.T) {
	c := New(0)
	c.Register("broken", func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	c.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, liveness must not run component checks", rec.Code)
	}
	var body Status
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != StatusOK {
		t.Errorf("body status = %q", body.Status)
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantCode   int
	}{
		{
			name:       "no checks",
			wantStatus: StatusReady,
			wantCode:   http.StatusOK,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"ollama": func(context.Context) error { return nil },
				"config": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
			wantCode:   http.StatusOK,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"ollama": func(context.Context) error { return errors.New("connection refused") },
				"config": func(context.Context) error { return nil },
			},
			wantStatus: StatusDegraded,
			wantCode:   http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			for name, fn := range tt.checks {
				c.Register(name, fn)
			}

			rec := httptest.NewRecorder()
			c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			var body Status
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", body.Status, tt.wantStatus)
			}
			if len(body.Checks) != len(tt.checks) {
				t.Errorf("checks = %d, want %d", len(body.Checks), len(tt.checks))
			}
		})
	}
}

func TestReadiness_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	block := make(chan struct{})
	defer close(block)
	c.Register("stuck", func(context.Context) error {
		<-block
		return nil
	})

	start := time.Now()
	status := c.Readiness(context.Background())

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("readiness took %v, timeout not applied", elapsed)
	}
	if got := status.Checks["stuck"]; got.Status != StatusUnhealthy || got.Message != ErrCheckTimeout.Error() {
		t.Errorf("result = %+v", got)
	}
}

func TestRegister_ReplacesAndSorts(t *testing.T) {
	c := New(0)
	c.Register("ollama", func(context.Context) error { return errors.New("x") })
	c.Register("config", func(context.Context) error { return nil })
	c.Register("ollama", func(context.Context) error { return nil })

	names := c.Names()
	if len(names) != 2 || names[0] != "config" || names[1] != "ollama" {
		t.Errorf("names = %v", names)
	}
	if !c.Readiness(context.Background()).Ready() {
		t.Error("replaced check should be healthy")
	}
}

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux, New(0), "1.2.3", "abc123", "2026-01-01")

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodHead, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/version", http.StatusOK},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Version != "1.2.3" || info.GoVersion == "" {
		t.Errorf("version info = %+v", info)
	}
}
