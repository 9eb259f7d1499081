package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fud-buddy/gateway/pkg/chat"
	"fud-buddy/gateway/pkg/proxy"
	"fud-buddy/gateway/pkg/proxy/types"
)

// DefaultHealthTimeout bounds the upstream probe made by /api/health.
const DefaultHealthTimeout = 5 * time.Second

// HealthReporter receives the outcome of each upstream probe.
type HealthReporter interface {
	UpdateUpstreamHealth(provider string, healthy bool)
}

// HealthHandler serves GET /api/health. It always answers 200; the
// upstream's reachability is reported in the "ollama" field.
type HealthHandler struct {
	service  *chat.Service
	timeout  time.Duration
	reporter HealthReporter
	now      func() time.Time
}

// NewHealthHandler creates the health handler. reporter may be nil.
func NewHealthHandler(service *chat.Service, reporter HealthReporter) *HealthHandler {
	return &HealthHandler{
		service:  service,
		timeout:  DefaultHealthTimeout,
		reporter: reporter,
		now:      time.Now,
	}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	provider := h.service.Provider()
	upstream := types.UpstreamConnected
	err := provider.HealthCheck(ctx)
	if err != nil {
		upstream = types.UpstreamDisconnected
		slog.WarnContext(r.Context(), "upstream health check failed", "provider", provider.GetName(), "error", err)
	}
	if h.reporter != nil {
		h.reporter.UpdateUpstreamHealth(provider.GetName(), err == nil)
	}

	size := 0
	if c := h.service.Cache(); c != nil {
		size = c.Len()
	}

	_ = proxy.WriteJSONResponse(w, http.StatusOK, types.HealthResponse{
		Status:    "ok",
		Timestamp: types.Timestamp(h.now()),
		Ollama:    upstream,
		CacheSize: size,
		Model:     h.service.Model(),
	})
}
