package server

import (
	"log/slog"
	"net/http"
	"strings"

	"fud-buddy/gateway/pkg/proxy"
	"fud-buddy/gateway/pkg/proxy/handlers"
	"fud-buddy/gateway/pkg/proxy/middleware"
	"fud-buddy/gateway/pkg/proxy/types"
	"fud-buddy/gateway/pkg/telemetry/health"
	"fud-buddy/gateway/pkg/validation"
)

// Handler returns the gateway's routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	validator := validation.NewValidator()
	chatLimiter := s.limits.Chat()

	api := []struct {
		method  string
		path    string
		handler http.Handler
	}{
		{http.MethodPost, "/api/chat", handlers.NewChatHandler(s.service, validator, chatLimiter)},
		{http.MethodPost, "/api/chat/stream", handlers.NewStreamHandler(s.service, validator, chatLimiter, s.metrics)},
		{http.MethodGet, "/api/health", handlers.NewHealthHandler(s.service, s.metrics)},
		{http.MethodGet, "/api/models", handlers.NewModelsHandler(s.service)},
		{http.MethodPost, "/api/cache/clear", handlers.NewCacheClearHandler(s.cache)},
	}

	global := middleware.RateLimit(s.limits.Global())
	for _, route := range api {
		mux.Handle(route.method+" "+route.path, global(route.handler))
		mux.Handle(route.path, global(methodNotAllowed(route.method)))
	}

	health.Register(mux, s.checker, s.build.Version, s.build.Commit, s.build.BuildTime)

	if m := s.config.Telemetry.Metrics; m.Enabled {
		mux.Handle("GET "+m.Path, s.metrics.Handler())
	}

	mux.HandleFunc("/", notFound)

	sec := s.config.Security
	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.ClientIdentity(s.config.Server.TrustProxy),
		middleware.Logging(sec.SlowRequestThreshold),
		middleware.Metrics(s.metrics),
		middleware.Recovery(s.config.IsProduction()),
		middleware.SecurityHeaders(sec.HSTS),
		middleware.SuspiciousAgents(sec.SuspiciousAgents),
		middleware.CORS(sec.CORS),
		middleware.Timeout(s.config.Server.RequestTimeout),
	)
}

func methodNotAllowed(allowed ...string) http.Handler {
	allow := strings.Join(allowed, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		_ = proxy.WriteError(w, types.NewErrorResponse(http.StatusMethodNotAllowed, types.MessageMethodNotAllowed))
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	slog.DebugContext(r.Context(), "no route", "method", r.Method, "path", r.URL.Path)
	_ = proxy.WriteError(w, types.NewErrorResponse(http.StatusNotFound, types.MessageNotFound))
}
