package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"fud-buddy/gateway/pkg/cache"
	"fud-buddy/gateway/pkg/chat"
	"fud-buddy/gateway/pkg/config"
	"fud-buddy/gateway/pkg/limits"
	"fud-buddy/gateway/pkg/limits/ratelimit"
	"fud-buddy/gateway/pkg/providers"
	"fud-buddy/gateway/pkg/providers/ollama"
	"fud-buddy/gateway/pkg/telemetry/health"
	"fud-buddy/gateway/pkg/telemetry/logging"
	"fud-buddy/gateway/pkg/telemetry/metrics"
)

// ErrAlreadyRunning is returned by Start on a server that is serving.
var ErrAlreadyRunning = errors.New("server is already running")

// BuildInfo identifies the running binary on /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Server is the FUD Buddy HTTP gateway.
type Server struct {
	config     *config.Config
	configPath string
	build      BuildInfo
	logger     *logging.Logger

	provider providers.Provider
	service  *chat.Service
	cache    *cache.Cache
	limits   *limits.Manager
	metrics  *metrics.Collector
	checker  *health.Checker
	sweepers []*cache.Sweeper

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Option configures a Server.
type Option func(*Server)

// WithProvider replaces the Ollama client built from the configuration.
func WithProvider(p providers.Provider) Option {
	return func(s *Server) { s.provider = p }
}

// WithLogger lets configuration reloads change the level of l.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithBuildInfo sets what /version reports.
func WithBuildInfo(b BuildInfo) Option {
	return func(s *Server) { s.build = b }
}

// WithConfigPath watches path while the server runs and applies reloaded
// settings.
func WithConfigPath(path string) Option {
	return func(s *Server) { s.configPath = path }
}

// New assembles the gateway's services from cfg.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: nil config")
	}

	s := &Server{config: cfg}
	for _, opt := range opts {
		opt(s)
	}

	s.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	s.cache = cache.New(cfg.Cache.TTL, cache.WithRecorder(s.metrics))
	s.limits = limits.NewManager(limits.Config{
		Global: windowConfig(cfg.Limits.Global),
		Chat:   windowConfig(cfg.Limits.Chat),
	}, s.metrics.Registry())

	if s.provider == nil {
		client, err := ollama.NewClient(providers.ProviderConfig{
			Name:                "ollama",
			BaseURL:             cfg.Ollama.URL,
			Model:               cfg.Ollama.Model,
			Timeout:             cfg.Ollama.Timeout,
			HealthCheckInterval: cfg.Ollama.HealthCheckInterval,
			MaxIdleConns:        cfg.Ollama.MaxIdleConns,
			IdleConnTimeout:     cfg.Ollama.IdleConnTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		s.provider = client
	}

	s.service = chat.NewService(s.provider, s.cache, cfg.Ollama.Model, chat.WithRecorder(s.metrics))

	s.checker = health.New(health.DefaultCheckTimeout)
	s.checker.Register("ollama", s.provider.HealthCheck)
	s.checker.Register("config", func(context.Context) error {
		return config.Validate(s.config)
	})

	cacheSweeper := cache.NewSweeper(cfg.Cache.SweepInterval)
	cacheSweeper.Register(cache.Name, s.cache.Sweep)
	limitSweeper := cache.NewSweeper(cfg.Limits.SweepInterval)
	limitSweeper.Register("rate_limits", s.limits.Sweep)
	s.sweepers = []*cache.Sweeper{cacheSweeper, limitSweeper}

	return s, nil
}

func windowConfig(w config.WindowConfig) ratelimit.Config {
	return ratelimit.Config{MaxRequests: w.MaxRequests, Window: w.Window}
}

// Start serves until ctx is canceled or the listener fails, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.isRunning = true
	s.mu.Unlock()

	srvCfg := s.config.Server
	tlsCfg := s.config.Security.TLS

	s.httpServer = &http.Server{
		Addr:           srvCfg.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    srvCfg.ReadTimeout,
		WriteTimeout:   srvCfg.WriteTimeout,
		IdleTimeout:    srvCfg.IdleTimeout,
		MaxHeaderBytes: srvCfg.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}

	if tlsCfg.Enabled {
		tc, err := s.configureTLS()
		if err != nil {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.httpServer.TLSConfig = tc
	}

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	s.startBackground(bgCtx)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway",
			"address", srvCfg.ListenAddress,
			"tls_enabled", tlsCfg.Enabled,
			"model", s.service.Model(),
			"environment", s.config.Environment,
		)

		var err error
		if tlsCfg.Enabled {
			err = s.httpServer.ListenAndServeTLS(tlsCfg.CertFile, tlsCfg.KeyFile)
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	}
}

// startBackground launches the sweepers, the upstream health probe and the
// configuration watcher. All of them stop with ctx.
func (s *Server) startBackground(ctx context.Context) {
	for _, sw := range s.sweepers {
		if err := sw.Start(ctx); err != nil {
			slog.Warn("sweeper not started", "error", err)
		}
	}

	if hc, ok := s.provider.(interface{ StartHealthChecker(context.Context) }); ok {
		hc.StartHealthChecker(ctx)
	}

	if s.configPath != "" {
		w := config.NewWatcher(s.configPath, s.applyReload)
		go func() {
			if err := w.Watch(ctx); err != nil {
				slog.Error("config watcher stopped", "path", s.configPath, "error", err)
			}
		}()
	}
}

// applyReload applies the settings that can change without a restart: the
// log level and the upstream timeout.
func (s *Server) applyReload(cfg *config.Config) {
	if s.logger != nil {
		if err := s.logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
			slog.Warn("ignoring reloaded log level", "level", cfg.Telemetry.Logging.Level, "error", err)
		}
	}
	if t, ok := s.provider.(interface{ SetTimeout(time.Duration) }); ok {
		t.SetTimeout(cfg.Ollama.Timeout)
	}
	slog.Info("configuration reloaded",
		"log_level", cfg.Telemetry.Logging.Level,
		"ollama_timeout", cfg.Ollama.Timeout,
	)
}

// Shutdown gracefully stops the server and its background work.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		timeout := s.config.Server.ShutdownTimeout
		slog.Info("initiating graceful shutdown", "timeout", timeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		for _, sw := range s.sweepers {
			sw.Stop()
		}
		if err := s.provider.Close(); err != nil {
			slog.Warn("error closing provider", "error", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("gateway stopped")
	})

	return shutdownErr
}

// configureTLS returns a TLS 1.3 configuration after checking that the
// certificate and key exist.
func (s *Server) configureTLS() (*tls.Config, error) {
	tlsCfg := s.config.Security.TLS

	if tlsCfg.CertFile == "" {
		return nil, fmt.Errorf("TLS cert file not specified")
	}
	if tlsCfg.KeyFile == "" {
		return nil, fmt.Errorf("TLS key file not specified")
	}
	if _, err := os.Stat(tlsCfg.CertFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("TLS cert file not found: %s", tlsCfg.CertFile)
	}
	if _, err := os.Stat(tlsCfg.KeyFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("TLS key file not found: %s", tlsCfg.KeyFile)
	}

	return &tls.Config{
		MinVersion:       tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
	}, nil
}

// IsRunning reports whether Start is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Cache returns the response cache.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Limits returns the rate limiters.
func (s *Server) Limits() *limits.Manager {
	return s.limits
}

// Metrics returns the collector backing /metrics.
func (s *Server) Metrics() *metrics.Collector {
	return s.metrics
}
