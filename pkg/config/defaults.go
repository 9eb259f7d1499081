package config

import "time"

// Environment names.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// Default configuration values.
const (
	DefaultListenAddress   = "127.0.0.1:3001"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 90 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 75 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
	DefaultTrustProxy      = true

	DefaultOllamaURL           = "http://localhost:11434"
	DefaultOllamaModel         = "qwen2.5:14b"
	DefaultOllamaTimeout       = 60 * time.Second
	DefaultHealthCheckInterval = 30 * time.Second
	DefaultMaxIdleConns        = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	DefaultGlobalWindow      = 60 * time.Second
	DefaultGlobalMaxRequests = 30
	DefaultChatWindow        = 60 * time.Second
	DefaultChatMaxRequests   = 10
	DefaultLimitsSweep       = 5 * time.Minute

	DefaultCacheTTL           = 10 * time.Minute
	DefaultCacheSweepInterval = 15 * time.Minute

	DefaultCORSEnabled          = true
	DefaultCORSAllowCredentials = true
	DefaultCORSMaxAge           = 600
	DefaultSlowRequestThreshold = 5 * time.Second

	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultRedactPII        = true
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "fudbuddy"

	DefaultEnvironment = EnvironmentDevelopment
)

// DefaultAllowedOrigins is the CORS allowlist used when none is configured.
var DefaultAllowedOrigins = []string{
	"http://localhost:8080",
	"http://localhost:3000",
	"https://fud-buddy.com",
	"https://app.fud-buddy.com",
}

// DefaultSuspiciousAgents are User-Agent fragments of common scanners.
var DefaultSuspiciousAgents = []string{
	"sqlmap", "nmap", "masscan", "burp", "nikto", "dirb", "gobuster",
}

// DefaultRequestDurationBuckets covers fast cache hits through slow
// upstream generations.
var DefaultRequestDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60}

// DefaultConfig returns a configuration with every default applied,
// including the boolean settings that default to true. LoadConfig decodes
// the file on top of it, so keys absent from the file keep these values.
func DefaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{TrustProxy: DefaultTrustProxy},
		Security: SecurityConfig{
			CORS: CORSConfig{
				Enabled:          DefaultCORSEnabled,
				AllowCredentials: DefaultCORSAllowCredentials,
			},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactPII: DefaultRedactPII},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Booleans are
// left untouched since false is a meaningful setting; see DefaultConfig.
func ApplyDefaults(cfg *Config) {
	s := &cfg.Server
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = DefaultRequestTimeout
	}
	if s.MaxHeaderBytes == 0 {
		s.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	o := &cfg.Ollama
	if o.URL == "" {
		o.URL = DefaultOllamaURL
	}
	if o.Model == "" {
		o.Model = DefaultOllamaModel
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultOllamaTimeout
	}
	if o.HealthCheckInterval == 0 {
		o.HealthCheckInterval = DefaultHealthCheckInterval
	}
	if o.MaxIdleConns == 0 {
		o.MaxIdleConns = DefaultMaxIdleConns
	}
	if o.IdleConnTimeout == 0 {
		o.IdleConnTimeout = DefaultIdleConnTimeout
	}

	applyWindowDefaults(&cfg.Limits.Global, DefaultGlobalWindow, DefaultGlobalMaxRequests)
	applyWindowDefaults(&cfg.Limits.Chat, DefaultChatWindow, DefaultChatMaxRequests)
	if cfg.Limits.SweepInterval == 0 {
		cfg.Limits.SweepInterval = DefaultLimitsSweep
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.SweepInterval == 0 {
		cfg.Cache.SweepInterval = DefaultCacheSweepInterval
	}

	applySecurityDefaults(&cfg.Security)

	l := &cfg.Telemetry.Logging
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
	if l.Format == "" {
		l.Format = DefaultLogFormat
	}

	m := &cfg.Telemetry.Metrics
	if m.Path == "" {
		m.Path = DefaultMetricsPath
	}
	if m.Namespace == "" {
		m.Namespace = DefaultMetricsNamespace
	}
	if len(m.RequestDurationBuckets) == 0 {
		m.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}

	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
}

func applyWindowDefaults(w *WindowConfig, window time.Duration, limit int64) {
	if w.Window == 0 {
		w.Window = window
	}
	if w.MaxRequests == 0 {
		w.MaxRequests = limit
	}
}

func applySecurityDefaults(sec *SecurityConfig) {
	cors := &sec.CORS
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}

	if sec.SlowRequestThreshold == 0 {
		sec.SlowRequestThreshold = DefaultSlowRequestThreshold
	}
	if len(sec.SuspiciousAgents) == 0 {
		sec.SuspiciousAgents = append([]string(nil), DefaultSuspiciousAgents...)
	}
}
