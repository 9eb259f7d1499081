package config

import "time"

// Config is the root configuration structure for the FUD Buddy gateway.
type Config struct {
	// Server contains HTTP listener configuration including timeouts and
	// whether forwarded client addresses are trusted.
	Server ServerConfig `yaml:"server"`

	// Ollama configures the upstream model backend.
	Ollama OllamaConfig `yaml:"ollama"`

	// Limits configures the global and chat rate limiters.
	Limits LimitsConfig `yaml:"limits"`

	// Cache configures the response cache.
	Cache CacheConfig `yaml:"cache"`

	// Security contains CORS, TLS and request screening settings.
	Security SecurityConfig `yaml:"security"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Environment is "development" or "production". Production sanitizes
	// internal error messages before they reach clients.
	// Default: "development"
	Environment string `yaml:"environment"`
}

// IsProduction reports whether the gateway runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:3001", "0.0.0.0:3001").
	// Default: "127.0.0.1:3001"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Streaming responses are bounded by this value too, so it
	// should exceed the upstream timeout.
	// Default: 90s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout is the deadline attached to each request context.
	// Zero disables it.
	// Default: 75s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// TrustProxy makes client identity derive from X-Forwarded-For and
	// X-Real-IP before the peer address.
	// Default: true
	TrustProxy bool `yaml:"trust_proxy"`
}

// OllamaConfig configures the upstream Ollama backend.
type OllamaConfig struct {
	// URL is the Ollama root URL.
	// Default: "http://localhost:11434"
	URL string `yaml:"url"`

	// Model is the model used for every chat call.
	// Default: "qwen2.5:14b"
	Model string `yaml:"model"`

	// Timeout bounds every upstream call. Reloadable.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// HealthCheckInterval is the period of background health checks.
	// Default: 30s
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`

	// MaxIdleConns is the upstream connection pool size.
	// Default: 10
	MaxIdleConns int `yaml:"max_idle_conns"`

	// IdleConnTimeout is how long idle upstream connections are kept.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// LimitsConfig configures both fixed-window limiters.
type LimitsConfig struct {
	// Global applies to every API route.
	// Default: 30 requests per 60s
	Global WindowConfig `yaml:"global"`

	// Chat applies to the chat and chat stream routes.
	// Default: 10 requests per 60s
	Chat WindowConfig `yaml:"chat"`

	// SweepInterval is how often expired windows are discarded.
	// Default: 5m
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// WindowConfig is one limiter's window and capacity.
type WindowConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxRequests int64         `yaml:"max_requests"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	// TTL is how long a cached reply stays fresh.
	// Default: 10m
	TTL time.Duration `yaml:"ttl"`

	// SweepInterval is how often stale entries are removed.
	// Default: 15m
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// SecurityConfig contains request screening and transport security settings.
type SecurityConfig struct {
	// CORS contains the cross-origin allowlist.
	CORS CORSConfig `yaml:"cors"`

	// TLS enables HTTPS on the listener.
	TLS TLSConfig `yaml:"tls"`

	// HSTS adds Strict-Transport-Security to every response.
	// Default: false
	HSTS bool `yaml:"hsts"`

	// SlowRequestThreshold is the duration above which a request is logged
	// at warn level.
	// Default: 5s
	SlowRequestThreshold time.Duration `yaml:"slow_request_threshold"`

	// SuspiciousAgents lists case-insensitive User-Agent substrings that are
	// logged as suspicious. Requests are still served.
	// Default: sqlmap, nmap, masscan, burp, nikto, dirb, gobuster
	SuspiciousAgents []string `yaml:"suspicious_agents"`
}

// CORSConfig contains Cross-Origin Resource Sharing configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is the exact-match origin allowlist.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is sent on preflight responses.
	// Default: GET, POST, OPTIONS
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is sent on preflight responses.
	// Default: Content-Type, Authorization, X-Request-ID
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders lists headers readable by browser clients.
	ExposedHeaders []string `yaml:"exposed_headers"`

	// AllowCredentials sets Access-Control-Allow-Credentials.
	// Default: true
	AllowCredentials bool `yaml:"allow_credentials"`

	// MaxAge is the preflight cache duration in seconds.
	// Default: 600
	MaxAge int `yaml:"max_age"`
}

// TLSConfig enables HTTPS on the listener.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error. Reloadable.
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: json, text or console.
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes source file and line in log records.
	AddSource bool `yaml:"add_source"`

	// RedactPII masks emails, card numbers, tokens and similar values in
	// log attributes.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom PII redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every gateway metric.
	// Default: "fudbuddy"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets are histogram buckets in seconds.
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}
