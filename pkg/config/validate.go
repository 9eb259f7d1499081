package config

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate validates the entire configuration. All field errors are
// collected and returned together as a ValidationError.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateOllama(&cfg.Ollama)...)
	errs = append(errs, validateLimits(&cfg.Limits)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateSecurity(&cfg.Security)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	switch cfg.Environment {
	case EnvironmentDevelopment, EnvironmentProduction:
	default:
		errs = append(errs, FieldError{
			Field:   "environment",
			Message: fmt.Sprintf("must be %q or %q, got %q", EnvironmentDevelopment, EnvironmentProduction, cfg.Environment),
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "must not be empty"})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: fmt.Sprintf("invalid host:port: %v", err)})
	}

	errs = append(errs, positive("server.read_timeout", cfg.ReadTimeout)...)
	errs = append(errs, positive("server.write_timeout", cfg.WriteTimeout)...)
	errs = append(errs, positive("server.idle_timeout", cfg.IdleTimeout)...)
	errs = append(errs, positive("server.shutdown_timeout", cfg.ShutdownTimeout)...)

	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.request_timeout", Message: "must not be negative"})
	}
	if cfg.MaxHeaderBytes <= 0 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "must be positive"})
	}

	return errs
}

func validateOllama(cfg *OllamaConfig) []FieldError {
	var errs []FieldError

	if cfg.URL == "" {
		errs = append(errs, FieldError{Field: "ollama.url", Message: "must not be empty"})
	} else if u, err := url.Parse(cfg.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{Field: "ollama.url", Message: fmt.Sprintf("invalid URL %q", cfg.URL)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, FieldError{Field: "ollama.url", Message: "scheme must be http or https"})
	}

	if strings.TrimSpace(cfg.Model) == "" {
		errs = append(errs, FieldError{Field: "ollama.model", Message: "must not be empty"})
	}

	errs = append(errs, positive("ollama.timeout", cfg.Timeout)...)

	if cfg.HealthCheckInterval < 0 {
		errs = append(errs, FieldError{Field: "ollama.health_check_interval", Message: "must not be negative"})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{Field: "ollama.max_idle_conns", Message: "must not be negative"})
	}

	return errs
}

func validateLimits(cfg *LimitsConfig) []FieldError {
	var errs []FieldError

	errs = append(errs, validateWindow("limits.global", cfg.Global)...)
	errs = append(errs, validateWindow("limits.chat", cfg.Chat)...)
	errs = append(errs, positive("limits.sweep_interval", cfg.SweepInterval)...)

	return errs
}

func validateWindow(prefix string, w WindowConfig) []FieldError {
	var errs []FieldError

	errs = append(errs, positive(prefix+".window", w.Window)...)
	if w.MaxRequests <= 0 {
		errs = append(errs, FieldError{Field: prefix + ".max_requests", Message: "must be positive"})
	}

	return errs
}

func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError

	errs = append(errs, positive("cache.ttl", cfg.TTL)...)
	errs = append(errs, positive("cache.sweep_interval", cfg.SweepInterval)...)

	return errs
}

func validateSecurity(cfg *SecurityConfig) []FieldError {
	var errs []FieldError

	for i, origin := range cfg.CORS.AllowedOrigins {
		if origin == "*" {
			if cfg.CORS.AllowCredentials {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("security.cors.allowed_origins[%d]", i),
					Message: "wildcard origin cannot be combined with allow_credentials",
				})
			}
			continue
		}
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("security.cors.allowed_origins[%d]", i),
				Message: fmt.Sprintf("invalid origin %q", origin),
			})
		}
	}

	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{Field: "security.cors.max_age", Message: "must not be negative"})
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{Field: "security.tls.cert_file", Message: "required when TLS is enabled"})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{Field: "security.tls.key_file", Message: "required when TLS is enabled"})
		}
	}

	errs = append(errs, positive("security.slow_request_threshold", cfg.SlowRequestThreshold)...)

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of json, text, console; got %q", cfg.Logging.Format),
		})
	}

	for i, p := range cfg.Logging.RedactPatterns {
		field := fmt.Sprintf("telemetry.logging.redact_patterns[%d]", i)
		if p.Pattern == "" {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: "must not be empty"})
			continue
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: fmt.Sprintf("invalid regular expression: %v", err)})
		}
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "must start with /"})
	}

	prev := 0.0
	for i, b := range cfg.Metrics.RequestDurationBuckets {
		if b <= prev {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.metrics.request_duration_buckets[%d]", i),
				Message: "buckets must be positive and strictly increasing",
			})
			break
		}
		prev = b
	}

	return errs
}

func positive(field string, d time.Duration) []FieldError {
	if d <= 0 {
		return []FieldError{{Field: field, Message: "must be positive"}}
	}
	return nil
}
