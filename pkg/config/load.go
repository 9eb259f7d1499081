package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FUDBUDDY_"

// LoadConfig loads configuration from a YAML file, applies defaults for
// missing values, and validates the result.
//
// An empty path yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention FUDBUDDY_SECTION_FIELD (e.g., FUDBUDDY_OLLAMA_MODEL) and always
// take precedence over file values.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

type lookupFunc func(string) (string, bool)

// envOverrides maps environment suffixes to setters. Values that fail to
// parse are reported as field errors rather than ignored.
func envOverrides(cfg *Config) map[string]func(string) error {
	return map[string]func(string) error{
		"SERVER_LISTEN_ADDRESS":   setString(&cfg.Server.ListenAddress),
		"SERVER_READ_TIMEOUT":     setDuration(&cfg.Server.ReadTimeout),
		"SERVER_WRITE_TIMEOUT":    setDuration(&cfg.Server.WriteTimeout),
		"SERVER_IDLE_TIMEOUT":     setDuration(&cfg.Server.IdleTimeout),
		"SERVER_SHUTDOWN_TIMEOUT": setDuration(&cfg.Server.ShutdownTimeout),
		"SERVER_REQUEST_TIMEOUT":  setDuration(&cfg.Server.RequestTimeout),
		"SERVER_MAX_HEADER_BYTES": setInt(&cfg.Server.MaxHeaderBytes),
		"SERVER_TRUST_PROXY":      setBool(&cfg.Server.TrustProxy),

		"OLLAMA_URL":                   setString(&cfg.Ollama.URL),
		"OLLAMA_MODEL":                 setString(&cfg.Ollama.Model),
		"OLLAMA_TIMEOUT":               setDuration(&cfg.Ollama.Timeout),
		"OLLAMA_HEALTH_CHECK_INTERVAL": setDuration(&cfg.Ollama.HealthCheckInterval),

		"LIMITS_GLOBAL_WINDOW":       setDuration(&cfg.Limits.Global.Window),
		"LIMITS_GLOBAL_MAX_REQUESTS": setInt64(&cfg.Limits.Global.MaxRequests),
		"LIMITS_CHAT_WINDOW":         setDuration(&cfg.Limits.Chat.Window),
		"LIMITS_CHAT_MAX_REQUESTS":   setInt64(&cfg.Limits.Chat.MaxRequests),

		"CACHE_TTL":            setDuration(&cfg.Cache.TTL),
		"CACHE_SWEEP_INTERVAL": setDuration(&cfg.Cache.SweepInterval),

		"SECURITY_CORS_ALLOWED_ORIGINS":   setList(&cfg.Security.CORS.AllowedOrigins),
		"SECURITY_HSTS":                   setBool(&cfg.Security.HSTS),
		"SECURITY_SLOW_REQUEST_THRESHOLD": setDuration(&cfg.Security.SlowRequestThreshold),
		"SECURITY_TLS_ENABLED":            setBool(&cfg.Security.TLS.Enabled),
		"SECURITY_TLS_CERT_FILE":          setString(&cfg.Security.TLS.CertFile),
		"SECURITY_TLS_KEY_FILE":           setString(&cfg.Security.TLS.KeyFile),

		"TELEMETRY_LOGGING_LEVEL":      setString(&cfg.Telemetry.Logging.Level),
		"TELEMETRY_LOGGING_FORMAT":     setString(&cfg.Telemetry.Logging.Format),
		"TELEMETRY_LOGGING_REDACT_PII": setBool(&cfg.Telemetry.Logging.RedactPII),
		"TELEMETRY_METRICS_ENABLED":    setBool(&cfg.Telemetry.Metrics.Enabled),
		"TELEMETRY_METRICS_PATH":       setString(&cfg.Telemetry.Metrics.Path),

		"ENVIRONMENT": setString(&cfg.Environment),
	}
}

// applyEnvOverrides applies environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config, lookup lookupFunc) error {
	var errs []FieldError

	for suffix, set := range envOverrides(cfg) {
		name := EnvPrefix + suffix
		val, ok := lookup(name)
		if !ok || val == "" {
			continue
		}
		if err := set(val); err != nil {
			errs = append(errs, FieldError{Field: name, Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment override: %w", ValidationError{Errors: errs})
	}
	return nil
}

func setString(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func setDuration(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q", v)
		}
		*dst = d
		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(v string) error {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*dst = i
		return nil
	}
}

func setInt64(dst *int64) func(string) error {
	return func(v string) error {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*dst = i
		return nil
	}
}

func setBool(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", v)
		}
		*dst = b
		return nil
	}
}

// setList splits a comma separated value, dropping empty items.
func setList(dst *[]string) func(string) error {
	return func(v string) error {
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*dst = out
		return nil
	}
}
