// Package config loads, validates and reloads the gateway configuration.
//
// Configuration comes from a YAML file with environment variable overrides:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("fudbuddy.yaml")
//
// Values are applied in this order, later overriding earlier:
//
//  1. Defaults (defaults.go)
//  2. The YAML file
//  3. FUDBUDDY_SECTION_FIELD environment variables
//     (e.g. FUDBUDDY_OLLAMA_MODEL, FUDBUDDY_LIMITS_CHAT_MAX_REQUESTS)
//
// The result is validated as a whole and every problem is reported in a
// single ValidationError.
//
// A Watcher reloads the file when it changes. Only settings that can be
// applied to running components (log level, upstream timeout) take effect
// without a restart; the rest are picked up on the next start.
package config
