package config

import (
	"fmt"
	"sync"
)

var (
	// current holds the process configuration.
	current *Config

	// currentMu protects current.
	currentMu sync.RWMutex

	initOnce sync.Once
)

// Initialize loads configuration from path with environment overrides and
// stores it as the process configuration. Only the first call has any
// effect; later calls return nil.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}
		SetConfig(cfg)
	})

	return initErr
}

// GetConfig returns the process configuration, or nil before Initialize.
//
// Components receive their settings explicitly at construction; GetConfig
// is for the CLI and the reload path.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetConfig replaces the process configuration.
func SetConfig(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}

// ReloadConfig reloads path and swaps it in only if loading and validation
// succeed. On failure the previous configuration stays in place.
func ReloadConfig(path string) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}

	SetConfig(cfg)
	return cfg, nil
}

// MustGetConfig is GetConfig that panics when the configuration has not
// been initialized.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}
