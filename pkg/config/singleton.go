package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the singleton configuration instance.
	globalConfig *Config

	// configMutex protects access to globalConfig.
	configMutex sync.RWMutex

	// initOnce ensures configuration is initialized only once.
	initOnce sync.Once
)

// Initialize loads configuration from the specified path with environment
// variable overrides and stores it as the global singleton configuration.
// This function should be called once at application startup; subsequent
// calls are ignored.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}

		configMutex.Lock()
		globalConfig = cfg
		configMutex.Unlock()
	})

	return initErr
}

// GetConfig returns the global configuration instance, or nil if Initialize
// has not been called successfully. Safe for concurrent use.
//
// For testing, prefer dependency injection with explicit Config instances
// over the global singleton.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfigForTesting replaces the global configuration. Test use only.
func SetConfigForTesting(cfg *Config) {
	configMutex.Lock()
	globalConfig = cfg
	configMutex.Unlock()
}

// ResetForTesting clears the singleton so Initialize can run again.
// Test use only.
func ResetForTesting() {
	configMutex.Lock()
	globalConfig = nil
	configMutex.Unlock()
	initOnce = sync.Once{}
}

// MustGetConfig returns the global configuration or panics if Initialize
// has not been called. Intended for composition-root code paths where a
// missing configuration is a programming error.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic(fmt.Errorf("config: Initialize was not called"))
	}
	return cfg
}
