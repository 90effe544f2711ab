package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// CALLISTO_SECTION_FIELD (e.g. CALLISTO_QUEUE_CAPACITY) and always take
// precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies CALLISTO_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("CALLISTO_DEFAULTS_FORMATTER"); val != "" {
		cfg.Defaults.Formatter = val
	}
	if val := os.Getenv("CALLISTO_DEFAULTS_TARGET"); val != "" {
		cfg.Defaults.Target = val
	}
	if val := os.Getenv("CALLISTO_DEFAULTS_LEVEL"); val != "" {
		cfg.Defaults.Level = val
	}
	if val := os.Getenv("CALLISTO_DEFAULTS_EXCEPTION_LEVEL"); val != "" {
		cfg.Defaults.ExceptionLevel = val
	}
	if val := os.Getenv("CALLISTO_QUEUE_CAPACITY"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Queue.Capacity = i
		}
	}
	if val := os.Getenv("CALLISTO_QUEUE_BATCH_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Queue.BatchSize = i
		}
	}
	if val := os.Getenv("CALLISTO_QUEUE_FLUSH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Queue.FlushTimeout = d
		}
	}
	if val := os.Getenv("CALLISTO_QUEUE_DRAIN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Queue.DrainTimeout = d
		}
	}
	if val := os.Getenv("CALLISTO_MASKING_REPLACEMENT"); val != "" {
		cfg.Masking.Replacement = val
	}
	if val := os.Getenv("CALLISTO_MASKING_FAIL_CLOSED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Masking.FailClosed = b
		}
	}
	if val := os.Getenv("CALLISTO_TELEMETRY_STATS_SCHEDULE"); val != "" {
		cfg.Telemetry.StatsSchedule = val
	}
	if val := os.Getenv("CALLISTO_TELEMETRY_WATCH_CONFIG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.WatchConfig = b
		}
	}
}
