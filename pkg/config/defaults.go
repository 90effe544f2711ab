package config

import "time"

// Default values applied by ApplyDefaults.
const (
	DefaultFormatter        = "standard"
	DefaultTarget           = "console"
	DefaultLevel            = "info"
	DefaultExceptionLevel   = "error"
	DefaultMaskReplacement  = "***MASKED***"
	DefaultQueueCapacity    = 10000
	DefaultBatchSize        = 64
	DefaultFlushTimeout     = 250 * time.Millisecond
	DefaultDrainTimeout     = 5 * time.Second
	DefaultHybridSeparator  = " | "
	DefaultStatsSchedule    = "@every 1m"
	DefaultMetricsNamespace = "callisto"
)

// ApplyDefaults fills in default values for all unset configuration fields.
// It never overrides a value the user has set explicitly.
func ApplyDefaults(cfg *Config) {
	if cfg.Defaults.Formatter == "" {
		cfg.Defaults.Formatter = DefaultFormatter
	}
	if cfg.Defaults.Target == "" {
		cfg.Defaults.Target = DefaultTarget
	}
	if cfg.Defaults.Level == "" {
		cfg.Defaults.Level = DefaultLevel
	}
	if cfg.Defaults.ExceptionLevel == "" {
		cfg.Defaults.ExceptionLevel = DefaultExceptionLevel
	}

	if cfg.Masking.Replacement == "" {
		cfg.Masking.Replacement = DefaultMaskReplacement
	}

	if cfg.Queue.Capacity <= 0 {
		cfg.Queue.Capacity = DefaultQueueCapacity
	}
	if cfg.Queue.BatchSize <= 0 {
		cfg.Queue.BatchSize = DefaultBatchSize
	}
	if cfg.Queue.FlushTimeout <= 0 {
		cfg.Queue.FlushTimeout = DefaultFlushTimeout
	}
	if cfg.Queue.DrainTimeout <= 0 {
		cfg.Queue.DrainTimeout = DefaultDrainTimeout
	}

	if cfg.Formatters.Hybrid.Separator == "" {
		cfg.Formatters.Hybrid.Separator = DefaultHybridSeparator
	}

	if cfg.Telemetry.StatsSchedule == "" {
		cfg.Telemetry.StatsSchedule = DefaultStatsSchedule
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
