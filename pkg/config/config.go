package config

import "time"

// Config is the root configuration structure for Callisto. It describes
// which services are instrumented, how entries are formatted and routed,
// how values are masked before they leave the process, and how the
// background queue is sized.
type Config struct {
	// Defaults contains the global fallbacks applied when a service rule
	// does not specify a value.
	Defaults DefaultsConfig `yaml:"defaults"`

	// Services maps a service pattern to its interception rule. The key is
	// either an exact type name (e.g. "billing.PaymentService") or a
	// wildcard pattern ("billing.*", "*Service", "*Payment*"). Exact
	// matches always win over wildcard matches.
	Services map[string]ServiceRule `yaml:"services"`

	// Templates contains named message templates referenced by service
	// rules and by the custom-template formatter's fallback chain.
	Templates map[string]TemplateConfig `yaml:"templates"`

	// Formatters contains per-formatter settings.
	Formatters FormattersConfig `yaml:"formatters"`

	// Masking contains the global value-masking rules.
	Masking MaskingConfig `yaml:"masking"`

	// Queue contains sizing for the background log queue and its consumer.
	Queue QueueConfig `yaml:"queue"`

	// Telemetry contains observability settings for the pipeline itself.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DefaultsConfig contains global default routing and behavior.
type DefaultsConfig struct {
	// Formatter is the formatter used when a rule names none.
	// One of: "standard", "custom", "json", "successerror", "hybrid".
	// Default: "standard"
	Formatter string `yaml:"formatter"`

	// Target is the sink name entries are routed to when a rule names none.
	// Default: "console"
	Target string `yaml:"target"`

	// Level is the level for successful entries. Default: "info"
	Level string `yaml:"level"`

	// ExceptionLevel is the level for failed entries. Default: "error"
	ExceptionLevel string `yaml:"exception_level"`

	// LogInput and LogOutput define the global default behavior for
	// methods that match no service rule. Both false means methods
	// without a matching rule are not instrumented at all.
	LogInput  bool `yaml:"log_input"`
	LogOutput bool `yaml:"log_output"`

	// EnableFallbackFormatting substitutes a guaranteed-safe template when
	// a formatter rejects an entry or fails, instead of dropping it.
	// Default: true
	EnableFallbackFormatting *bool `yaml:"enable_fallback_formatting"`
}

// ServiceRule configures interception for all types matching one pattern.
type ServiceRule struct {
	// LogInput attaches masked input parameters to start entries.
	LogInput bool `yaml:"log_input"`

	// LogOutput attaches the masked return value to completion entries.
	LogOutput bool `yaml:"log_output"`

	// ExcludeMethods lists method name patterns (exact or wildcard) that
	// are never instrumented, overriding everything else.
	ExcludeMethods []string `yaml:"exclude_methods"`

	// MaskParameters lists parameter name patterns (exact or wildcard)
	// whose values are replaced before serialization.
	MaskParameters []string `yaml:"mask_parameters"`

	// MaskReplacement overrides the replacement text for this rule.
	MaskReplacement string `yaml:"mask_replacement"`

	// Target routes entries from matching types to a named sink.
	Target string `yaml:"target"`

	// Formatter selects the formatter for matching types.
	Formatter string `yaml:"formatter"`

	// Template names the message template used by template-driven
	// formatters for matching types.
	Template string `yaml:"template"`

	// Level and ExceptionLevel override the global defaults.
	Level          string `yaml:"level"`
	ExceptionLevel string `yaml:"exception_level"`
}

// TemplateConfig is one named message template. Placeholders use the
// generic {PropertyName} syntax and are matched case-insensitively.
type TemplateConfig struct {
	// Success is the template for successful completion entries.
	Success string `yaml:"success"`

	// Error is the template for failed completion entries.
	Error string `yaml:"error"`

	// Enabled disables the template when false without removing it.
	// Default: true
	Enabled *bool `yaml:"enabled"`
}

// FormattersConfig contains per-formatter settings.
type FormattersConfig struct {
	JSON   JSONFormatterConfig   `yaml:"json"`
	Custom CustomFormatterConfig `yaml:"custom"`
	Hybrid HybridFormatterConfig `yaml:"hybrid"`
}

// JSONFormatterConfig configures the JSON formatter.
type JSONFormatterConfig struct {
	// Pretty enables indented output. Default: false
	Pretty bool `yaml:"pretty"`

	// RawObject hands the structured parameter map to the sink instead of
	// a pre-rendered string, for sinks that serialize downstream.
	// Default: false
	RawObject bool `yaml:"raw_object"`
}

// CustomFormatterConfig configures the custom-template formatter.
type CustomFormatterConfig struct {
	// StrictValidation rejects templates whose placeholders do not all
	// resolve against the available parameters. Default: false
	StrictValidation bool `yaml:"strict_validation"`

	// CacheTemplates caches resolution results keyed by the raw template
	// string. Default: true
	CacheTemplates *bool `yaml:"cache_templates"`
}

// HybridFormatterConfig configures the hybrid formatter.
type HybridFormatterConfig struct {
	// MetadataFields is the allow-list of entry fields included in the
	// trailing JSON metadata blob. Empty means include everything.
	MetadataFields []string `yaml:"metadata_fields"`

	// Separator sits between the human-readable message and the metadata
	// blob. Default: " | "
	Separator string `yaml:"separator"`
}

// MaskPattern is one global masking rule matched against parameter and
// property names.
type MaskPattern struct {
	// Pattern is an exact name or a wildcard pattern ("*password*",
	// "secret*", "*Token").
	Pattern string `yaml:"pattern"`

	// Replacement overrides the default replacement text for this pattern.
	Replacement string `yaml:"replacement"`
}

// MaskingConfig contains the global value-masking rules.
type MaskingConfig struct {
	// Patterns are matched (case-insensitively) against parameter and
	// property names everywhere, after per-service rules.
	Patterns []MaskPattern `yaml:"patterns"`

	// Replacement is the default replacement text.
	// Default: "***MASKED***"
	Replacement string `yaml:"replacement"`

	// FailClosed replaces the value with the replacement text when masking
	// itself fails, instead of passing the original value through.
	// Default: false (fail open, matching observed production behavior)
	FailClosed bool `yaml:"fail_closed"`
}

// QueueConfig sizes the background log queue and its consumer.
type QueueConfig struct {
	// Capacity is the bounded queue size. Enqueue beyond capacity fails
	// immediately and the entry is dropped. Default: 10000
	Capacity int `yaml:"capacity"`

	// BatchSize is the maximum number of entries the consumer hands to the
	// formatting pipeline in one sweep. Default: 64
	BatchSize int `yaml:"batch_size"`

	// FlushTimeout is how long the consumer waits to fill a batch before
	// flushing a partial one. Default: 250ms
	FlushTimeout time.Duration `yaml:"flush_timeout"`

	// DrainTimeout bounds the best-effort drain on shutdown. Default: 5s
	DrainTimeout time.Duration `yaml:"drain_timeout"`
}

// TelemetryConfig contains observability settings for the pipeline itself.
type TelemetryConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`

	// StatsSchedule is a cron expression for the periodic stats report
	// (queue depth, drop totals). Empty disables the report.
	// Default: "@every 1m"
	StatsSchedule string `yaml:"stats_schedule"`

	// WatchConfig warns when the configuration file changes on disk.
	// Changes never take effect without a restart. Default: false
	WatchConfig bool `yaml:"watch_config"`
}

// MetricsConfig configures prometheus metrics for the pipeline.
type MetricsConfig struct {
	// Enabled registers the pipeline collectors. Default: true
	Enabled *bool `yaml:"enabled"`

	// Namespace prefixes all metric names. Default: "callisto"
	Namespace string `yaml:"namespace"`
}

// FallbackFormattingEnabled reports the effective fallback policy.
func (c *Config) FallbackFormattingEnabled() bool {
	if c.Defaults.EnableFallbackFormatting == nil {
		return true
	}
	return *c.Defaults.EnableFallbackFormatting
}

// TemplateEnabled reports whether a named template exists and is enabled.
func (c *Config) TemplateEnabled(name string) bool {
	tpl, ok := c.Templates[name]
	if !ok {
		return false
	}
	return tpl.Enabled == nil || *tpl.Enabled
}
