package config

import (
	"fmt"
	"strings"
)

// knownFormatters are the formatter names the pipeline ships with.
var knownFormatters = map[string]bool{
	"standard":     true,
	"custom":       true,
	"json":         true,
	"successerror": true,
	"hybrid":       true,
}

// knownLevels are the accepted level names.
var knownLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for consistency. It returns the first
// error found, prefixed with the YAML path of the offending field.
func Validate(cfg *Config) error {
	if err := validateFormatter("defaults.formatter", cfg.Defaults.Formatter); err != nil {
		return err
	}
	if err := validateLevel("defaults.level", cfg.Defaults.Level); err != nil {
		return err
	}
	if err := validateLevel("defaults.exception_level", cfg.Defaults.ExceptionLevel); err != nil {
		return err
	}

	for pattern, rule := range cfg.Services {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("services: empty service pattern")
		}
		if rule.Formatter != "" {
			if err := validateFormatter(fmt.Sprintf("services.%q.formatter", pattern), rule.Formatter); err != nil {
				return err
			}
		}
		if rule.Level != "" {
			if err := validateLevel(fmt.Sprintf("services.%q.level", pattern), rule.Level); err != nil {
				return err
			}
		}
		if rule.ExceptionLevel != "" {
			if err := validateLevel(fmt.Sprintf("services.%q.exception_level", pattern), rule.ExceptionLevel); err != nil {
				return err
			}
		}
		if rule.Template != "" {
			if _, ok := cfg.Templates[rule.Template]; !ok {
				return fmt.Errorf("services.%q.template: unknown template %q", pattern, rule.Template)
			}
		}
	}

	for name, tpl := range cfg.Templates {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("templates: empty template name")
		}
		if tpl.Success == "" && tpl.Error == "" {
			return fmt.Errorf("templates.%q: at least one of success or error must be set", name)
		}
		if err := validateBraces(fmt.Sprintf("templates.%q.success", name), tpl.Success); err != nil {
			return err
		}
		if err := validateBraces(fmt.Sprintf("templates.%q.error", name), tpl.Error); err != nil {
			return err
		}
	}

	for i, p := range cfg.Masking.Patterns {
		if strings.TrimSpace(p.Pattern) == "" {
			return fmt.Errorf("masking.patterns[%d].pattern: must not be empty", i)
		}
	}

	if cfg.Queue.Capacity <= 0 {
		return fmt.Errorf("queue.capacity: must be positive, got %d", cfg.Queue.Capacity)
	}
	if cfg.Queue.BatchSize <= 0 {
		return fmt.Errorf("queue.batch_size: must be positive, got %d", cfg.Queue.BatchSize)
	}
	if cfg.Queue.BatchSize > cfg.Queue.Capacity {
		return fmt.Errorf("queue.batch_size: must not exceed queue.capacity (%d > %d)",
			cfg.Queue.BatchSize, cfg.Queue.Capacity)
	}

	return nil
}

func validateFormatter(path, name string) error {
	if !knownFormatters[name] {
		return fmt.Errorf("%s: unknown formatter %q (known: standard, custom, json, successerror, hybrid)", path, name)
	}
	return nil
}

func validateLevel(path, name string) error {
	if !knownLevels[name] {
		return fmt.Errorf("%s: unknown level %q (known: debug, info, warn, error)", path, name)
	}
	return nil
}

// validateBraces checks that a template's braces are balanced and every
// placeholder is non-empty.
func validateBraces(path, template string) error {
	depth := 0
	placeholderLen := 0
	for _, r := range template {
		switch r {
		case '{':
			depth++
			if depth > 1 {
				return fmt.Errorf("%s: nested braces in template", path)
			}
			placeholderLen = 0
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("%s: unbalanced braces in template", path)
			}
			if placeholderLen == 0 {
				return fmt.Errorf("%s: empty placeholder in template", path)
			}
		default:
			if depth > 0 {
				placeholderLen++
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%s: unbalanced braces in template", path)
	}
	return nil
}
