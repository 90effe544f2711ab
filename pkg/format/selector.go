package format

import (
	"fmt"
	"log/slog"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/entry"
)

// Selector owns the formatter singletons and picks one per entry:
// the decision's formatter, then the configured default, then the standard
// formatter. Every call is guarded; when fallback formatting is enabled a
// rejected, failed, or panicking formatter is replaced by a guaranteed-safe
// rendering instead of dropping the entry.
type Selector struct {
	cfg        *config.Config
	formatters map[string]Formatter
	logger     *slog.Logger

	// onFailure is invoked once per formatting failure, for metrics.
	onFailure func()
}

// NewSelector creates a selector with the full formatter set registered.
func NewSelector(cfg *config.Config, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}

	standard := NewStandardStructured()
	custom := NewCustomTemplate(cfg.Formatters.Custom)

	return &Selector{
		cfg:    cfg,
		logger: logger,
		formatters: map[string]Formatter{
			NameStandard:     standard,
			NameCustom:       custom,
			NameJSON:         NewJSON(cfg.Formatters.JSON),
			NameSuccessError: NewSuccessError(),
			NameHybrid:       NewHybrid(cfg.Formatters.Hybrid, standard, custom),
		},
	}
}

// SetFailureHook installs a callback invoked once per formatting failure.
// Warm-up phase only.
func (s *Selector) SetFailureHook(fn func()) {
	s.onFailure = fn
}

// Get returns a registered formatter by name.
func (s *Selector) Get(name string) (Formatter, bool) {
	f, ok := s.formatters[name]
	return f, ok
}

// Format renders one entry through the selected formatter, applying the
// fallback policy on any failure.
func (s *Selector) Format(e *entry.Entry) Result {
	ctx := NewContext(e, s.cfg)
	formatter := s.selectFormatter(e)

	result, err := s.safeFormat(formatter, ctx)
	if err == nil && result.OK {
		return result
	}

	reason := result.Reason
	if err != nil {
		reason = err.Error()
	}
	s.logger.Warn("Formatting failed",
		"formatter", formatter.Name(),
		"method", e.TypeName+"."+e.MethodName,
		"reason", reason,
	)
	if s.onFailure != nil {
		s.onFailure()
	}

	if !s.cfg.FallbackFormattingEnabled() {
		return Failure(fmt.Sprintf("formatting failed (%s): %s", formatter.Name(), reason))
	}
	return Success(fallbackMessage(e))
}

// selectFormatter applies the selection order.
func (s *Selector) selectFormatter(e *entry.Entry) Formatter {
	if f, ok := s.formatters[e.FormatterType]; ok {
		return f
	}
	if f, ok := s.formatters[s.cfg.Defaults.Formatter]; ok {
		return f
	}
	return s.formatters[NameStandard]
}

// safeFormat isolates formatter panics from the consumer goroutine.
func (s *Selector) safeFormat(f Formatter, ctx *Context) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("formatter panic: %v", r)
		}
	}()

	if !f.CanFormat(ctx) {
		return Failure("formatter rejected entry"), nil
	}
	return f.Format(ctx), nil
}

// fallbackMessage builds the guaranteed-safe rendering. It uses no
// templates and no reflection, only fields that always exist.
func fallbackMessage(e *entry.Entry) string {
	if !e.HasDuration {
		return fmt.Sprintf("%s.%s started", e.TypeName, e.MethodName)
	}
	return fmt.Sprintf("%s.%s success=%t duration=%dms",
		e.TypeName, e.MethodName, e.Success, e.Duration.Milliseconds())
}
