package masking

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/pattern"
)

// Engine applies masking rules to parameter and output values. Annotations
// are registered during the single-threaded warm-up phase; afterwards the
// engine is read-only and safe for unlimited concurrent callers.
type Engine struct {
	cfg    config.MaskingConfig
	logger *slog.Logger

	// paramRules is keyed "Type.Method.param" -> replacement text.
	paramRules map[string]string

	// typeRules is keyed by the value's type name -> replacement text.
	typeRules map[string]string

	// fieldCache memoizes per-struct-type `mask` tag scans.
	fieldCache sync.Map // reflect.Type -> []maskedField

	// hasAnyRule gates the fast path: when the whole configuration carries
	// no masking rule and no annotation was registered, Mask is a no-op.
	hasAnyRule bool

	// onFailure is invoked once per masking failure, for metrics.
	onFailure func()
}

// maskedField is one tagged field of a cached struct type.
type maskedField struct {
	index       int
	name        string
	replacement string
	settable    bool
}

// NewEngine creates a masking engine over the loaded configuration.
func NewEngine(cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:        cfg.Masking,
		logger:     logger,
		paramRules: make(map[string]string),
		typeRules:  make(map[string]string),
		hasAnyRule: len(cfg.Masking.Patterns) > 0,
	}

	for _, rule := range cfg.Services {
		if len(rule.MaskParameters) > 0 {
			e.hasAnyRule = true
			break
		}
	}

	return e
}

// SetFailureHook installs a callback invoked once per masking failure.
// Warm-up phase only.
func (e *Engine) SetFailureHook(fn func()) {
	e.onFailure = fn
}

// RegisterParameter installs a call-site annotation masking one parameter
// of one method. An empty replacement uses the configured default.
// Warm-up phase only.
func (e *Engine) RegisterParameter(typeName, methodName, param, replacement string) {
	if replacement == "" {
		replacement = e.cfg.Replacement
	}
	e.paramRules[typeName+"."+methodName+"."+param] = replacement
	e.hasAnyRule = true
}

// RegisterType installs a type-level annotation masking every value of the
// named type wholesale. Warm-up phase only.
func (e *Engine) RegisterType(typeName, replacement string) {
	if replacement == "" {
		replacement = e.cfg.Replacement
	}
	e.typeRules[typeName] = replacement
	e.hasAnyRule = true
}

// Mask returns the value to attach to a log entry for one named parameter
// (or output) of one method. rulePatterns and ruleReplacement carry the
// matched service rule's masking settings; both may be empty.
func (e *Engine) Mask(typeName, methodName, name string, value any, rulePatterns []string, ruleReplacement string) any {
	if !e.hasAnyRule && len(rulePatterns) == 0 {
		// No rule anywhere; only `mask` struct tags can still apply, and
		// their per-type scan is cached.
		if !isStructLike(value) {
			return value
		}
		return e.maskStruct(value)
	}

	// 1. Exact call-site annotation always wins.
	if repl, ok := e.paramRules[typeName+"."+methodName+"."+name]; ok {
		return repl
	}

	// 2. Name patterns: the service rule's first, then the global ones.
	if repl, ok := e.matchName(name, rulePatterns, ruleReplacement); ok {
		return repl
	}

	// 3. Type-level rule replaces the whole value.
	if value != nil {
		if repl, ok := e.typeRules[reflect.TypeOf(value).String()]; ok {
			return repl
		}
	}

	// 4. Field tags on complex values produce a shallow masked copy.
	return e.maskStruct(value)
}

// matchName resolves name-pattern rules. Matching is case-insensitive.
func (e *Engine) matchName(name string, rulePatterns []string, ruleReplacement string) (string, bool) {
	for _, p := range rulePatterns {
		if pattern.MatchFold(p, name) {
			if ruleReplacement != "" {
				return ruleReplacement, true
			}
			return e.cfg.Replacement, true
		}
	}
	for _, p := range e.cfg.Patterns {
		if pattern.MatchFold(p.Pattern, name) {
			if p.Replacement != "" {
				return p.Replacement, true
			}
			return e.cfg.Replacement, true
		}
	}
	return "", false
}

// maskStruct produces a shallow copy of a struct (or pointer to struct)
// value with tagged fields replaced. Values without tagged fields are
// returned as-is. Any reflection failure is routed through fail().
func (e *Engine) maskStruct(value any) (result any) {
	if value == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			result = e.fail(value, fmt.Errorf("masking panic: %v", r))
		}
	}()

	v := reflect.ValueOf(value)
	isPtr := v.Kind() == reflect.Pointer
	if isPtr {
		if v.IsNil() {
			return value
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return value
	}

	fields := e.taggedFields(v.Type())
	if len(fields) == 0 {
		return value
	}

	clone := reflect.New(v.Type()).Elem()
	clone.Set(v)
	for _, f := range fields {
		if !f.settable {
			return e.fail(value, fmt.Errorf("masked field %s.%s is unexported", v.Type(), f.name))
		}
		fv := clone.Field(f.index)
		if fv.Kind() == reflect.String {
			fv.SetString(f.replacement)
			continue
		}
		// Non-string tagged fields are zeroed; the replacement text does
		// not fit their type.
		fv.SetZero()
	}

	if isPtr {
		out := reflect.New(v.Type())
		out.Elem().Set(clone)
		return out.Interface()
	}
	return clone.Interface()
}

// isStructLike reports whether value is a struct or pointer to struct.
func isStructLike(value any) bool {
	if value == nil {
		return false
	}
	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// taggedFields scans (once per type) for `mask` struct tags.
// Tag forms: `mask:"true"` uses the default replacement; any other
// non-empty tag value is the replacement text.
func (e *Engine) taggedFields(t reflect.Type) []maskedField {
	if cached, ok := e.fieldCache.Load(t); ok {
		return cached.([]maskedField)
	}

	var fields []maskedField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("mask")
		if !ok || tag == "" || tag == "false" {
			continue
		}
		replacement := tag
		if tag == "true" {
			replacement = e.cfg.Replacement
		}
		fields = append(fields, maskedField{
			index:       i,
			name:        f.Name,
			replacement: replacement,
			settable:    f.IsExported(),
		})
	}

	actual, _ := e.fieldCache.LoadOrStore(t, fields)
	return actual.([]maskedField)
}

// fail applies the failure policy: fail open returns the original value,
// fail closed returns the replacement text. Either way the failure is
// counted and logged.
func (e *Engine) fail(value any, err error) any {
	e.logger.Warn("Masking failed", "error", err, "fail_closed", e.cfg.FailClosed)
	if e.onFailure != nil {
		e.onFailure()
	}
	if e.cfg.FailClosed {
		return e.cfg.Replacement
	}
	return value
}
