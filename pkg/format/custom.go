package format

import (
	"sync"

	"mercator-hq/callisto/pkg/config"
)

// customFallbackTemplate is the final hard-coded fallback of the custom
// formatter's resolution chain.
const customFallbackTemplate = "{TypeName}.{MethodName} success={Success}"

// DefaultTemplateName is the configured template consulted when no more
// specific template resolves.
const DefaultTemplateName = "Default"

// CustomTemplate renders entries through user-configured templates,
// resolved via an ordered fallback chain:
//
//	per-service template (the entry's template hint)
//	→ explicit template-name override on the context
//	→ per-type template
//	→ per-method template
//	→ the configured "Default" template
//	→ a hard-coded fallback
//
// With strict validation enabled, a candidate whose braces are unbalanced
// or whose placeholders do not all resolve is skipped in favor of the next
// link in the chain.
type CustomTemplate struct {
	cfg config.CustomFormatterConfig

	// cache memoizes placeholder extraction keyed by the raw template
	// string.
	cache sync.Map // string -> []string
}

// NewCustomTemplate creates the custom-template formatter.
func NewCustomTemplate(cfg config.CustomFormatterConfig) *CustomTemplate {
	return &CustomTemplate{cfg: cfg}
}

func (f *CustomTemplate) Name() string { return NameCustom }

// CanFormat reports whether any link of the resolution chain yields a
// usable template. The hard-coded fallback always does.
func (f *CustomTemplate) CanFormat(ctx *Context) bool {
	_, ok := f.resolve(ctx)
	return ok
}

func (f *CustomTemplate) Format(ctx *Context) Result {
	template, ok := f.resolve(ctx)
	if !ok {
		return Failure("no usable template resolved")
	}

	if ctx.DisableStringFormatting {
		return SuccessRaw(ctx.Params())
	}

	return Success(Substitute(template, ctx))
}

// resolve walks the fallback chain and returns the first usable template.
func (f *CustomTemplate) resolve(ctx *Context) (string, bool) {
	e := ctx.Entry

	candidates := []string{
		e.TemplateName,
		ctx.TemplateOverride,
		e.TypeName,
		e.TypeName + "." + e.MethodName,
		DefaultTemplateName,
	}

	for _, name := range candidates {
		if name == "" || ctx.Config == nil || !ctx.Config.TemplateEnabled(name) {
			continue
		}
		if template, ok := f.variant(ctx.Config.Templates[name], ctx); ok {
			return template, true
		}
	}

	return customFallbackTemplate, true
}

// variant picks the success or error template for the entry's state and
// applies strict validation when configured.
func (f *CustomTemplate) variant(tpl config.TemplateConfig, ctx *Context) (string, bool) {
	e := ctx.Entry

	template := tpl.Success
	if e.HasDuration && !e.Success && tpl.Error != "" {
		template = tpl.Error
	}
	if template == "" {
		return "", false
	}

	if f.cfg.StrictValidation && !f.validate(template, ctx) {
		return "", false
	}

	return template, true
}

// validate applies the strict checks: balanced braces and full placeholder
// coverage against the available parameters.
func (f *CustomTemplate) validate(template string, ctx *Context) bool {
	if !balanced(template) {
		return false
	}
	for _, name := range f.placeholders(template) {
		if _, ok := ctx.Lookup(name); !ok {
			return false
		}
	}
	return true
}

// placeholders returns the template's placeholder names, cached when
// caching is enabled.
func (f *CustomTemplate) placeholders(template string) []string {
	if f.cfg.CacheTemplates != nil && !*f.cfg.CacheTemplates {
		return Placeholders(template)
	}
	if cached, ok := f.cache.Load(template); ok {
		return cached.([]string)
	}
	names := Placeholders(template)
	actual, _ := f.cache.LoadOrStore(template, names)
	return actual.([]string)
}
