package format

// Built-in default templates, keyed by success/failure and presence of
// duration. A start entry has no duration yet.
const (
	standardStartTemplate   = "{TypeName}.{MethodName} started"
	standardSuccessTemplate = "{TypeName}.{MethodName} completed in {Duration}ms"
	standardFailureTemplate = "{TypeName}.{MethodName} failed after {Duration}ms"
)

// StandardStructured renders entries with the built-in structured templates
// or a configured override, and appends an exception clause automatically
// when the entry carries an exception message.
type StandardStructured struct{}

// NewStandardStructured creates the standard formatter.
func NewStandardStructured() *StandardStructured {
	return &StandardStructured{}
}

func (f *StandardStructured) Name() string { return NameStandard }

// CanFormat always succeeds: the standard formatter is the ultimate
// template-driven fallback.
func (f *StandardStructured) CanFormat(*Context) bool { return true }

func (f *StandardStructured) Format(ctx *Context) Result {
	template := f.resolveTemplate(ctx)

	if ctx.DisableStringFormatting {
		return SuccessRaw(ctx.Params())
	}

	message := Substitute(template, ctx)

	if msg := ctx.Entry.ExceptionMessage; msg != "" {
		message += ": " + msg
	}

	return Success(message)
}

// resolveTemplate prefers a configured override named by the entry, falling
// back to the built-in template for the entry's state.
func (f *StandardStructured) resolveTemplate(ctx *Context) string {
	e := ctx.Entry

	if e.TemplateName != "" && ctx.Config != nil && ctx.Config.TemplateEnabled(e.TemplateName) {
		tpl := ctx.Config.Templates[e.TemplateName]
		if e.HasDuration && !e.Success && tpl.Error != "" {
			return tpl.Error
		}
		if tpl.Success != "" {
			return tpl.Success
		}
	}

	switch {
	case !e.HasDuration:
		return standardStartTemplate
	case e.Success:
		return standardSuccessTemplate
	default:
		return standardFailureTemplate
	}
}
