package format

import "strings"

// Full templates with visual markers, chosen by outcome.
const (
	successTemplate = "✅ {TypeName}.{MethodName} succeeded in {Duration}ms"
	errorTemplate   = "❌ {TypeName}.{MethodName} failed in {Duration}ms [{ExceptionType}: {ExceptionMessage}]"
	startedTemplate = "▶ {TypeName}.{MethodName} started"
)

// SuccessError renders entries with distinct success and failure templates
// and appends input/output sections when the entry carries them.
type SuccessError struct{}

// NewSuccessError creates the success/error formatter.
func NewSuccessError() *SuccessError {
	return &SuccessError{}
}

func (f *SuccessError) Name() string { return NameSuccessError }

func (f *SuccessError) CanFormat(*Context) bool { return true }

func (f *SuccessError) Format(ctx *Context) Result {
	if ctx.DisableStringFormatting {
		return SuccessRaw(ctx.Params())
	}

	e := ctx.Entry

	template := startedTemplate
	if e.HasDuration {
		template = successTemplate
		if !e.Success {
			template = errorTemplate
		}
	}

	var b strings.Builder
	b.WriteString(Substitute(template, ctx))

	if len(e.InputParameters) > 0 {
		b.WriteString(" | input:")
		for _, p := range e.InputParameters {
			b.WriteString(" ")
			b.WriteString(p.Name)
			b.WriteString("=")
			b.WriteString(renderValue(p.Value))
		}
	}
	if e.OutputValue != nil {
		b.WriteString(" | output: ")
		b.WriteString(renderValue(e.OutputValue.Value))
	}

	return Success(b.String())
}
