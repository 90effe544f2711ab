package format

import (
	"fmt"
	"strings"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/entry"
)

// Context wraps one entry for one formatting attempt. A Context is created
// per attempt and never shared across entries.
type Context struct {
	// Entry is the record being rendered.
	Entry *entry.Entry

	// Config is the active pipeline configuration.
	Config *config.Config

	// Properties is a free-form bag formatters may consult; the hybrid
	// formatter also copies it into its metadata blob.
	Properties map[string]any

	// TemplateOverride names a template that wins over the entry's own
	// template hint in the custom formatter's resolution chain.
	TemplateOverride string

	// DisableStringFormatting asks for the structured parameter map
	// instead of a pre-rendered string, for sinks that serialize
	// themselves downstream.
	DisableStringFormatting bool

	// params memoizes the substitution parameters for this attempt.
	params map[string]any
}

// NewContext creates a formatting context for one entry.
func NewContext(e *entry.Entry, cfg *config.Config) *Context {
	return &Context{Entry: e, Config: cfg}
}

// Params returns the substitution parameters for the entry: entry identity
// and outcome fields plus every input parameter by name. Keys are matched
// case-insensitively by Lookup.
func (c *Context) Params() map[string]any {
	if c.params != nil {
		return c.params
	}

	e := c.Entry
	p := map[string]any{
		"Id":         e.ID,
		"MethodName": e.MethodName,
		"TypeName":   e.TypeName,
		"Success":    e.Success,
		"Timestamp":  e.Timestamp,
		"ThreadId":   e.GoroutineID,
		"Target":     e.Target,
		"Level":      string(e.EffectiveLevel()),
	}
	if e.HasDuration {
		p["Duration"] = e.Duration.Milliseconds()
	}
	if e.ExceptionType != "" {
		p["ExceptionType"] = e.ExceptionType
	}
	if e.ExceptionMessage != "" {
		p["ExceptionMessage"] = e.ExceptionMessage
	}
	if e.ActivityID != "" {
		p["ActivityId"] = e.ActivityID
	}
	if e.OutputValue != nil {
		p["Output"] = e.OutputValue.Value
	}
	for _, in := range e.InputParameters {
		if _, taken := p[in.Name]; !taken {
			p[in.Name] = in.Value
		}
	}
	for k, v := range c.Properties {
		p[k] = v
	}

	c.params = p
	return p
}

// Lookup finds a parameter by name, case-insensitively.
func (c *Context) Lookup(name string) (any, bool) {
	params := c.Params()
	if v, ok := params[name]; ok {
		return v, true
	}
	for k, v := range params {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// renderValue turns a parameter value into its string form.
func renderValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", v)
}
