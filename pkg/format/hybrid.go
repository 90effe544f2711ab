package format

import (
	"strings"

	jsoniter "github.com/json-iterator/go"

	"mercator-hq/callisto/pkg/config"
)

// Hybrid composes a primary human-readable message with a trailing JSON
// metadata blob. The primary message comes from the custom-template
// formatter when the entry names a template, otherwise from the standard
// formatter. Metadata field inclusion is driven by the configured
// allow-list; an empty allow-list includes everything.
type Hybrid struct {
	cfg      config.HybridFormatterConfig
	standard *StandardStructured
	custom   *CustomTemplate

	// allow is the lowercased allow-list for O(1) membership checks.
	allow map[string]bool
}

// NewHybrid creates the hybrid formatter delegating to the given primary
// formatters.
func NewHybrid(cfg config.HybridFormatterConfig, standard *StandardStructured, custom *CustomTemplate) *Hybrid {
	h := &Hybrid{
		cfg:      cfg,
		standard: standard,
		custom:   custom,
	}
	if len(cfg.MetadataFields) > 0 {
		h.allow = make(map[string]bool, len(cfg.MetadataFields))
		for _, f := range cfg.MetadataFields {
			h.allow[strings.ToLower(f)] = true
		}
	}
	return h
}

func (f *Hybrid) Name() string { return NameHybrid }

func (f *Hybrid) CanFormat(ctx *Context) bool {
	return f.primary(ctx).CanFormat(ctx)
}

func (f *Hybrid) Format(ctx *Context) Result {
	primary := f.primary(ctx).Format(ctx)
	if !primary.OK {
		return primary
	}

	metadata := f.metadata(ctx)
	if ctx.DisableStringFormatting {
		return SuccessRaw(metadata)
	}

	blob, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(metadata)
	if err != nil {
		// Best effort: the primary message still stands on its own.
		return primary
	}

	return Success(primary.Message + f.cfg.Separator + string(blob))
}

// primary picks the delegate rendering the human-readable part.
func (f *Hybrid) primary(ctx *Context) Formatter {
	if ctx.Entry.TemplateName != "" || ctx.TemplateOverride != "" {
		return f.custom
	}
	return f.standard
}

// metadata builds the (optionally filtered) metadata blob.
func (f *Hybrid) metadata(ctx *Context) map[string]any {
	object := EntryObject(ctx.Entry)
	for k, v := range ctx.Properties {
		object[k] = v
	}

	if f.allow == nil {
		return object
	}

	filtered := make(map[string]any, len(f.allow))
	for k, v := range object {
		if f.allow[strings.ToLower(k)] {
			filtered[k] = v
		}
	}
	return filtered
}
