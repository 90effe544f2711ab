package format

import (
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/entry"
)

func baseConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func completedEntry() entry.Entry {
	e := entry.NewStart("billing.PaymentService", "ProcessPayment")
	return e.Completed(42*time.Millisecond, nil)
}

func TestStandardStructured(t *testing.T) {
	f := NewStandardStructured()
	cfg := baseConfig()

	t.Run("start", func(t *testing.T) {
		e := entry.NewStart("billing.PaymentService", "ProcessPayment")
		got := f.Format(NewContext(&e, cfg))
		if !got.OK || got.Message != "billing.PaymentService.ProcessPayment started" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("success", func(t *testing.T) {
		e := completedEntry()
		got := f.Format(NewContext(&e, cfg))
		if got.Message != "billing.PaymentService.ProcessPayment completed in 42ms" {
			t.Errorf("got %q", got.Message)
		}
	})

	t.Run("failure appends exception", func(t *testing.T) {
		e := entry.NewStart("billing.PaymentService", "ProcessPayment").
			Faulted(42*time.Millisecond, "TimeoutError", "gateway timed out", "")
		got := f.Format(NewContext(&e, cfg))
		want := "billing.PaymentService.ProcessPayment failed after 42ms: gateway timed out"
		if got.Message != want {
			t.Errorf("got %q, want %q", got.Message, want)
		}
	})

	t.Run("raw mode", func(t *testing.T) {
		e := completedEntry()
		ctx := NewContext(&e, cfg)
		ctx.DisableStringFormatting = true
		got := f.Format(ctx)
		if !got.Raw || got.Parameters["MethodName"] != "ProcessPayment" {
			t.Errorf("got %+v", got)
		}
	})
}

func TestCustomTemplate(t *testing.T) {
	cfg := baseConfig()
	cfg.Templates = map[string]config.TemplateConfig{
		"PaymentAudit": {Success: "💰 PAYMENT: {MethodName} completed"},
	}
	f := NewCustomTemplate(cfg.Formatters.Custom)

	e := completedEntry()
	e.TemplateName = "PaymentAudit"

	got := f.Format(NewContext(&e, cfg))
	if got.Message != "💰 PAYMENT: ProcessPayment completed" {
		t.Errorf("got %q", got.Message)
	}
}

func TestCustomTemplateChain(t *testing.T) {
	enabled := false
	cfg := baseConfig()
	cfg.Templates = map[string]config.TemplateConfig{
		"billing.PaymentService":                {Success: "type-level {MethodName}"},
		"billing.PaymentService.ProcessPayment": {Success: "method-level {MethodName}"},
		"Default":                               {Success: "default {MethodName}"},
		"Disabled":                              {Success: "never", Enabled: &enabled},
	}
	f := NewCustomTemplate(cfg.Formatters.Custom)

	tests := []struct {
		name    string
		prepare func(e *entry.Entry, ctx *Context)
		want    string
	}{
		{
			"entry hint wins",
			func(e *entry.Entry, ctx *Context) { e.TemplateName = "Default" },
			"default ProcessPayment",
		},
		{
			"context override beats type",
			func(e *entry.Entry, ctx *Context) { ctx.TemplateOverride = "Default" },
			"default ProcessPayment",
		},
		{
			"type-level",
			func(e *entry.Entry, ctx *Context) {},
			"type-level ProcessPayment",
		},
		{
			"disabled template falls through",
			func(e *entry.Entry, ctx *Context) { e.TemplateName = "Disabled" },
			"type-level ProcessPayment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := completedEntry()
			ctx := NewContext(&e, cfg)
			tt.prepare(&e, ctx)
			got := f.Format(ctx)
			if got.Message != tt.want {
				t.Errorf("got %q, want %q", got.Message, tt.want)
			}
		})
	}
}

func TestCustomTemplateErrorVariant(t *testing.T) {
	cfg := baseConfig()
	cfg.Templates = map[string]config.TemplateConfig{
		"billing.PaymentService": {
			Success: "ok {MethodName}",
			Error:   "boom {MethodName}: {ExceptionMessage}",
		},
	}
	f := NewCustomTemplate(cfg.Formatters.Custom)

	e := entry.NewStart("billing.PaymentService", "ProcessPayment").
		Faulted(time.Millisecond, "Err", "declined", "")
	got := f.Format(NewContext(&e, cfg))
	if got.Message != "boom ProcessPayment: declined" {
		t.Errorf("got %q", got.Message)
	}
}

func TestCustomTemplateStrictValidation(t *testing.T) {
	cfg := baseConfig()
	cfg.Formatters.Custom.StrictValidation = true
	cfg.Templates = map[string]config.TemplateConfig{
		"billing.PaymentService": {Success: "{NoSuchParam} value"},
	}
	f := NewCustomTemplate(cfg.Formatters.Custom)

	e := completedEntry()
	got := f.Format(NewContext(&e, cfg))

	// The unresolvable candidate is skipped; the hard fallback renders.
	if got.Message != "billing.PaymentService.ProcessPayment success=true" {
		t.Errorf("got %q", got.Message)
	}
}

func TestCustomTemplateHardFallback(t *testing.T) {
	f := NewCustomTemplate(config.CustomFormatterConfig{})
	e := completedEntry()
	got := f.Format(NewContext(&e, baseConfig()))
	if got.Message != "billing.PaymentService.ProcessPayment success=true" {
		t.Errorf("got %q", got.Message)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	f := NewJSON(config.JSONFormatterConfig{})

	e := entry.NewStart("billing.PaymentService", "ProcessPayment")
	e = e.WithInput([]entry.Param{{Name: "amount", Type: "float64", Value: 99.95}})
	e = e.Completed(42*time.Millisecond, &entry.Output{Type: "string", Value: "approved"})

	got := f.Format(NewContext(&e, baseConfig()))
	if !got.OK {
		t.Fatalf("got %+v", got)
	}

	var parsed map[string]any
	if err := jsoniter.Unmarshal([]byte(got.Message), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["method_name"] != "ProcessPayment" {
		t.Errorf("method_name = %v", parsed["method_name"])
	}
	if parsed["success"] != true {
		t.Errorf("success = %v", parsed["success"])
	}
	if parsed["duration"] != float64(42) {
		t.Errorf("duration = %v", parsed["duration"])
	}
	out, ok := parsed["output_value"].(map[string]any)
	if !ok || out["value"] != "approved" {
		t.Errorf("output_value = %v", parsed["output_value"])
	}
}

func TestJSONNonSerializableValue(t *testing.T) {
	f := NewJSON(config.JSONFormatterConfig{})

	e := entry.NewStart("svc.T", "M")
	e = e.WithInput([]entry.Param{{Name: "ch", Type: "chan int", Value: make(chan int)}})
	e = e.Completed(time.Millisecond, nil)

	got := f.Format(NewContext(&e, baseConfig()))
	if !got.OK {
		t.Fatalf("got %+v", got)
	}
	if err := jsoniter.Unmarshal([]byte(got.Message), &map[string]any{}); err != nil {
		t.Errorf("channel value must degrade to its string form: %v", err)
	}
}

func TestJSONRawObject(t *testing.T) {
	f := NewJSON(config.JSONFormatterConfig{RawObject: true})
	e := completedEntry()

	got := f.Format(NewContext(&e, baseConfig()))
	if !got.Raw {
		t.Fatalf("expected a raw result, got %+v", got)
	}
	if got.Parameters["method_name"] != "ProcessPayment" {
		t.Errorf("parameters = %v", got.Parameters)
	}
}

func TestSuccessError(t *testing.T) {
	f := NewSuccessError()
	cfg := baseConfig()

	t.Run("success with sections", func(t *testing.T) {
		e := entry.NewStart("billing.PaymentService", "ProcessPayment")
		e = e.WithInput([]entry.Param{{Name: "amount", Type: "float64", Value: 99.95}})
		e = e.Completed(42*time.Millisecond, &entry.Output{Type: "string", Value: "approved"})

		got := f.Format(NewContext(&e, cfg)).Message
		if !strings.HasPrefix(got, "✅ billing.PaymentService.ProcessPayment succeeded in 42ms") {
			t.Errorf("got %q", got)
		}
		if !strings.Contains(got, "| input: amount=99.95") {
			t.Errorf("input section missing: %q", got)
		}
		if !strings.Contains(got, "| output: approved") {
			t.Errorf("output section missing: %q", got)
		}
	})

	t.Run("failure marker", func(t *testing.T) {
		e := entry.NewStart("svc.T", "M").Faulted(5*time.Millisecond, "Err", "nope", "")
		got := f.Format(NewContext(&e, cfg)).Message
		if !strings.HasPrefix(got, "❌ svc.T.M failed in 5ms [Err: nope]") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("start marker", func(t *testing.T) {
		e := entry.NewStart("svc.T", "M")
		got := f.Format(NewContext(&e, cfg)).Message
		if got != "▶ svc.T.M started" {
			t.Errorf("got %q", got)
		}
	})
}

func TestHybrid(t *testing.T) {
	cfg := baseConfig()
	f := NewHybrid(cfg.Formatters.Hybrid, NewStandardStructured(), NewCustomTemplate(cfg.Formatters.Custom))

	e := completedEntry()
	got := f.Format(NewContext(&e, cfg)).Message

	parts := strings.SplitN(got, cfg.Formatters.Hybrid.Separator, 2)
	if len(parts) != 2 {
		t.Fatalf("expected message%smetadata, got %q", cfg.Formatters.Hybrid.Separator, got)
	}
	if parts[0] != "billing.PaymentService.ProcessPayment completed in 42ms" {
		t.Errorf("primary = %q", parts[0])
	}
	var metadata map[string]any
	if err := jsoniter.Unmarshal([]byte(parts[1]), &metadata); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if metadata["method_name"] != "ProcessPayment" {
		t.Errorf("metadata = %v", metadata)
	}
}

func TestHybridAllowList(t *testing.T) {
	cfg := baseConfig()
	cfg.Formatters.Hybrid.MetadataFields = []string{"method_name", "duration"}
	f := NewHybrid(cfg.Formatters.Hybrid, NewStandardStructured(), NewCustomTemplate(cfg.Formatters.Custom))

	e := completedEntry()
	got := f.Format(NewContext(&e, cfg)).Message

	parts := strings.SplitN(got, cfg.Formatters.Hybrid.Separator, 2)
	var metadata map[string]any
	if err := jsoniter.Unmarshal([]byte(parts[1]), &metadata); err != nil {
		t.Fatal(err)
	}
	if len(metadata) != 2 {
		t.Errorf("allow-list not applied: %v", metadata)
	}
	if metadata["method_name"] != "ProcessPayment" || metadata["duration"] != float64(42) {
		t.Errorf("metadata = %v", metadata)
	}
}
