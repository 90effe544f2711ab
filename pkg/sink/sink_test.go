package sink

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/callisto/pkg/entry"
	"mercator-hq/callisto/pkg/format"
)

func TestRegistryFallback(t *testing.T) {
	fallback := NewConsole(nil)
	r := NewRegistry(fallback)

	named := NewConsole(nil)
	r.Register("audit", named)

	if got := r.For("audit"); got != named {
		t.Error("registered target must resolve to its sink")
	}
	if got := r.For("unknown"); got != fallback {
		t.Error("unknown target must resolve to the fallback")
	}
}

func TestConsoleRenderedMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := NewConsole(logger)

	err := c.Write(context.Background(), entry.LevelWarn, format.Success("svc.T.M completed in 3ms"))
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "svc.T.M completed in 3ms") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("level not honored: %q", out)
	}
}

func TestConsoleRawResult(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := NewConsole(logger)

	err := c.Write(context.Background(), entry.LevelInfo, format.SuccessRaw(map[string]any{
		"method_name": "ProcessPayment",
		"success":     true,
	}))
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "method_name=ProcessPayment") {
		t.Errorf("structured attribute missing: %q", out)
	}
}

func TestConsoleFailureResult(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := NewConsole(logger)

	if err := c.Write(context.Background(), entry.LevelInfo, format.Failure("no formatter")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no formatter") {
		t.Errorf("output = %q", buf.String())
	}
}
