package sink

import (
	"context"
	"log/slog"

	"mercator-hq/callisto/pkg/entry"
	"mercator-hq/callisto/pkg/format"
)

// Console writes formatted messages through slog. Raw results are emitted
// as structured attributes; rendered results as the message text.
type Console struct {
	logger *slog.Logger
}

// NewConsole creates a console sink over the given logger (slog.Default
// when nil).
func NewConsole(logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{logger: logger}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Write(ctx context.Context, level entry.Level, msg format.Result) error {
	if !msg.OK {
		c.logger.Log(ctx, slog.LevelWarn, msg.Reason)
		return nil
	}

	if msg.Raw {
		attrs := make([]any, 0, len(msg.Parameters)*2)
		for k, v := range msg.Parameters {
			attrs = append(attrs, k, v)
		}
		c.logger.Log(ctx, level.Slog(), "call recorded", attrs...)
		return nil
	}

	c.logger.Log(ctx, level.Slog(), msg.Message)
	return nil
}
