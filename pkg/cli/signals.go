package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext derives a context that is canceled on SIGINT or SIGTERM.
// The returned stop function releases the signal registration.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
