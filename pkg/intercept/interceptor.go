package intercept

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"mercator-hq/callisto/pkg/decision"
	"mercator-hq/callisto/pkg/entry"
	"mercator-hq/callisto/pkg/masking"
	"mercator-hq/callisto/pkg/queue"
)

// outputParamName is the name masking rules match the return value under.
const outputParamName = "result"

// Interceptor wraps method calls with automatic observability. It is
// stateless apart from its collaborators and safe for unlimited concurrent
// callers.
type Interceptor struct {
	resolver *decision.Resolver
	masker   *masking.Engine
	queue    *queue.Queue
	logger   *slog.Logger

	// onDrop is invoked once per entry rejected by the queue; onEnqueue
	// once per accepted entry.
	onDrop    func()
	onEnqueue func()
}

// New creates an interceptor over the given collaborators.
func New(resolver *decision.Resolver, masker *masking.Engine, q *queue.Queue, logger *slog.Logger) *Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interceptor{
		resolver: resolver,
		masker:   masker,
		queue:    q,
		logger:   logger,
	}
}

// SetDropHook installs a callback invoked once per dropped entry.
// Warm-up phase only.
func (i *Interceptor) SetDropHook(fn func()) {
	i.onDrop = fn
}

// SetEnqueueHook installs a callback invoked once per accepted entry.
// Warm-up phase only.
func (i *Interceptor) SetEnqueueHook(fn func()) {
	i.onEnqueue = fn
}

// Do executes one invocation under the resolved interception decision.
// Without a decision the underlying call runs directly, untimed. The
// underlying method's result and error are always returned unchanged; a
// panic is recorded and re-raised as-is.
func (i *Interceptor) Do(ctx context.Context, inv Invocation) (any, error) {
	d := i.resolver.Resolve(inv.Identity())
	if d == nil {
		return inv.Call(ctx)
	}

	start := entry.NewStart(inv.TypeName, inv.MethodName).
		WithRouting(d.Target, d.Formatter, d.Template, d.Level, d.ExceptionLevel)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		start = start.WithActivity(span.SpanContext().TraceID().String())
	}

	if d.Behavior.Includes(decision.LogInput) {
		start = start.WithInput(i.serializeArgs(inv, d))
	}

	i.enqueue(start)

	begin := time.Now()

	defer func() {
		if r := recover(); r != nil {
			completion := start.Faulted(time.Since(begin), "panic", fmt.Sprint(r), string(debug.Stack()))
			i.enqueue(completion)
			panic(r)
		}
	}()

	result, err := inv.Call(ctx)

	if err != nil {
		elapsed := time.Since(begin)
		completion := start.Faulted(elapsed, exceptionTypeName(err), err.Error(), "")
		i.enqueue(completion)
		return result, err
	}

	if async, ok := AsAsync(result); ok {
		go i.finalizeAsync(start, inv, d, async, begin)
		return result, nil
	}

	completion := start.Completed(time.Since(begin), i.serializeOutput(inv, d, result))
	i.enqueue(completion)
	return result, nil
}

// finalizeAsync runs on a continuation goroutine after the asynchronous
// result settles. Nothing raised here may reach the caller: the caller's
// own error, if any, was already reported as part of its completion.
func (i *Interceptor) finalizeAsync(start entry.Entry, inv Invocation, d *decision.Decision, async Async, begin time.Time) {
	defer func() {
		if r := recover(); r != nil {
			// Best-effort fallback entry; then the failure is discarded.
			i.logger.Warn("Async continuation failed",
				"method", inv.TypeName+"."+inv.MethodName,
				"panic", fmt.Sprint(r),
			)
			fallback := start.Faulted(time.Since(begin), "ContinuationFailure", fmt.Sprint(r), "")
			i.enqueue(fallback)
		}
	}()

	value, err := async.Settle()
	elapsed := time.Since(begin)

	var completion entry.Entry
	switch {
	case err == nil:
		completion = start.Completed(elapsed, i.serializeOutput(inv, d, value))
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		completion = start.Faulted(elapsed, "Canceled", err.Error(), "")
	default:
		completion = start.Faulted(elapsed, exceptionTypeName(err), err.Error(), "")
	}

	i.enqueue(completion)
}

// serializeArgs masks and serializes the invocation's arguments.
func (i *Interceptor) serializeArgs(inv Invocation, d *decision.Decision) []entry.Param {
	params := make([]entry.Param, 0, len(inv.Args))
	for _, arg := range inv.Args {
		masked := i.masker.Mask(inv.TypeName, inv.MethodName, arg.Name, arg.Value, d.MaskParameters, d.MaskReplacement)
		params = append(params, entry.Param{
			Name:  arg.Name,
			Type:  typeName(arg.Value),
			Value: masked,
		})
	}
	return params
}

// serializeOutput masks and serializes the return value when the decision
// includes output logging.
func (i *Interceptor) serializeOutput(inv Invocation, d *decision.Decision, value any) *entry.Output {
	if !d.Behavior.Includes(decision.LogOutput) || value == nil {
		return nil
	}
	masked := i.masker.Mask(inv.TypeName, inv.MethodName, outputParamName, value, d.MaskParameters, d.MaskReplacement)
	return &entry.Output{
		Type:  typeName(value),
		Value: masked,
	}
}

// enqueue pushes an entry onto the background queue, reporting a drop
// exactly once, without retry.
func (i *Interceptor) enqueue(e entry.Entry) {
	if i.queue.TryEnqueue(&e) {
		if i.onEnqueue != nil {
			i.onEnqueue()
		}
		return
	}
	i.logger.Warn("Log entry dropped: queue at capacity",
		"method", e.TypeName+"."+e.MethodName,
		"queue_capacity", i.queue.Capacity(),
	)
	if i.onDrop != nil {
		i.onDrop()
	}
}

// typeName renders a value's type for the entry payload.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

// exceptionTypeName reduces an error's Go type to its bare name, so a
// *billing.InsufficientFundsError reports as "InsufficientFundsError".
func exceptionTypeName(err error) string {
	full := fmt.Sprintf("%T", err)
	full = strings.TrimLeft(full, "*")
	if idx := strings.LastIndex(full, "."); idx >= 0 {
		return full[idx+1:]
	}
	return full
}
