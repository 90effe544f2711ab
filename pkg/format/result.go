package format

// Result is the outcome of one formatting attempt, consumed by the sink
// adapter.
type Result struct {
	// OK distinguishes a rendered message from a formatting failure.
	OK bool

	// Message is the rendered text. Empty when Raw is set.
	Message string

	// Parameters carries the structured parameter map for sinks that
	// serialize downstream (raw mode), or translated parameters attached
	// alongside the message.
	Parameters map[string]any

	// Raw marks a structured passthrough result: the sink receives
	// Parameters instead of a pre-rendered string.
	Raw bool

	// Reason describes the failure when OK is false.
	Reason string
}

// Success returns a rendered-message result.
func Success(message string) Result {
	return Result{OK: true, Message: message}
}

// SuccessWithParams returns a rendered message with attached parameters.
func SuccessWithParams(message string, params map[string]any) Result {
	return Result{OK: true, Message: message, Parameters: params}
}

// SuccessRaw returns a structured passthrough result.
func SuccessRaw(params map[string]any) Result {
	return Result{OK: true, Raw: true, Parameters: params}
}

// Failure returns a formatting-failure result.
func Failure(reason string) Result {
	return Result{OK: false, Reason: reason}
}
