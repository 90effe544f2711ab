package decision

import "mercator-hq/callisto/pkg/entry"

// Behavior selects which payloads are attached to a method's entries.
type Behavior int

const (
	// None disables instrumentation entirely.
	None Behavior = 0

	// LogInput attaches masked input parameters to the start entry.
	LogInput Behavior = 1 << iota

	// LogOutput attaches the masked return value to the completion entry.
	LogOutput

	// LogBoth attaches both payloads.
	LogBoth = LogInput | LogOutput
)

// Includes reports whether b covers the given behavior bits.
func (b Behavior) Includes(other Behavior) bool {
	return b&other == other
}

// String returns a stable name for the behavior.
func (b Behavior) String() string {
	switch b {
	case None:
		return "none"
	case LogInput:
		return "input"
	case LogOutput:
		return "output"
	case LogBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Identity names one method on one service type.
type Identity struct {
	TypeName   string
	MethodName string
}

// String returns the canonical "Type.Method" form.
func (id Identity) String() string {
	return id.TypeName + "." + id.MethodName
}

// Decision is the precomputed interception policy for one method.
type Decision struct {
	// Behavior selects the attached payloads.
	Behavior Behavior

	// Level and ExceptionLevel select the emit level for successful and
	// failed completions.
	Level          entry.Level
	ExceptionLevel entry.Level

	// Target is the named sink entries are routed to.
	Target string

	// Formatter names the formatter rendering this method's entries.
	Formatter string

	// Template names the message template for template-driven formatters.
	// Empty means the formatter's own resolution chain applies.
	Template string

	// MaskParameters and MaskReplacement carry the matched rule's masking
	// settings down to the interceptor.
	MaskParameters  []string
	MaskReplacement string
}
