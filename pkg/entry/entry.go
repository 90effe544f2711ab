package entry

import (
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Param is one serialized input parameter of an intercepted call.
type Param struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Output is the serialized return value of an intercepted call.
type Output struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Entry records one intercepted method call. A start entry carries identity,
// routing hints, and (optionally) input parameters; the completion transition
// adds duration and outcome. Values are copied on every transition so an
// Entry already enqueued can never be observed mid-change.
type Entry struct {
	// ID uniquely identifies the call across start and completion entries.
	ID string

	// MethodName and TypeName identify the intercepted method.
	MethodName string
	TypeName   string

	// Timestamp is the wall-clock start of the call. Duration is measured
	// with the monotonic clock and is only meaningful on completion entries
	// (HasDuration reports whether it was set).
	Timestamp   time.Time
	Duration    time.Duration
	HasDuration bool

	// Outcome. ExceptionType, ExceptionMessage and StackTrace are empty
	// unless the call faulted.
	Success          bool
	ExceptionType    string
	ExceptionMessage string
	StackTrace       string

	// Payload, already masked and serialized by the interceptor.
	InputParameters []Param
	OutputValue     *Output

	// Routing and formatting hints resolved from the interception decision.
	Target         string
	FormatterType  string
	TemplateName   string
	Level          Level
	ExceptionLevel Level

	// ActivityID carries an external trace correlation id, if any.
	ActivityID string

	// GoroutineID is the goroutine the call started on.
	GoroutineID int
}

// NewStart creates the start entry for a call. Input parameters and routing
// hints are attached through the With transitions.
func NewStart(typeName, methodName string) Entry {
	return Entry{
		ID:          uuid.NewString(),
		MethodName:  methodName,
		TypeName:    typeName,
		Timestamp:   time.Now(),
		GoroutineID: goroutineID(),
	}
}

// WithRouting returns a copy carrying the resolved routing and format hints.
func (e Entry) WithRouting(target, formatter, template string, level, exceptionLevel Level) Entry {
	e.Target = target
	e.FormatterType = formatter
	e.TemplateName = template
	e.Level = level
	e.ExceptionLevel = exceptionLevel
	return e
}

// WithInput returns a copy carrying the serialized input parameters.
func (e Entry) WithInput(params []Param) Entry {
	e.InputParameters = append([]Param(nil), params...)
	return e
}

// WithActivity returns a copy carrying a trace correlation id.
func (e Entry) WithActivity(activityID string) Entry {
	e.ActivityID = activityID
	return e
}

// Completed returns the successful completion of e. The output may be nil
// when the decision does not include output logging.
func (e Entry) Completed(d time.Duration, output *Output) Entry {
	e.Duration = d
	e.HasDuration = true
	e.Success = true
	e.OutputValue = output
	return e
}

// Faulted returns the failed completion of e.
func (e Entry) Faulted(d time.Duration, exceptionType, message, stackTrace string) Entry {
	e.Duration = d
	e.HasDuration = true
	e.Success = false
	e.ExceptionType = exceptionType
	e.ExceptionMessage = message
	e.StackTrace = stackTrace
	return e
}

// EffectiveLevel returns the level the entry should be emitted at,
// honoring the exception level for failed completions.
func (e Entry) EffectiveLevel() Level {
	if !e.Success && e.HasDuration && e.ExceptionLevel != "" {
		return e.ExceptionLevel
	}
	if e.Level == "" {
		return LevelInfo
	}
	return e.Level
}

// goroutineID parses the current goroutine id out of the stack header.
// This runs once per intercepted call, off the formatting hot path.
func goroutineID() int {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return id
}
