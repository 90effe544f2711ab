package intercept

import (
	"context"

	"mercator-hq/callisto/pkg/decision"
)

// Arg is one named argument of an intercepted call.
type Arg struct {
	Name  string
	Value any
}

// Invocation describes one method call to be wrapped. Call performs the
// underlying method; the interceptor invokes it exactly once and returns
// its result and error to the caller unchanged.
type Invocation struct {
	// TypeName and MethodName identify the method for decision lookup.
	TypeName   string
	MethodName string

	// Args are the call's arguments, in declaration order.
	Args []Arg

	// Call executes the underlying method.
	Call func(ctx context.Context) (any, error)
}

// Identity returns the method identity used for decision lookup.
func (inv Invocation) Identity() decision.Identity {
	return decision.Identity{TypeName: inv.TypeName, MethodName: inv.MethodName}
}
