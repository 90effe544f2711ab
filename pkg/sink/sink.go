package sink

import (
	"context"

	"mercator-hq/callisto/pkg/entry"
	"mercator-hq/callisto/pkg/format"
)

// Sink receives formatted messages for one or more named targets.
// Implementations own all I/O and must tolerate concurrent calls from the
// queue consumer.
type Sink interface {
	// Name returns the sink's registration name.
	Name() string

	// Write delivers one formatted message at the given level. A raw
	// result carries the structured parameter map instead of rendered
	// text.
	Write(ctx context.Context, level entry.Level, msg format.Result) error
}

// Registry routes entries to sinks by target name. Registration happens
// during warm-up; afterwards the registry is read-only.
type Registry struct {
	sinks    map[string]Sink
	fallback Sink
}

// NewRegistry creates a registry with the given fallback sink, used for
// targets no sink is registered under.
func NewRegistry(fallback Sink) *Registry {
	return &Registry{
		sinks:    make(map[string]Sink),
		fallback: fallback,
	}
}

// Register installs a sink under a target name. Warm-up phase only.
func (r *Registry) Register(target string, s Sink) {
	r.sinks[target] = s
}

// For returns the sink for a target, falling back when none is registered.
func (r *Registry) For(target string) Sink {
	if s, ok := r.sinks[target]; ok {
		return s
	}
	return r.fallback
}
