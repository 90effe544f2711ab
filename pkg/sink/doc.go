// Package sink defines the boundary between the formatting pipeline and
// the logging backends.
//
// The core never performs I/O itself: the consumer hands each formatted
// message, together with its routing metadata (target name and level), to
// the Sink registered for the entry's target. The Console sink over slog is
// the reference adapter; heavier backends live with the embedder.
package sink
