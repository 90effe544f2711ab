// Package pipeline is the composition root of the observability pipeline.
//
// A Pipeline owns every moving part: the decision resolver, the masking
// engine, the interceptor, the bounded queue and its consumer, the
// formatter selector, per-target translators, the sink registry, the
// prometheus collector, and the optional periodic stats report and config
// file watcher. Construct one at startup, register overrides and sinks,
// then Start it; the embedder only ever touches the Interceptor afterwards.
package pipeline
