// Package metrics implements Prometheus metrics for the observability
// pipeline: queue throughput and drops, formatting fallbacks, and masking
// failures, plus a live queue-depth gauge.
//
// The pipeline registers one Collector per instance. Exposure is the
// embedder's choice; Collector.Handler returns a standard promhttp handler
// but the pipeline itself opens no ports.
package metrics
