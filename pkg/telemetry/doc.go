// Package telemetry provides observability for the Callisto pipeline
// itself.
//
// # Components
//
//   - metrics: Prometheus metrics for the queue, formatting, and masking
//     subsystems
//
// The business log entries Callisto produces are not telemetry; they flow
// through the background queue to sink adapters. This package only covers
// the pipeline's own health: how many entries were accepted, dropped, and
// drained, and how often formatting or masking had to fall back.
package telemetry
