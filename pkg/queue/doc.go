// Package queue implements the bounded background log queue decoupling
// call-site timing from sink I/O.
//
// TryEnqueue never blocks: when the queue is at capacity it fails
// immediately and the entry is dropped. This is deliberate admission
// control — logging must never throttle application throughput, so under
// sustained overload completeness is sacrificed, one counted drop at a
// time.
//
// A single Consumer goroutine drains entries in batches and hands them to
// the processing callback. On Stop the consumer drains what it can before
// the drain deadline; nothing survives a hard process kill.
package queue
