// Package intercept wraps service method calls with automatic structured
// observability.
//
// The essential contract is: observe arguments, time execution, observe the
// result or error, without altering either. An Invocation describes one
// call (identity, arguments, and the function that performs it); the
// Interceptor consults the decision cache, and either bypasses the call
// with zero overhead or surrounds it with start and completion log entries
// pushed onto the background queue.
//
// Methods that return a Future (or a receivable channel) are finalized on a
// continuation goroutine after the asynchronous result settles; the calling
// goroutine is never blocked waiting for it, and nothing that goes wrong
// inside the continuation can reach the caller.
package intercept
