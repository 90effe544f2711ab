// Package entry defines the immutable record of one intercepted method call.
//
// An Entry is created when an instrumented call starts and completed exactly
// once when the call settles (synchronously or on an async continuation).
// All transitions return a new value; an Entry is never mutated after it has
// been handed to the background queue.
package entry
