// Callisto instruments service method calls with structured, asynchronous
// logging without hand-written log statements.
//
// It wraps method calls in an interceptor that times execution, classifies
// outcomes (including asynchronous completion), masks sensitive values, and
// hands immutable call records to a bounded background queue, where a
// pluggable formatting pipeline renders them for the configured sinks.
//
// Usage:
//
//	# Validate a configuration file
//	callisto validate --config callisto.yaml
//
//	# Run the demo pipeline against the console sink
//	callisto demo --config callisto.yaml
//
//	# Show version information
//	callisto version
package main

func main() {
	Execute()
}
