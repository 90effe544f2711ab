// Package decision computes and caches per-method interception decisions.
//
// A Decision tells the interceptor what to log for one method, at which
// level, and where the resulting entries are routed. Decisions are resolved
// from explicit per-method overrides and the configured service rules during
// warm-up, memoized on first encounter, and never invalidated at runtime:
// configuration is fixed after startup.
//
// Resolution order, highest priority first:
//
//  1. explicit per-method override (or exclusion)
//  2. exact type-name match in configuration
//  3. wildcard pattern match on the type name
//  4. global default
//
// A nil Decision means the method is not instrumented at all; the
// interceptor bypasses it with zero overhead.
package decision
