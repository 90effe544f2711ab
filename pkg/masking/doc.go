// Package masking redacts sensitive values before they are attached to a
// log entry and leave the process boundary.
//
// Rule resolution order, highest priority first:
//
//  1. exact call-site parameter annotation (RegisterParameter)
//  2. configured name patterns (the matched service rule's patterns, then
//     the global patterns)
//  3. type-level annotation (RegisterType; the whole value is replaced)
//  4. `mask` struct tags on a complex value's fields (a shallow masked
//     copy is produced; untagged fields are copied through unmodified)
//
// When no rule exists anywhere, Mask short-circuits and returns the value
// untouched, so unmasked systems pay nothing.
//
// Failures inside the engine never abort the log entry. By default a failed
// masking attempt passes the original value through (fail open) and is
// counted; masking.fail_closed switches to replacing the value instead.
package masking
