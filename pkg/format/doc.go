// Package format renders log entries into sink-ready messages.
//
// A Formatter is a stateless strategy implementing Format and CanFormat;
// the Selector picks one per entry (decision formatter, then configured
// default, then the standard formatter) and guards every call: a formatter
// that rejects an entry, returns a failure, or panics is replaced by a
// guaranteed-safe fallback rendering when fallback formatting is enabled.
//
// Message templates use the generic {PropertyName} placeholder syntax with
// case-insensitive matching. A Translator rewrites that generic syntax into
// whatever the active sink natively expects and renames parameters to the
// sink's conventions.
package format
