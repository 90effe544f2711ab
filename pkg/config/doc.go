// Package config defines the configuration surface for the Callisto
// observability pipeline and implements loading, defaulting, validation,
// environment overrides, and the process-wide singleton.
//
// Configuration is fixed after startup: the interception decision cache is
// warmed from the loaded Config and never invalidated at runtime. The
// optional file watcher only reports that the on-disk file has drifted from
// the running configuration; it never hot-reloads.
//
// The loading sequence is:
//
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides (CALLISTO_*)
//  4. Validate the final configuration
package config
