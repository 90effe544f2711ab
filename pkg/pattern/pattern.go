// Package pattern implements the wildcard name patterns used by service
// rules, method exclusions, and masking rules.
//
// A pattern is an exact name, or a wildcard form: "prefix*", "*suffix",
// "*contains*". A lone "*" matches everything. Multi-segment globs are
// deliberately not supported; configuration stays greppable.
package pattern

import "strings"

// Match reports whether name matches the pattern, case-sensitively.
func Match(pattern, name string) bool {
	return match(pattern, name)
}

// MatchFold reports whether name matches the pattern, ignoring case.
func MatchFold(pattern, name string) bool {
	return match(strings.ToLower(pattern), strings.ToLower(name))
}

// IsWildcard reports whether the pattern contains a wildcard.
func IsWildcard(pattern string) bool {
	return strings.Contains(pattern, "*")
}

func match(pattern, name string) bool {
	if pattern == "*" {
		return true
	}

	leading := strings.HasPrefix(pattern, "*")
	trailing := strings.HasSuffix(pattern, "*")
	core := strings.Trim(pattern, "*")

	switch {
	case leading && trailing:
		return strings.Contains(name, core)
	case trailing:
		return strings.HasPrefix(name, core)
	case leading:
		return strings.HasSuffix(name, core)
	default:
		return name == pattern
	}
}

// MatchAny reports whether name matches any of the patterns.
func MatchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if Match(p, name) {
			return true
		}
	}
	return false
}
