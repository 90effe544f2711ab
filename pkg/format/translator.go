package format

import (
	"strings"
	"unicode"
)

// Translator rewrites a formatter's generic {PropertyName} placeholder
// template into a specific sink's native template syntax and renames or
// filters parameters to match the sink's conventions.
type Translator interface {
	// Name returns the translator's registration name.
	Name() string

	// Translate converts the generic template and parameters. The returned
	// parameter map may alias the input when no renaming applies.
	Translate(template string, params map[string]any) (string, map[string]any)
}

// IdentityTranslator passes the generic syntax through unchanged, for sinks
// that consume {PropertyName} templates natively.
type IdentityTranslator struct{}

func (IdentityTranslator) Name() string { return "identity" }

func (IdentityTranslator) Translate(template string, params map[string]any) (string, map[string]any) {
	return template, params
}

// SnakeCaseTranslator rewrites {PropertyName} into {property_name} and
// renames parameters accordingly, for structured sinks with snake_case
// conventions.
type SnakeCaseTranslator struct{}

func (SnakeCaseTranslator) Name() string { return "snakecase" }

func (SnakeCaseTranslator) Translate(template string, params map[string]any) (string, map[string]any) {
	translated := rewritePlaceholders(template, func(name string) string {
		return "{" + ToSnakeCase(name) + "}"
	})

	if len(params) == 0 {
		return translated, params
	}
	renamed := make(map[string]any, len(params))
	for k, v := range params {
		renamed[ToSnakeCase(k)] = v
	}
	return translated, renamed
}

// PrintfTranslator rewrites {PropertyName} into %v verbs, for sinks that
// consume printf-style templates. Parameter order follows placeholder
// order; the ordered arguments are attached under the "args" key.
type PrintfTranslator struct{}

func (PrintfTranslator) Name() string { return "printf" }

func (PrintfTranslator) Translate(template string, params map[string]any) (string, map[string]any) {
	var args []any
	translated := rewritePlaceholders(template, func(name string) string {
		if params != nil {
			if v, ok := lookupFold(params, name); ok {
				args = append(args, v)
				return "%v"
			}
		}
		args = append(args, "{"+name+"}")
		return "%v"
	})

	if len(args) == 0 {
		return translated, params
	}
	return translated, map[string]any{"args": args}
}

// rewritePlaceholders applies fn to every {Name} placeholder.
func rewritePlaceholders(template string, fn func(name string) string) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		ch := template[i]
		if ch != '{' {
			b.WriteByte(ch)
			continue
		}
		end := strings.IndexByte(template[i+1:], '}')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}
		b.WriteString(fn(template[i+1 : i+1+end]))
		i += end + 1
	}

	return b.String()
}

// lookupFold finds a key case-insensitively.
func lookupFold(params map[string]any, name string) (any, bool) {
	if v, ok := params[name]; ok {
		return v, true
	}
	for k, v := range params {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// ToSnakeCase converts PascalCase or camelCase names to snake_case.
func ToSnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Break before an upper rune that starts a new word: not at
			// position 0, and either the previous rune is lower, or the
			// next one is.
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
