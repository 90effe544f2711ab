package format

import "strings"

// Placeholders extracts the {Name} placeholders of a template, in order.
// Malformed trailing braces are ignored.
func Placeholders(template string) []string {
	var names []string
	for i := 0; i < len(template); i++ {
		if template[i] != '{' {
			continue
		}
		end := strings.IndexByte(template[i+1:], '}')
		if end < 0 {
			break
		}
		name := template[i+1 : i+1+end]
		if name != "" && !strings.ContainsAny(name, "{} ") {
			names = append(names, name)
		}
		i += end + 1
	}
	return names
}

// Substitute replaces every {Name} placeholder with the string-rendered
// parameter value, matching names case-insensitively. Placeholders with no
// matching parameter are left verbatim.
func Substitute(template string, ctx *Context) string {
	var b strings.Builder
	b.Grow(len(template) + 32)

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
		name := template[i+1 : i+1+end]
		if v, ok := ctx.Lookup(name); ok {
			b.WriteString(renderValue(v))
		} else {
			b.WriteString(template[i : i+end+2])
		}
		i += end + 1
	}

	return b.String()
}

// resolvable reports whether every placeholder of the template has a
// matching parameter. Used by strict validation.
func resolvable(template string, ctx *Context) bool {
	for _, name := range Placeholders(template) {
		if _, ok := ctx.Lookup(name); !ok {
			return false
		}
	}
	return true
}

// balanced reports whether the template's braces are balanced and
// un-nested.
func balanced(template string) bool {
	depth := 0
	for i := 0; i < len(template); i++ {
		switch template[i] {
		case '{':
			depth++
			if depth > 1 {
				return false
			}
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
