// Package template renders message templates with {{placeholder}} values
// taken from the matched inbound event.
package template

import "strings"

// Render substitutes every {{name}} placeholder with its value from vars.
// Placeholders without a value are left in place so broken templates stay
// visible in the delivered message instead of silently disappearing.
func Render(template string, vars map[string]string) string {
	if !strings.Contains(template, "{{") {
		return template
	}

	var out strings.Builder

	out.Grow(len(template))

	rest := template

	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			out.WriteString(rest)

			break
		}

		end := strings.Index(rest[start:], "}}")
		if end < 0 {
			out.WriteString(rest)

			break
		}

		end += start

		out.WriteString(rest[:start])

		name := strings.TrimSpace(rest[start+2 : end])

		if value, ok := vars[name]; ok {
			out.WriteString(value)
		} else {
			out.WriteString(rest[start : end+2])
		}

		rest = rest[end+2:]
	}

	return out.String()
}
