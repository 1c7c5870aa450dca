package session

import (
	"html"
	"strings"
)

// stripMarkup reduces user-authored text to plain text: tags are removed,
// entities are resolved, and the contents of script and style elements are
// dropped entirely rather than leaking through as text.
func stripMarkup(input string) string {
	var plain strings.Builder
	plain.Grow(len(input))

	var tag strings.Builder
	depth := 0
	dropUntil := "" // closing tag name that ends a dropped element body

	for _, r := range input {
		switch {
		case r == '<':
			depth++
			if depth == 1 {
				tag.Reset()
			}
		case r == '>':
			if depth > 0 {
				depth--
				if depth == 0 {
					name, closing := parseTagName(tag.String())
					switch {
					case dropUntil == "" && !closing && (name == "script" || name == "style"):
						dropUntil = name
					case dropUntil != "" && closing && name == dropUntil:
						dropUntil = ""
					}
				}
				continue
			}
			if dropUntil == "" {
				plain.WriteRune(r)
			}
		default:
			if depth == 1 {
				tag.WriteRune(r)
			}
			if depth == 0 && dropUntil == "" {
				plain.WriteRune(r)
			}
		}
	}

	return html.UnescapeString(plain.String())
}

func parseTagName(raw string) (name string, closing bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "/") {
		closing = true
		raw = strings.TrimSpace(raw[1:])
	}
	for i, r := range raw {
		if r == ' ' || r == '\t' || r == '\n' || r == '/' {
			raw = raw[:i]
			break
		}
	}
	return strings.ToLower(raw), closing
}
