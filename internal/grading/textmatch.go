package grading

import (
	"strings"
	"unicode"
)

// normalize lowercases and collapses runs of whitespace so "  New  York "
// and "new york" compare equal.
func normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && len(out) > 0 {
			out = append(out, ' ')
		}
		space = false
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}
