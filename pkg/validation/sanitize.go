package validation

import (
	"regexp"
	"strings"
)

// charRefPattern matches a character reference at the start of a string.
// An ampersand that already begins one is not escaped again.
var charRefPattern = regexp.MustCompile(`^&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[a-zA-Z][a-zA-Z0-9]{1,31});`)

// Sanitize HTML-escapes s, strips control characters and trims surrounding
// whitespace. Sanitize(Sanitize(s)) == Sanitize(s) for every s.
func Sanitize(s string) string {
	return strings.TrimSpace(stripControl(escapeHTML(s)))
}

// escapeHTML replaces the characters that are significant in HTML with
// character references.
func escapeHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if charRefPattern.MatchString(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#x27;")
		case '/':
			b.WriteString("&#x2F;")
		case '\\':
			b.WriteString("&#x5C;")
		case '`':
			b.WriteString("&#96;")
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// stripControl removes C0 and C1 control characters. Tab and newline are
// kept so multi-line messages survive.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return -1
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' {
		return false
	}
	return r < 0x20 || (r >= 0x7f && r <= 0x9f)
}
