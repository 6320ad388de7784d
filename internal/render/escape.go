package render

import (
	"strings"
	"unicode"
)

// EscapeText HTML-escapes text content.
func EscapeText(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, ch := range s {
		switch ch {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '"':
			out.WriteString("&quot;")
		case '\'':
			out.WriteString("&#x27;")
		default:
			out.WriteRune(ch)
		}
	}
	return out.String()
}

// EscapeAttr HTML-escapes attribute values (same rules as text here).
func EscapeAttr(s string) string {
	return EscapeText(s)
}

// slugFallback is used when a title slugs down to nothing.
const slugFallback = "section"

// Slugify computes an anchor id from heading text: lower-cased alphanumeric
// runs joined by single hyphens. Never returns an empty string.
func Slugify(input string) string {
	var out strings.Builder
	prevDash := false

	for _, ch := range input {
		switch {
		case unicode.IsLetter(ch) || unicode.IsDigit(ch):
			out.WriteRune(unicode.ToLower(ch))
			prevDash = false
		case out.Len() > 0 && !prevDash:
			out.WriteByte('-')
			prevDash = true
		}
	}

	slug := strings.TrimRight(out.String(), "-")
	if slug == "" {
		return slugFallback
	}
	return slug
}
