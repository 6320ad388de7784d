package transform

import (
	"strings"
	"unicode"

	"github.com/dysthesis/ssg/internal/event"
	"github.com/dysthesis/ssg/internal/render"
)

// attributionDashes are the delimiters an attribution line may start with:
// a literal double hyphen, or the en/em dashes smart punctuation produces.
const (
	dashHyphens = "--"
	dashEn      = '–'
	dashEm      = '—'
)

// Epigraphs detects blockquotes ending in an attribution line ("Quote text.
// -- Author") and rewrites them with a footer element holding the escaped
// attribution. The delimiter and leading dashes are stripped; if the
// remaining text node becomes empty it is pruned along with any dangling
// paragraph wrapper. Quotes without a detectable attribution pass through
// unchanged.
type Epigraphs struct{}

// NewEpigraphs returns an epigraph detection pass.
func NewEpigraphs() *Epigraphs {
	return &Epigraphs{}
}

// Transform implements Transformer.
func (Epigraphs) Transform(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))

	for i := 0; i < len(events); i++ {
		start, ok := events[i].(event.Start)
		if !ok {
			out = append(out, events[i])
			continue
		}
		if _, ok := start.Tag.(event.BlockQuote); !ok {
			out = append(out, events[i])
			continue
		}

		span, next := captureSpan(events, i)
		i = next - 1

		out = append(out, start)
		if attribution, body, found := extractAttribution(span); found {
			out = append(out, body...)
			out = append(out, event.HTML("<footer>"+render.EscapeText(attribution)+"</footer>"))
		} else {
			out = append(out, span...)
		}
		out = append(out, event.End{Tag: event.BlockQuote{}})
	}

	return out
}

// extractAttribution searches the last non-empty text node of a blockquote
// span for a dash delimiter. On a match it returns the attribution text and
// the shortened quote body. The rule is deliberately narrow: only the last
// text node is considered, and an attribution that strips down to nothing
// does not count.
func extractAttribution(span []event.Event) (attribution string, body []event.Event, found bool) {
	textIdx := -1
	for i := len(span) - 1; i >= 0; i-- {
		if t, ok := span[i].(event.Text); ok && strings.TrimSpace(string(t)) != "" {
			textIdx = i
			break
		}
	}
	if textIdx < 0 {
		return "", nil, false
	}

	text := string(span[textIdx].(event.Text))
	pos, width := lastDash(text)
	if pos < 0 {
		return "", nil, false
	}

	attribution = strings.TrimSpace(strings.TrimLeft(text[pos+width:], "-–—"))
	if attribution == "" {
		return "", nil, false
	}

	body = make([]event.Event, len(span))
	copy(body, span)

	remainder := strings.TrimRightFunc(text[:pos], unicode.IsSpace)
	if remainder == "" {
		body = append(body[:textIdx], body[textIdx+1:]...)
	} else {
		body[textIdx] = event.Text(remainder)
	}

	return attribution, pruneDanglingParagraph(body), true
}

// lastDash finds the right-most delimiter in text, preferring the literal
// double hyphen, then the en dash, then the em dash. Returns the byte
// position and delimiter width, or -1 when none is present.
func lastDash(text string) (pos, width int) {
	if i := strings.LastIndex(text, dashHyphens); i >= 0 {
		return i, len(dashHyphens)
	}
	if i := strings.LastIndex(text, string(dashEn)); i >= 0 {
		return i, len(string(dashEn))
	}
	if i := strings.LastIndex(text, string(dashEm)); i >= 0 {
		return i, len(string(dashEm))
	}
	return -1, 0
}

// pruneDanglingParagraph removes trailing whitespace text, breaks, and a
// now-empty paragraph wrapper left behind when the attribution consumed a
// whole text node.
func pruneDanglingParagraph(body []event.Event) []event.Event {
trim:
	for len(body) > 0 {
		switch last := body[len(body)-1].(type) {
		case event.Text:
			if strings.TrimSpace(string(last)) != "" {
				break trim
			}
		case event.SoftBreak, event.HardBreak:
		default:
			break trim
		}
		body = body[:len(body)-1]
	}

	end, ok := lastEvent(body).(event.End)
	if !ok {
		return body
	}
	if _, ok := end.Tag.(event.Paragraph); !ok {
		return body
	}

	// Walk back looking for the matching empty Start(Paragraph); any real
	// content or nested structure on the way aborts the prune.
	for i := len(body) - 2; i >= 0; i-- {
		switch e := body[i].(type) {
		case event.Start:
			if _, ok := e.Tag.(event.Paragraph); ok {
				return body[:i]
			}
			return body
		case event.End:
			return body
		case event.Text:
			if strings.TrimSpace(string(e)) != "" {
				return body
			}
		case event.Code, event.HTML, event.InlineHTML:
			return body
		}
	}
	return body
}

func lastEvent(events []event.Event) event.Event {
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}
