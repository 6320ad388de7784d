package markdown

import (
	"regexp"
	"strings"

	"github.com/dysthesis/ssg/internal/event"
)

// mathPattern matches $$...$$ (display, may span lines) before $...$
// (inline, single line). The display alternative is listed first so a
// double delimiter is never consumed as two inline spans. Inline spans
// require non-whitespace just inside both delimiters, so price-like text
// ("costs $5 and $6") is not mistaken for math.
var mathPattern = regexp.MustCompile(`(?s)\$\$(.+?)\$\$|\$([^\s$][^$\n]*?[^\s$]|[^\s$])\$`)

// extractMath rewrites $-delimited spans in prose into InlineMath and
// DisplayMath events. Code block contents are left alone. Consecutive Text
// and SoftBreak events are scanned as one run so display math written
// across lines is still recognized.
func extractMath(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	inCode := false
	for i := 0; i < len(events); i++ {
		switch ev := events[i].(type) {
		case event.Start:
			if _, ok := ev.Tag.(event.CodeBlock); ok {
				inCode = true
			}
			out = append(out, ev)
		case event.End:
			if _, ok := ev.Tag.(event.CodeBlock); ok {
				inCode = false
			}
			out = append(out, ev)
		case event.Text:
			if inCode {
				out = append(out, ev)
				continue
			}
			end := runEnd(events, i)
			out = append(out, splitRun(events[i:end])...)
			i = end - 1
		default:
			out = append(out, ev)
		}
	}
	return out
}

// runEnd returns the index just past the maximal run of Text and SoftBreak
// events starting at i.
func runEnd(events []event.Event, i int) int {
	for i < len(events) {
		switch events[i].(type) {
		case event.Text, event.SoftBreak:
			i++
		default:
			return i
		}
	}
	return i
}

// splitRun rewrites one prose run. Runs without math come back unchanged;
// otherwise the combined text is cut around each match, with line breaks in
// the plain segments restored as SoftBreak events.
func splitRun(run []event.Event) []event.Event {
	var b strings.Builder
	for _, ev := range run {
		switch ev := ev.(type) {
		case event.Text:
			b.WriteString(string(ev))
		case event.SoftBreak:
			b.WriteByte('\n')
		}
	}
	combined := b.String()

	matches := mathPattern.FindAllStringSubmatchIndex(combined, -1)
	if len(matches) == 0 {
		return run
	}

	var out []event.Event
	last := 0
	for _, m := range matches {
		out = append(out, plainEvents(combined[last:m[0]])...)
		if m[2] >= 0 {
			out = append(out, event.DisplayMath(strings.TrimSpace(combined[m[2]:m[3]])))
		} else {
			out = append(out, event.InlineMath(combined[m[4]:m[5]]))
		}
		last = m[1]
	}
	out = append(out, plainEvents(combined[last:])...)
	return out
}

// plainEvents turns a plain-text segment back into Text events separated by
// SoftBreak where the source had line breaks.
func plainEvents(s string) []event.Event {
	if s == "" {
		return nil
	}
	var out []event.Event
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			out = append(out, event.SoftBreak{})
		}
		if line != "" {
			out = append(out, event.Text(line))
		}
	}
	return out
}
