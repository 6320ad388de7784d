// Package render serializes an event stream to HTML markup. The mapping is
// literal: Text is escaped, HTML and InlineHTML pass through verbatim, and
// no semantic rewriting happens here; that is the transformer pipeline's
// job. It also provides the escaping and slug helpers the transformers
// share.
package render

import (
	"fmt"
	"strings"

	"github.com/dysthesis/ssg/internal/event"
)

// HTML renders events to markup text.
func HTML(events []event.Event) string {
	var b strings.Builder
	for i := 0; i < len(events); i++ {
		i = writeEvent(&b, events, i)
	}
	return b.String()
}

// writeEvent serializes events[i] and returns the index of the last event
// consumed. Image spans consume through their matching end tag.
func writeEvent(b *strings.Builder, events []event.Event, i int) int {
	switch ev := events[i].(type) {
	case event.Start:
		if img, ok := ev.Tag.(event.Image); ok {
			return writeImage(b, events, i, img)
		}
		writeStart(b, ev.Tag)
	case event.End:
		writeEnd(b, ev.Tag)
	case event.Text:
		b.WriteString(EscapeText(string(ev)))
	case event.Code:
		b.WriteString("<code>")
		b.WriteString(EscapeText(string(ev)))
		b.WriteString("</code>")
	case event.HTML:
		b.WriteString(string(ev))
	case event.InlineHTML:
		b.WriteString(string(ev))
	case event.SoftBreak:
		b.WriteByte('\n')
	case event.HardBreak:
		b.WriteString("<br />\n")
	case event.FootnoteReference:
		fmt.Fprintf(b, `<sup class="footnote-reference"><a href="#%s">%s</a></sup>`,
			EscapeAttr(ev.Label), EscapeText(ev.Label))
	case event.InlineMath:
		b.WriteString(`<span class="math math-inline">`)
		b.WriteString(EscapeText(string(ev)))
		b.WriteString("</span>")
	case event.DisplayMath:
		b.WriteString(`<span class="math math-display">`)
		b.WriteString(EscapeText(string(ev)))
		b.WriteString("</span>")
	}
	return i
}

func writeStart(b *strings.Builder, tag event.Tag) {
	switch t := tag.(type) {
	case event.Heading:
		fmt.Fprintf(b, "<h%d", t.Level)
		if t.ID != "" {
			fmt.Fprintf(b, ` id="%s"`, EscapeAttr(t.ID))
		}
		if len(t.Classes) > 0 {
			fmt.Fprintf(b, ` class="%s"`, EscapeAttr(strings.Join(t.Classes, " ")))
		}
		b.WriteByte('>')
	case event.Paragraph:
		b.WriteString("<p>")
	case event.BlockQuote:
		b.WriteString("<blockquote>\n")
	case event.CodeBlock:
		if t.Language != "" {
			fmt.Fprintf(b, `<pre><code class="language-%s">`, EscapeAttr(t.Language))
		} else {
			b.WriteString("<pre><code>")
		}
	case event.FootnoteDefinition:
		fmt.Fprintf(b, `<div class="footnote-definition" id="%s">`, EscapeAttr(t.Label))
	}
}

func writeEnd(b *strings.Builder, tag event.Tag) {
	switch t := tag.(type) {
	case event.Heading:
		fmt.Fprintf(b, "</h%d>\n", t.Level)
	case event.Paragraph:
		b.WriteString("</p>\n")
	case event.BlockQuote:
		b.WriteString("</blockquote>\n")
	case event.CodeBlock:
		b.WriteString("</code></pre>\n")
	case event.FootnoteDefinition:
		b.WriteString("</div>\n")
	}
}

// writeImage renders an image span as a single img tag, using the span's
// plain text as alt content the way a literal serializer does. Nested image
// spans contribute their alt text, not nested tags.
func writeImage(b *strings.Builder, events []event.Event, i int, img event.Image) int {
	var alt strings.Builder
	depth := 0
	j := i + 1
	for ; j < len(events); j++ {
		switch ev := events[j].(type) {
		case event.Start:
			if _, ok := ev.Tag.(event.Image); ok {
				depth++
			}
		case event.End:
			if _, ok := ev.Tag.(event.Image); ok {
				if depth == 0 {
					goto done
				}
				depth--
			}
		case event.Text:
			alt.WriteString(string(ev))
		case event.Code:
			alt.WriteString(string(ev))
		case event.SoftBreak, event.HardBreak:
			alt.WriteByte(' ')
		}
	}
done:
	fmt.Fprintf(b, `<img src="%s" alt="%s"`, EscapeAttr(img.Destination), EscapeAttr(alt.String()))
	if img.Title != "" {
		fmt.Fprintf(b, ` title="%s"`, EscapeAttr(img.Title))
	}
	b.WriteString(" />")
	return j
}
