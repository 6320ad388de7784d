package transform

import (
	"fmt"
	"strings"

	"github.com/dysthesis/ssg/internal/event"
	"github.com/dysthesis/ssg/internal/render"
)

// definitionTable maps footnote labels to their captured definition spans.
// It is built once per document and discarded with the pass.
type definitionTable map[string][]event.Event

// collectDefinitions scans the full sequence and captures every footnote
// definition span, tracking nesting depth across any Start/End pair so
// multi-block definitions are captured whole.
func collectDefinitions(events []event.Event) definitionTable {
	defs := make(definitionTable)
	for i := 0; i < len(events); {
		if start, ok := events[i].(event.Start); ok {
			if def, ok := start.Tag.(event.FootnoteDefinition); ok {
				span, next := captureSpan(events, i)
				defs[def.Label] = span
				i = next
				continue
			}
		}
		i++
	}
	return defs
}

// Sidenotes rewrites footnotes as inline margin annotations: each reference
// becomes a numbered toggle control followed by the definition rendered
// inline; definition spans are dropped from the stream. References to
// unknown labels render an empty annotation.
type sidenotes struct{}

// NewSidenotes returns the sidenote footnote pass.
func NewSidenotes() *sidenotes {
	return &sidenotes{}
}

// Transform implements Transformer.
func (sidenotes) Transform(events []event.Event) []event.Event {
	defs := collectDefinitions(events)

	out := make([]event.Event, 0, len(events))
	skipDepth := 0
	index := 0

	for _, ev := range events {
		if skipDepth > 0 {
			switch ev.(type) {
			case event.Start:
				skipDepth++
			case event.End:
				skipDepth--
			}
			continue
		}

		switch e := ev.(type) {
		case event.Start:
			if _, ok := e.Tag.(event.FootnoteDefinition); ok {
				skipDepth = 1
				continue
			}
			out = append(out, ev)

		case event.FootnoteReference:
			index++
			id := fmt.Sprintf("sn-%d", index)
			defHTML := renderDefinitionInline(defs[e.Label])

			html := fmt.Sprintf(
				`<label for="%[1]s" class="margin-toggle sidenote-number" data-sidenote="%[2]d"></label>`+
					`<input type="checkbox" id="%[1]s" class="margin-toggle"/>`+
					`<span class="sidenote" data-sidenote="%[2]d">%[3]s</span>`,
				id, index, defHTML)
			out = append(out, event.InlineHTML(html))

		default:
			out = append(out, ev)
		}
	}

	return out
}

// PlainFootnoteList rewrites footnotes as superscript numbered links with a
// single trailing section listing every referenced definition in first-seen
// order, each with a back-link. Reads correctly without any CSS.
type PlainFootnoteList struct{}

// NewPlainFootnoteList returns the plain footnote pass.
func NewPlainFootnoteList() *PlainFootnoteList {
	return &PlainFootnoteList{}
}

// Transform implements Transformer.
func (PlainFootnoteList) Transform(events []event.Event) []event.Event {
	defs := collectDefinitions(events)

	out := make([]event.Event, 0, len(events)+1)
	skipDepth := 0
	var orderedLabels []string

	noteNumber := func(label string) int {
		for i, l := range orderedLabels {
			if l == label {
				return i + 1
			}
		}
		orderedLabels = append(orderedLabels, label)
		return len(orderedLabels)
	}

	for _, ev := range events {
		if skipDepth > 0 {
			switch ev.(type) {
			case event.Start:
				skipDepth++
			case event.End:
				skipDepth--
			}
			continue
		}

		switch e := ev.(type) {
		case event.Start:
			if _, ok := e.Tag.(event.FootnoteDefinition); ok {
				skipDepth = 1
				continue
			}
			out = append(out, ev)

		case event.FootnoteReference:
			num := noteNumber(e.Label)
			html := fmt.Sprintf(
				`<sup id="fnref-%[1]d" class="footnote-ref"><a href="#fn-%[1]d">%[1]d</a></sup>`, num)
			out = append(out, event.InlineHTML(html))

		default:
			out = append(out, ev)
		}
	}

	if len(orderedLabels) == 0 {
		return out
	}

	var list strings.Builder
	list.WriteString(`<section class="footnotes" aria-label="Footnotes">`)
	list.WriteString("<hr><ol>")
	for i, label := range orderedLabels {
		num := i + 1
		defHTML := strings.TrimSpace(render.HTML(defs[label]))
		fmt.Fprintf(&list,
			`<li id="fn-%[1]d">%[2]s <a href="#fnref-%[1]d" class="footnote-backref">&#8617;</a></li>`,
			num, defHTML)
	}
	list.WriteString("</ol></section>")

	return append(out, event.HTML(list.String()))
}

// renderDefinitionInline renders a definition span as markup legal inside
// inline scope: block boundaries become breaks or inline wrappers first,
// then the flattened span is serialized.
func renderDefinitionInline(span []event.Event) string {
	return strings.TrimSpace(render.HTML(inlineify(span)))
}

// inlineify flattens block-level structure to inline equivalents. Paragraph
// boundaries become double breaks (a single break inside quotes),
// blockquotes become an inline quote wrapper, and embedded footer markup is
// rewritten to an inline citation wrapper. Nested footnote references are
// dropped rather than rendered recursively.
func inlineify(span []event.Event) []event.Event {
	out := make([]event.Event, 0, len(span))

	needParSep := []bool{false}
	quoteDepth := 0
	lastWasBreak := false

	pushBreak := func(html string) {
		if !lastWasBreak {
			out = append(out, event.InlineHTML(html))
			lastWasBreak = true
		}
	}

	for _, ev := range span {
		switch e := ev.(type) {
		case event.Start:
			switch e.Tag.(type) {
			case event.Paragraph:
				if needParSep[len(needParSep)-1] {
					if quoteDepth > 0 {
						pushBreak("<br>")
					} else {
						pushBreak("<br><br>")
					}
					needParSep[len(needParSep)-1] = false
				}
			case event.BlockQuote:
				if len(out) > 0 {
					pushBreak("<br><br>")
				}
				out = append(out, event.InlineHTML(`<span class="sidenote-quote">`))
				quoteDepth++
				needParSep = append(needParSep, false)
				lastWasBreak = false
			default:
				out = append(out, ev)
				lastWasBreak = false
			}

		case event.End:
			switch e.Tag.(type) {
			case event.Paragraph:
				needParSep[len(needParSep)-1] = true
				lastWasBreak = false
			case event.BlockQuote:
				out = append(out, event.InlineHTML("</span>"))
				if quoteDepth > 0 {
					quoteDepth--
				}
				if len(needParSep) > 1 {
					needParSep = needParSep[:len(needParSep)-1]
				}
				needParSep[len(needParSep)-1] = true
				lastWasBreak = false
			default:
				out = append(out, ev)
				lastWasBreak = false
			}

		case event.HardBreak:
			pushBreak("<br>")

		case event.SoftBreak:
			out = append(out, event.Text(" "))
			lastWasBreak = false

		case event.HTML:
			out = append(out, event.InlineHTML(rewriteFooterMarkup(string(e))))
			lastWasBreak = false

		case event.InlineHTML:
			out = append(out, event.InlineHTML(rewriteFooterMarkup(string(e))))
			lastWasBreak = false

		case event.FootnoteReference:
			// No sidenotes inside sidenotes.

		default:
			out = append(out, ev)
			lastWasBreak = false
		}
	}

	return out
}

// rewriteFooterMarkup converts footer elements (injected by the epigraph
// pass) into inline citation wrappers so they stay legal in inline scope.
func rewriteFooterMarkup(s string) string {
	if !strings.Contains(s, "<footer") && !strings.Contains(s, "</footer>") {
		return s
	}
	s = strings.ReplaceAll(s, "<footer>", `<span class="sidenote-cite">`)
	return strings.ReplaceAll(s, "</footer>", "</span>")
}
