package transform

import (
	"strings"
	"testing"

	"github.com/dysthesis/ssg/internal/event"
)

func footnoteDefinition(label string, inner ...event.Event) []event.Event {
	events := []event.Event{event.Start{Tag: event.FootnoteDefinition{Label: label}}}
	events = append(events, inner...)
	return append(events, event.End{Tag: event.FootnoteDefinition{Label: label}})
}

func paragraph(text string) []event.Event {
	return []event.Event{
		event.Start{Tag: event.Paragraph{}},
		event.Text(text),
		event.End{Tag: event.Paragraph{}},
	}
}

func hasFootnoteEvents(events []event.Event) bool {
	for _, ev := range events {
		switch e := ev.(type) {
		case event.FootnoteReference:
			return true
		case event.Start:
			if _, ok := e.Tag.(event.FootnoteDefinition); ok {
				return true
			}
		case event.End:
			if _, ok := e.Tag.(event.FootnoteDefinition); ok {
				return true
			}
		}
	}
	return false
}

func TestSidenotesInlineDefinition(t *testing.T) {
	events := []event.Event{event.FootnoteReference{Label: "a"}}
	events = append(events, footnoteDefinition("a", paragraph("hello")...)...)

	out := NewSidenotes().Transform(events)

	var annotations int
	for _, ev := range out {
		if html, ok := ev.(event.InlineHTML); ok {
			annotations++
			if !strings.Contains(string(html), "hello") {
				t.Errorf("annotation missing definition content: %q", html)
			}
			if !strings.Contains(string(html), `class="sidenote"`) {
				t.Errorf("annotation missing sidenote span: %q", html)
			}
		}
	}
	if annotations != 1 {
		t.Errorf("got %d inline annotations, want 1", annotations)
	}
	if hasFootnoteEvents(out) {
		t.Error("footnote events survived the rewrite")
	}
}

func TestSidenotesDefinitionBeforeReference(t *testing.T) {
	events := footnoteDefinition("a", paragraph("early definition")...)
	events = append(events, event.FootnoteReference{Label: "a"})

	out := NewSidenotes().Transform(events)
	if hasFootnoteEvents(out) {
		t.Error("footnote events survived the rewrite")
	}

	html, ok := out[0].(event.InlineHTML)
	if !ok {
		t.Fatalf("got %T, want event.InlineHTML", out[0])
	}
	if !strings.Contains(string(html), "early definition") {
		t.Errorf("annotation missing definition content: %q", html)
	}
}

func TestSidenotesUnknownLabelRendersEmpty(t *testing.T) {
	out := NewSidenotes().Transform([]event.Event{event.FootnoteReference{Label: "missing"}})
	if len(out) != 1 {
		t.Fatalf("got %d events, want 1", len(out))
	}
	html := string(out[0].(event.InlineHTML))
	if !strings.Contains(html, `<span class="sidenote" data-sidenote="1"></span>`) {
		t.Errorf("unknown label should render an empty annotation: %q", html)
	}
}

func TestSidenotesFlattensBlocks(t *testing.T) {
	inner := paragraph("first")
	inner = append(inner, paragraph("second")...)
	events := []event.Event{event.FootnoteReference{Label: "a"}}
	events = append(events, footnoteDefinition("a", inner...)...)

	out := NewSidenotes().Transform(events)
	html := string(out[0].(event.InlineHTML))
	if strings.Contains(html, "<p>") {
		t.Errorf("block structure leaked into inline scope: %q", html)
	}
	if !strings.Contains(html, "first<br><br>second") {
		t.Errorf("paragraph boundary not flattened to a double break: %q", html)
	}
}

func TestSidenotesQuoteBecomesInlineWrapper(t *testing.T) {
	inner := []event.Event{event.Start{Tag: event.BlockQuote{}}}
	inner = append(inner, paragraph("quoted")...)
	inner = append(inner, paragraph("more")...)
	inner = append(inner, event.End{Tag: event.BlockQuote{}})

	events := []event.Event{event.FootnoteReference{Label: "q"}}
	events = append(events, footnoteDefinition("q", inner...)...)

	out := NewSidenotes().Transform(events)
	html := string(out[0].(event.InlineHTML))
	if !strings.Contains(html, `<span class="sidenote-quote">`) {
		t.Errorf("quote not rewritten to inline wrapper: %q", html)
	}
	// The first paragraph boundary inside a quote is a single break.
	if !strings.Contains(html, "quoted<br>more") {
		t.Errorf("quote-internal paragraph boundary should be one break: %q", html)
	}
}

func TestSidenotesRewritesFooterMarkup(t *testing.T) {
	inner := []event.Event{event.HTML("<footer>Someone</footer>")}
	events := []event.Event{event.FootnoteReference{Label: "f"}}
	events = append(events, footnoteDefinition("f", inner...)...)

	out := NewSidenotes().Transform(events)
	html := string(out[0].(event.InlineHTML))
	if strings.Contains(html, "<footer>") {
		t.Errorf("footer element leaked into inline scope: %q", html)
	}
	if !strings.Contains(html, `<span class="sidenote-cite">Someone</span>`) {
		t.Errorf("footer not rewritten to citation wrapper: %q", html)
	}
}

func TestPlainFootnotesNumberedByFirstReference(t *testing.T) {
	// Definitions in b, a order; references in a, b, a order.
	events := footnoteDefinition("b", paragraph("note b")...)
	events = append(events, footnoteDefinition("a", paragraph("note a")...)...)
	events = append(events,
		event.FootnoteReference{Label: "a"},
		event.FootnoteReference{Label: "b"},
		event.FootnoteReference{Label: "a"},
	)

	out := NewPlainFootnoteList().Transform(events)
	if hasFootnoteEvents(out) {
		t.Error("footnote events survived the rewrite")
	}

	rendered := allMarkup(out)
	aRef := strings.Index(rendered, `href="#fn-1"`)
	bRef := strings.Index(rendered, `href="#fn-2"`)
	if aRef < 0 || bRef < 0 || aRef > bRef {
		t.Errorf("references not numbered in first-seen order: %q", rendered)
	}

	// The trailing list orders definitions by reference number.
	noteA := strings.Index(rendered, "note a")
	noteB := strings.Index(rendered, "note b")
	if noteA < 0 || noteB < 0 || noteA > noteB {
		t.Errorf("definition list not in first-seen order: %q", rendered)
	}
}

func TestPlainFootnotesBacklinkPerReference(t *testing.T) {
	events := []event.Event{
		event.FootnoteReference{Label: "x"},
		event.FootnoteReference{Label: "y"},
	}
	events = append(events, footnoteDefinition("x", paragraph("one")...)...)
	events = append(events, footnoteDefinition("y", paragraph("two")...)...)

	out := NewPlainFootnoteList().Transform(events)
	rendered := allMarkup(out)

	if got := strings.Count(rendered, "footnote-backref"); got != 2 {
		t.Errorf("got %d back-links, want 2", got)
	}
	if !strings.Contains(rendered, `href="#fnref-1"`) || !strings.Contains(rendered, `href="#fnref-2"`) {
		t.Errorf("back-links missing reference anchors: %q", rendered)
	}
}

func TestPlainFootnotesNoListWithoutReferences(t *testing.T) {
	events := paragraph("no notes here")
	out := NewPlainFootnoteList().Transform(events)
	if got := allMarkup(out); strings.Contains(got, "footnotes") {
		t.Errorf("trailing list emitted with zero references: %q", got)
	}

	// A definition without references is still dropped, and no list follows.
	events = footnoteDefinition("orphan", paragraph("unused")...)
	out = NewPlainFootnoteList().Transform(events)
	if len(out) != 0 {
		t.Errorf("orphan definition not skipped: %#v", out)
	}
}

func allMarkup(events []event.Event) string {
	var b strings.Builder
	for _, ev := range events {
		switch e := ev.(type) {
		case event.HTML:
			b.WriteString(string(e))
		case event.InlineHTML:
			b.WriteString(string(e))
		case event.Text:
			b.WriteString(string(e))
		}
	}
	return b.String()
}
