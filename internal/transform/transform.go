// Package transform implements the document rewriting pipeline: a chain of
// independent stream rewriters, each consuming an event sequence and
// producing a new one. Order matters; code blocks are flattened to raw HTML
// before the footnote and TOC passes run, since those assume plain
// paragraph and heading structure.
package transform

import "github.com/dysthesis/ssg/internal/event"

// Transformer rewrites one document's event sequence. Implementations own
// their input for the duration of the call and must return a sequence that
// preserves the balance invariant. A transformer instance is built per
// document; none is safe for reuse across documents.
type Transformer interface {
	Transform(events []event.Event) []event.Event
}

// Chain composes transformers left to right: the first element consumes the
// original stream, each later element consumes its predecessor's output.
type Chain []Transformer

// Transform runs the whole chain over events.
func (c Chain) Transform(events []event.Event) []event.Event {
	for _, t := range c {
		events = t.Transform(events)
	}
	return events
}

var _ Transformer = Chain(nil)

// FootnoteStyle selects how footnotes are rewritten.
type FootnoteStyle int

const (
	// Sidenotes renders each reference as an inline margin annotation.
	Sidenotes FootnoteStyle = iota
	// PlainFootnotes renders superscript links plus a trailing list.
	PlainFootnotes
)

// Options configure a pipeline for one document.
type Options struct {
	// Footnotes selects the footnote rewriting variant.
	Footnotes FootnoteStyle
	// HighlightTheme names the chroma style used for code blocks. Empty
	// selects the default theme.
	HighlightTheme string
	// MathMacros are user macro definitions passed to the math renderer.
	MathMacros map[string]string
	// SiteRoot is the directory local image paths resolve against for
	// dimension probing. Empty disables probing.
	SiteRoot string
}

// Pipeline builds the fixed transformer order for one document:
// epigraphs, then code highlighting, math, footnotes, heading demotion,
// table of contents, and finally image captions.
func Pipeline(opts Options) Chain {
	var footnotes Transformer
	switch opts.Footnotes {
	case PlainFootnotes:
		footnotes = NewPlainFootnoteList()
	default:
		footnotes = NewSidenotes()
	}

	return Chain{
		NewEpigraphs(),
		NewCodeHighlight(opts.HighlightTheme),
		NewMath(opts.MathMacros),
		footnotes,
		NewHeadingDemoter(),
		NewToc(),
		NewImageCaptions(opts.SiteRoot),
	}
}
