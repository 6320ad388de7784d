package ssg

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dysthesis/ssg/internal/event"
	"github.com/dysthesis/ssg/internal/frontmatter"
	"github.com/dysthesis/ssg/internal/markdown"
	"github.com/dysthesis/ssg/internal/render"
	"github.com/dysthesis/ssg/internal/transform"
)

// Document is the result of rendering one article.
type Document struct {
	// Meta is the parsed front matter.
	Meta frontmatter.Meta
	// Body is the article HTML with footnotes rendered as margin
	// sidenotes, for the page itself.
	Body string
	// FeedBody is the article HTML with footnotes rendered as a plain
	// end-of-document list, for feed readers.
	FeedBody string
	// HasMath reports whether the article contains math spans.
	HasMath bool
}

// Renderer turns markdown sources into Documents. A Renderer is safe for
// concurrent use; each Render call builds its own pipeline.
type Renderer struct {
	cfg rendererConfig
}

type rendererConfig struct {
	siteRoot       string
	theme          string
	macros         map[string]string
	plainFootnotes bool
}

// New creates a Renderer with default configuration. Use options to
// customize behavior (e.g., WithHighlightTheme).
func New(opts ...Option) *Renderer {
	r := &Renderer{
		cfg: rendererConfig{theme: transform.DefaultHighlightTheme},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HighlightTheme returns the configured syntax highlighting theme.
func (r *Renderer) HighlightTheme() string {
	return r.cfg.theme
}

// Render runs the full pipeline on one article: front matter split, parse,
// transform, serialize. The context is checked between stages.
func (r *Renderer) Render(ctx context.Context, source []byte) (*Document, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, ErrEmptySource
	}

	meta, body, err := frontmatter.Split(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := markdown.Parse(body)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := &Document{
		Meta:    meta,
		HasMath: hasMath(events),
	}

	doc.Body = render.HTML(r.pipeline(r.pageStyle()).Transform(events))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.cfg.plainFootnotes {
		doc.FeedBody = doc.Body
	} else {
		doc.FeedBody = render.HTML(r.pipeline(transform.PlainFootnotes).Transform(events))
	}
	return doc, nil
}

func (r *Renderer) pageStyle() transform.FootnoteStyle {
	if r.cfg.plainFootnotes {
		return transform.PlainFootnotes
	}
	return transform.Sidenotes
}

// pipeline builds a fresh transformer chain; some passes carry
// per-document state.
func (r *Renderer) pipeline(style transform.FootnoteStyle) transform.Chain {
	return transform.Pipeline(transform.Options{
		Footnotes:      style,
		HighlightTheme: r.cfg.theme,
		MathMacros:     r.cfg.macros,
		SiteRoot:       r.cfg.siteRoot,
	})
}

func hasMath(events []event.Event) bool {
	for _, ev := range events {
		switch ev.(type) {
		case event.InlineMath, event.DisplayMath:
			return true
		}
	}
	return false
}
