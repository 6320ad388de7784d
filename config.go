package ssg

// Option customizes a Renderer.
type Option func(*Renderer)

// WithSiteRoot sets the directory image paths resolve against, enabling
// width/height probing and responsive srcset attributes on figures.
func WithSiteRoot(dir string) Option {
	return func(r *Renderer) {
		r.cfg.siteRoot = dir
	}
}

// WithHighlightTheme sets the chroma style used for code blocks.
func WithHighlightTheme(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.cfg.theme = name
		}
	}
}

// WithMathMacros registers LaTeX macro definitions available to every math
// span.
func WithMathMacros(macros map[string]string) Option {
	return func(r *Renderer) {
		r.cfg.macros = macros
	}
}

// WithPlainFootnotes renders page footnotes as an end-of-document list
// instead of margin sidenotes.
func WithPlainFootnotes() Option {
	return func(r *Renderer) {
		r.cfg.plainFootnotes = true
	}
}
