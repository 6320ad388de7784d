package transform

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dysthesis/ssg/internal/event"
	"github.com/dysthesis/ssg/internal/render"
)

// DefaultHighlightTheme is the chroma style used when none is configured.
const DefaultHighlightTheme = "gruvbox"

// codeState tracks whether the pass is inside a code block.
type codeState int

const (
	statePassthrough codeState = iota
	stateAccumulating
)

// CodeHighlight replaces each code block span with exactly one Html event
// containing syntax-highlighted markup. Unknown languages fall back to a
// plain-text lexer; a failed highlight falls back to an escaped
// pre/code rendering. Neither failure aborts the document.
type CodeHighlight struct {
	theme string
}

// NewCodeHighlight returns a code highlighting pass using the named chroma
// style, or the default theme when name is empty.
func NewCodeHighlight(theme string) *CodeHighlight {
	if theme == "" {
		theme = DefaultHighlightTheme
	}
	return &CodeHighlight{theme: theme}
}

// Transform implements Transformer.
func (c *CodeHighlight) Transform(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))

	state := statePassthrough
	var lang string
	var buf strings.Builder

	for _, ev := range events {
		switch state {
		case statePassthrough:
			if start, ok := ev.(event.Start); ok {
				if cb, ok := start.Tag.(event.CodeBlock); ok {
					state = stateAccumulating
					lang = cb.Language
					buf.Reset()
					continue
				}
			}
			out = append(out, ev)

		case stateAccumulating:
			switch e := ev.(type) {
			case event.End:
				if _, ok := e.Tag.(event.CodeBlock); ok {
					out = append(out, event.HTML(c.highlight(buf.String(), lang)))
					state = statePassthrough
					continue
				}
			case event.Text:
				buf.WriteString(string(e))
			case event.Code:
				buf.WriteString(string(e))
			case event.HTML:
				buf.WriteString(string(e))
			case event.InlineHTML:
				buf.WriteString(string(e))
			case event.InlineMath:
				buf.WriteString(string(e))
			case event.DisplayMath:
				buf.WriteString(string(e))
			case event.SoftBreak, event.HardBreak:
				buf.WriteByte('\n')
			}
		}
	}

	return out
}

// highlight renders source as highlighted HTML, never failing: any chroma
// error yields the escaped fallback instead.
func (c *CodeHighlight) highlight(source, lang string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(c.theme)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return fallbackPlain(source, lang)
	}

	var b strings.Builder
	if err := highlightFormatter().Format(&b, style, iterator); err != nil {
		return fallbackPlain(source, lang)
	}
	return b.String()
}

var (
	formatterOnce sync.Once
	formatter     *chromahtml.Formatter
)

// highlightFormatter returns the shared HTML formatter. Classes are emitted
// instead of inline styles so the theme ships once as a stylesheet.
func highlightFormatter() *chromahtml.Formatter {
	formatterOnce.Do(func() {
		formatter = chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.WithPreWrapper(codePreWrapper{}),
		)
	})
	return formatter
}

// codePreWrapper emits the pre/code shell chroma wraps highlighted lines
// in, keeping the class layout of the escaped fallback.
type codePreWrapper struct{}

func (codePreWrapper) Start(code bool, styleAttr string) string {
	if code {
		return "<pre" + styleAttr + "><code>"
	}
	return "<pre" + styleAttr + ">"
}

func (codePreWrapper) End(code bool) string {
	if code {
		return "</code></pre>\n"
	}
	return "</pre>\n"
}

// fallbackPlain renders source safely escaped when highlighting fails.
func fallbackPlain(source, lang string) string {
	var out strings.Builder
	out.Grow(len(source) + 32)
	out.WriteString("<pre><code")
	if lang != "" {
		out.WriteString(` class="language-`)
		out.WriteString(render.EscapeAttr(lang))
		out.WriteByte('"')
	}
	out.WriteByte('>')
	out.WriteString(render.EscapeText(source))
	out.WriteString("</code></pre>\n")
	return out.String()
}
