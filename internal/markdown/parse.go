// Package markdown adapts goldmark's document tree to the event stream the
// transformer pipeline consumes. Constructs the pipeline rewrites
// (headings, paragraphs, blockquotes, code blocks, footnotes, images) map
// to structural tags; everything else is lowered to opaque Html/InlineHtml
// events the pipeline passes through untouched.
package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/dysthesis/ssg/internal/event"
	"github.com/dysthesis/ssg/internal/render"
)

var (
	parserOnce sync.Once
	mdParser   parser.Parser
)

// markdownParser returns the shared goldmark parser, built once: GFM,
// footnotes, smart punctuation, and heading attributes ({#id .class}).
func markdownParser() parser.Parser {
	parserOnce.Do(func() {
		md := goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.Typographer,
			),
			goldmark.WithParserOptions(
				parser.WithAttribute(),
			),
		)
		mdParser = md.Parser()
	})
	return mdParser
}

// Parse converts markdown source into a balanced event sequence, including
// InlineMath/DisplayMath events extracted from $...$ and $$...$$ spans.
func Parse(source []byte) []event.Event {
	root := markdownParser().Parse(text.NewReader(source))
	c := &converter{source: source}
	c.node(root)
	return extractMath(c.events)
}

// converter accumulates events while walking the goldmark tree.
type converter struct {
	source []byte
	events []event.Event
}

func (c *converter) emit(ev event.Event) {
	c.events = append(c.events, ev)
}

func (c *converter) children(n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.node(child)
	}
}

// wrapInline surrounds the node's children with opaque inline markup.
func (c *converter) wrapInline(n ast.Node, open, close string) {
	c.emit(event.InlineHTML(open))
	c.children(n)
	c.emit(event.InlineHTML(close))
}

// wrapBlock surrounds the node's children with opaque block markup.
func (c *converter) wrapBlock(n ast.Node, open, close string) {
	c.emit(event.HTML(open))
	c.children(n)
	c.emit(event.HTML(close))
}

func (c *converter) node(n ast.Node) {
	switch n := n.(type) {
	case *ast.Document:
		c.children(n)

	case *ast.Heading:
		tag := event.Heading{Level: n.Level}
		if id, ok := n.AttributeString("id"); ok {
			tag.ID = attrString(id)
		}
		if class, ok := n.AttributeString("class"); ok {
			tag.Classes = strings.Fields(attrString(class))
		}
		c.emit(event.Start{Tag: tag})
		c.children(n)
		c.emit(event.End{Tag: event.Heading{Level: n.Level}})

	case *ast.Paragraph:
		c.emit(event.Start{Tag: event.Paragraph{}})
		c.children(n)
		c.emit(event.End{Tag: event.Paragraph{}})

	case *ast.TextBlock:
		// Tight list items and similar: inline content without a wrapper.
		c.children(n)

	case *ast.Blockquote:
		c.emit(event.Start{Tag: event.BlockQuote{}})
		c.children(n)
		c.emit(event.End{Tag: event.BlockQuote{}})

	case *ast.FencedCodeBlock:
		lang := ""
		if l := n.Language(c.source); l != nil {
			lang = string(l)
		}
		c.codeBlock(n, lang)

	case *ast.CodeBlock:
		c.codeBlock(n, "")

	case *ast.HTMLBlock:
		var buf bytes.Buffer
		for i := 0; i < n.Lines().Len(); i++ {
			seg := n.Lines().At(i)
			buf.Write(seg.Value(c.source))
		}
		if n.HasClosure() {
			buf.Write(n.ClosureLine.Value(c.source))
		}
		c.emit(event.HTML(buf.String()))

	case *ast.ThematicBreak:
		c.emit(event.HTML("<hr />\n"))

	case *ast.List:
		if n.IsOrdered() {
			open := "<ol>\n"
			if n.Start != 1 {
				open = fmt.Sprintf("<ol start=\"%d\">\n", n.Start)
			}
			c.wrapBlock(n, open, "</ol>\n")
		} else {
			c.wrapBlock(n, "<ul>\n", "</ul>\n")
		}

	case *ast.ListItem:
		c.wrapBlock(n, "<li>", "</li>\n")

	case *ast.Text:
		seg := n.Segment
		c.emit(event.Text(seg.Value(c.source)))
		switch {
		case n.HardLineBreak():
			c.emit(event.HardBreak{})
		case n.SoftLineBreak():
			c.emit(event.SoftBreak{})
		}

	case *ast.String:
		c.emit(event.Text(n.Value))

	case *ast.CodeSpan:
		var buf bytes.Buffer
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				buf.Write(t.Segment.Value(c.source))
			}
		}
		c.emit(event.Code(buf.String()))

	case *ast.Emphasis:
		if n.Level == 2 {
			c.wrapInline(n, "<strong>", "</strong>")
		} else {
			c.wrapInline(n, "<em>", "</em>")
		}

	case *ast.Link:
		open := fmt.Sprintf(`<a href="%s"`, render.EscapeAttr(string(n.Destination)))
		if len(n.Title) > 0 {
			open += fmt.Sprintf(` title="%s"`, render.EscapeAttr(string(n.Title)))
		}
		c.wrapInline(n, open+">", "</a>")

	case *ast.AutoLink:
		url := string(n.URL(c.source))
		label := string(n.Label(c.source))
		href := url
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(href, "mailto:") {
			href = "mailto:" + href
		}
		c.emit(event.InlineHTML(fmt.Sprintf(`<a href="%s">%s</a>`,
			render.EscapeAttr(href), render.EscapeText(label))))

	case *ast.Image:
		tag := event.Image{
			Destination: string(n.Destination),
			Title:       string(n.Title),
		}
		c.emit(event.Start{Tag: tag})
		c.children(n)
		c.emit(event.End{Tag: event.Image{}})

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(c.source))
		}
		c.emit(event.InlineHTML(buf.String()))

	case *east.Strikethrough:
		c.wrapInline(n, "<del>", "</del>")

	case *east.TaskCheckBox:
		if n.IsChecked {
			c.emit(event.InlineHTML(`<input checked="" disabled="" type="checkbox" /> `))
		} else {
			c.emit(event.InlineHTML(`<input disabled="" type="checkbox" /> `))
		}

	case *east.FootnoteLink:
		c.emit(event.FootnoteReference{Label: strconv.Itoa(n.Index)})

	case *east.FootnoteBacklink:
		// The footnote pass generates its own back-links.

	case *east.FootnoteList:
		c.children(n)

	case *east.Footnote:
		label := strconv.Itoa(n.Index)
		c.emit(event.Start{Tag: event.FootnoteDefinition{Label: label}})
		c.children(n)
		c.emit(event.End{Tag: event.FootnoteDefinition{Label: label}})

	case *east.Table:
		c.wrapBlock(n, "<table>\n", "</table>\n")

	case *east.TableHeader:
		c.wrapBlock(n, "<thead>\n<tr>\n", "</tr>\n</thead>\n")

	case *east.TableRow:
		c.wrapBlock(n, "<tr>\n", "</tr>\n")

	case *east.TableCell:
		cell := "td"
		if _, ok := n.Parent().(*east.TableHeader); ok {
			cell = "th"
		}
		c.wrapInline(n, "<"+cell+">", "</"+cell+">\n")

	default:
		// Unknown containers contribute their children; unknown leaves are
		// dropped.
		if n.HasChildren() {
			c.children(n)
		}
	}
}

// codeBlock emits a code block span with its lines joined into one Text
// event.
func (c *converter) codeBlock(n ast.Node, lang string) {
	var buf bytes.Buffer
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		buf.Write(seg.Value(c.source))
	}
	c.emit(event.Start{Tag: event.CodeBlock{Language: lang}})
	c.emit(event.Text(buf.String()))
	c.emit(event.End{Tag: event.CodeBlock{Language: lang}})
}

// attrString normalizes goldmark attribute values, which may be bytes or
// strings depending on the parser path.
func attrString(v any) string {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	}
	return fmt.Sprint(v)
}
