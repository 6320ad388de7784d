// Package event defines the structural event stream a parsed document is
// made of. Events flow through the transformer pipeline; each transformer
// consumes a sequence and produces a new one while preserving the balance
// invariant: every Start has exactly one matching End of the same tag kind,
// and spans nest without interleaving.
package event

// Tag identifies the kind of structural span opened by a Start event and
// closed by the matching End event. The unexported marker method seals the
// set of tag kinds.
type Tag interface {
	tag()
}

// Heading is a section heading at a level between 1 and 6. ID is the
// explicit anchor id supplied by the parser, or empty when none was given.
type Heading struct {
	Level   int
	ID      string
	Classes []string
}

// Paragraph is a paragraph of inline content.
type Paragraph struct{}

// BlockQuote is a quoted block. Quotes may nest.
type BlockQuote struct{}

// CodeBlock is a fenced or indented code block. Language is the fence's
// info string, empty for indented blocks or bare fences.
type CodeBlock struct {
	Language string
}

// FootnoteDefinition is the body of a footnote, keyed by label. Definitions
// may appear before or after the references that point at them.
type FootnoteDefinition struct {
	Label string
}

// Image is an inline image span. The events between Start and End carry the
// alt content.
type Image struct {
	Destination string
	Title       string
}

func (Heading) tag()            {}
func (Paragraph) tag()          {}
func (BlockQuote) tag()         {}
func (CodeBlock) tag()          {}
func (FootnoteDefinition) tag() {}
func (Image) tag()              {}

// Event is one unit of the document stream. The unexported marker method
// seals the set of event variants.
type Event interface {
	event()
}

// Start opens a structural span.
type Start struct {
	Tag Tag
}

// End closes the innermost open span. It carries the same tag as the
// matching Start so single-event rewrites (heading demotion) need no stack.
type End struct {
	Tag Tag
}

// Text is leaf text content. The serializer escapes it.
type Text string

// Code is an inline code span.
type Code string

// HTML is a pre-rendered block of markup injected into the stream. Later
// passes treat it as opaque.
type HTML string

// InlineHTML is pre-rendered inline markup, passed through opaquely.
type InlineHTML string

// SoftBreak is a soft line break within a paragraph.
type SoftBreak struct{}

// HardBreak is a hard line break within a paragraph.
type HardBreak struct{}

// FootnoteReference is a point reference to a footnote definition elsewhere
// in the stream.
type FootnoteReference struct {
	Label string
}

// InlineMath is raw inline math source awaiting rendering.
type InlineMath string

// DisplayMath is raw display-mode math source awaiting rendering.
type DisplayMath string

func (Start) event()             {}
func (End) event()               {}
func (Text) event()              {}
func (Code) event()              {}
func (HTML) event()              {}
func (InlineHTML) event()        {}
func (SoftBreak) event()         {}
func (HardBreak) event()         {}
func (FootnoteReference) event() {}
func (InlineMath) event()        {}
func (DisplayMath) event()       {}

// Interface compliance checks.
var (
	_ Event = Start{}
	_ Event = End{}
	_ Event = Text("")
	_ Event = Code("")
	_ Event = HTML("")
	_ Event = InlineHTML("")
	_ Event = SoftBreak{}
	_ Event = HardBreak{}
	_ Event = FootnoteReference{}
	_ Event = InlineMath("")
	_ Event = DisplayMath("")

	_ Tag = Heading{}
	_ Tag = Paragraph{}
	_ Tag = BlockQuote{}
	_ Tag = CodeBlock{}
	_ Tag = FootnoteDefinition{}
	_ Tag = Image{}
)

// Kind returns a stable name for a tag's kind, ignoring its payload. Used
// for balance checking and diagnostics.
func Kind(t Tag) string {
	switch t.(type) {
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case BlockQuote:
		return "blockquote"
	case CodeBlock:
		return "codeblock"
	case FootnoteDefinition:
		return "footnote-definition"
	case Image:
		return "image"
	}
	return "unknown"
}

// Balanced reports whether every Start in events has a matching End of the
// same kind, with spans properly nested.
func Balanced(events []Event) bool {
	var stack []string
	for _, ev := range events {
		switch e := ev.(type) {
		case Start:
			stack = append(stack, Kind(e.Tag))
		case End:
			if len(stack) == 0 || stack[len(stack)-1] != Kind(e.Tag) {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}
