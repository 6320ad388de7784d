package transform

import "github.com/dysthesis/ssg/internal/event"

// maxHeadingLevel is the deepest supported heading level; it is fixed under
// demotion.
const maxHeadingLevel = 6

// HeadingDemoter shifts every heading down one level (h1 becomes h2, and so
// on; h6 stays h6) so that document body headings start below the page's
// own title heading.
type HeadingDemoter struct{}

// NewHeadingDemoter returns a heading demotion pass.
func NewHeadingDemoter() *HeadingDemoter {
	return &HeadingDemoter{}
}

// Transform implements Transformer.
func (HeadingDemoter) Transform(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		switch e := ev.(type) {
		case event.Start:
			if h, ok := e.Tag.(event.Heading); ok {
				h.Level = demote(h.Level)
				out = append(out, event.Start{Tag: h})
				continue
			}
			out = append(out, ev)
		case event.End:
			if h, ok := e.Tag.(event.Heading); ok {
				h.Level = demote(h.Level)
				out = append(out, event.End{Tag: h})
				continue
			}
			out = append(out, ev)
		default:
			out = append(out, ev)
		}
	}
	return out
}

// demote maps level L to L+1, saturating at the deepest level.
func demote(level int) int {
	if level >= maxHeadingLevel {
		return maxHeadingLevel
	}
	return level + 1
}
