package transform

import (
	"sync"

	"github.com/wyatt915/treeblood"

	"github.com/dysthesis/ssg/internal/event"
)

// Math renders math source to MathML: InlineMath becomes InlineHtml,
// DisplayMath becomes Html. The renderer is built once, lazily, and reused
// for every expression in the document. A failed render falls back to the
// original source emitted as plain text.
type Math struct {
	macros map[string]string

	once     sync.Once
	renderer *treeblood.Pitziil
}

// NewMath returns a math rendering pass with the given user macros, which
// may be nil.
func NewMath(macros map[string]string) *Math {
	return &Math{macros: macros}
}

// Transform implements Transformer. All events other than math sources pass
// through unchanged.
func (m *Math) Transform(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		switch e := ev.(type) {
		case event.InlineMath:
			if html, err := m.pitziil().TextStyle(string(e)); err == nil {
				out = append(out, event.InlineHTML(html))
			} else {
				out = append(out, event.Text(string(e)))
			}
		case event.DisplayMath:
			if html, err := m.pitziil().DisplayStyle(string(e)); err == nil {
				out = append(out, event.HTML(html))
			} else {
				out = append(out, event.Text(string(e)))
			}
		default:
			out = append(out, ev)
		}
	}
	return out
}

func (m *Math) pitziil() *treeblood.Pitziil {
	m.once.Do(func() {
		m.renderer = treeblood.NewPitziil(m.macros)
	})
	return m.renderer
}
