package transform

import (
	"fmt"
	"strings"

	"github.com/dysthesis/ssg/internal/event"
	"github.com/dysthesis/ssg/internal/render"
)

// Tracked heading levels: only the two shallowest levels appear in the
// table; deeper headings are left untouched.
const (
	tocTopLevel = 2
	tocSubLevel = 3
)

// headingEntry records one tracked heading for table rendering.
type headingEntry struct {
	level int
	id    string
	title string
}

// Toc assigns stable anchor ids to h2/h3 headings, reusing explicit ids
// where the parser supplied them and slugifying accumulated title text
// otherwise, de-duplicated per document. If any heading was recorded, a
// nested ordered list is prepended to the stream as a single Html event.
type Toc struct{}

// NewToc returns a table-of-contents pass.
func NewToc() *Toc {
	return &Toc{}
}

// Transform implements Transformer.
func (Toc) Transform(events []event.Event) []event.Event {
	body, headings := extractHeadings(events)
	if len(headings) == 0 {
		return body
	}

	out := make([]event.Event, 0, len(body)+1)
	out = append(out, event.HTML(buildTocHTML(headings)))
	return append(out, body...)
}

// openHeading tracks the heading currently being accumulated.
type openHeading struct {
	level      int
	startIndex int
	title      strings.Builder
	explicitID string
	classes    []string
}

// extractHeadings walks the stream recording tracked headings and patching
// their start tags with final anchor ids. Output order and structure are
// otherwise unchanged.
func extractHeadings(events []event.Event) ([]event.Event, []headingEntry) {
	out := make([]event.Event, 0, len(events))
	var headings []headingEntry
	slugCounts := make(map[string]int)

	var open *openHeading

	for _, ev := range events {
		switch e := ev.(type) {
		case event.Start:
			h, ok := e.Tag.(event.Heading)
			if ok && open == nil && (h.Level == tocTopLevel || h.Level == tocSubLevel) {
				open = &openHeading{
					level:      h.Level,
					startIndex: len(out),
					explicitID: h.ID,
					classes:    h.Classes,
				}
				// Placeholder; patched once the title is known.
				out = append(out, event.Start{Tag: event.Heading{Level: h.Level, Classes: h.Classes}})
				continue
			}
			out = append(out, ev)

		case event.Text:
			if open != nil {
				open.title.WriteString(string(e))
			}
			out = append(out, ev)

		case event.Code:
			if open != nil {
				open.title.WriteString(string(e))
			}
			out = append(out, ev)

		case event.End:
			if _, ok := e.Tag.(event.Heading); ok && open != nil {
				title := strings.TrimSpace(open.title.String())

				base := open.explicitID
				if base == "" {
					base = render.Slugify(title)
				}
				id := uniquifySlug(base, slugCounts)

				out[open.startIndex] = event.Start{Tag: event.Heading{
					Level:   open.level,
					ID:      id,
					Classes: open.classes,
				}}
				out = append(out, event.End{Tag: event.Heading{Level: open.level}})

				headings = append(headings, headingEntry{level: open.level, id: id, title: title})
				open = nil
				continue
			}
			out = append(out, ev)

		default:
			out = append(out, ev)
		}
	}

	return out, headings
}

// uniquifySlug de-duplicates base against the per-document counter,
// yielding base, base-2, base-3, ... in encounter order.
func uniquifySlug(base string, counts map[string]int) string {
	counts[base]++
	if counts[base] == 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, counts[base])
}

// buildTocHTML renders the nested ordered list: top-level items numbered
// 01, 02, ... and sub-items 01.1, 01.2, ... relative to their enclosing
// item. A sub-level heading with no preceding top-level heading renders as
// a top-level item.
func buildTocHTML(headings []headingEntry) string {
	var s strings.Builder

	topN := 0
	subN := 0
	liOpen := false
	subOpen := false

	writeAnchor := func(num, id, title string) {
		fmt.Fprintf(&s, `<a href="#%s">`, render.EscapeAttr(id))
		s.WriteString(`<span class="toc-num">`)
		s.WriteString(num)
		s.WriteString(`</span><span class="toc-text">`)
		s.WriteString(render.EscapeText(title))
		s.WriteString(`</span><span class="toc-leader" aria-hidden="true"></span></a>`)
	}

	s.WriteString(`<div class="toc-anchor">`)
	s.WriteString(`<nav class="toc marginnote" aria-label="Contents">`)
	s.WriteString(`<p class="toc-title">Contents</p>`)
	s.WriteString(`<ol class="toc-list">`)

	for i, entry := range headings {
		nextIsSub := i+1 < len(headings) && headings[i+1].level == tocSubLevel

		switch entry.level {
		case tocTopLevel:
			if liOpen {
				if subOpen {
					s.WriteString("</ol>")
					subOpen = false
				}
				s.WriteString("</li>")
			}
			liOpen = true
			topN++
			subN = 0

			s.WriteString(`<li class="toc-l1">`)
			writeAnchor(fmt.Sprintf("%02d", topN), entry.id, entry.title)

			if nextIsSub {
				s.WriteString(`<ol class="toc-sub">`)
				subOpen = true
			}

		case tocSubLevel:
			if !liOpen {
				// Orphan sub-heading: promote to a top-level item.
				topN++
				subN = 0
				s.WriteString(`<li class="toc-l1">`)
				writeAnchor(fmt.Sprintf("%02d", topN), entry.id, entry.title)
				s.WriteString("</li>")
				continue
			}

			subN++
			s.WriteString(`<li class="toc-l2">`)
			writeAnchor(fmt.Sprintf("%02d.%d", topN, subN), entry.id, entry.title)
			s.WriteString("</li>")
		}
	}

	if liOpen {
		if subOpen {
			s.WriteString("</ol>")
		}
		s.WriteString("</li>")
	}

	s.WriteString("</ol></nav>")
	s.WriteString("</div>")
	return s.String()
}
