package transform

import "github.com/dysthesis/ssg/internal/event"

// captureSpan collects the events nested inside a span. events[start] must
// be the Start event opening the span. It returns the inner events, with
// the opening and closing tags excluded, and the index just past the
// matching End. Depth is tracked across every Start/End pair, not only the
// opening tag's kind, so arbitrarily nested structure is captured whole.
//
// A stream that ends before the span closes is an upstream-parser contract
// violation; the span is capped at the end of input rather than patched.
func captureSpan(events []event.Event, start int) (inner []event.Event, next int) {
	depth := 1
	i := start + 1
	for i < len(events) && depth > 0 {
		switch events[i].(type) {
		case event.Start:
			depth++
			inner = append(inner, events[i])
		case event.End:
			depth--
			if depth > 0 {
				inner = append(inner, events[i])
			}
		default:
			inner = append(inner, events[i])
		}
		i++
	}
	return inner, i
}
