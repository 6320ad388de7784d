package transform

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dysthesis/ssg/internal/event"
)

func imageSpan(dest, title string, inner ...event.Event) []event.Event {
	events := []event.Event{event.Start{Tag: event.Image{Destination: dest, Title: title}}}
	events = append(events, inner...)
	return append(events, event.End{Tag: event.Image{}})
}

func TestImageCaptionsFigure(t *testing.T) {
	events := imageSpan("https://example.com/pic.png", `A "titled" image`,
		event.Text("the caption"))

	out := NewImageCaptions("").Transform(events)
	if len(out) != 1 {
		t.Fatalf("got %d events, want 1", len(out))
	}

	html := string(out[0].(event.HTML))
	if !strings.HasPrefix(html, `<figure class="image-container">`) {
		t.Errorf("missing figure wrapper: %q", html)
	}
	if !strings.Contains(html, `src="https://example.com/pic.png"`) {
		t.Errorf("missing source: %q", html)
	}
	if !strings.Contains(html, `alt="the caption"`) {
		t.Errorf("missing alt text: %q", html)
	}
	if !strings.Contains(html, `title="A &quot;titled&quot; image"`) {
		t.Errorf("title not escaped: %q", html)
	}
	if !strings.Contains(html, "<figcaption>the caption</figcaption>") {
		t.Errorf("missing caption: %q", html)
	}
}

func TestImageCaptionsLoadingPriority(t *testing.T) {
	events := imageSpan("a.png", "", event.Text("first"))
	events = append(events, imageSpan("b.png", "", event.Text("second"))...)

	out := NewImageCaptions("").Transform(events)
	if len(out) != 2 {
		t.Fatalf("got %d events, want 2", len(out))
	}

	first := string(out[0].(event.HTML))
	second := string(out[1].(event.HTML))

	if !strings.Contains(first, `loading="eager"`) || !strings.Contains(first, `fetchpriority="high"`) {
		t.Errorf("first image not eager/high-priority: %q", first)
	}
	if !strings.Contains(second, `loading="lazy"`) {
		t.Errorf("second image not lazy: %q", second)
	}
	if strings.Contains(second, "fetchpriority") {
		t.Errorf("second image has a priority hint: %q", second)
	}
}

func TestImageCaptionsLocalDimensions(t *testing.T) {
	root := t.TempDir()
	writeTestPNG(t, filepath.Join(root, "img", "photo.png"), 40, 30)

	events := imageSpan("/img/photo.png", "", event.Text("caption"))
	out := NewImageCaptions(root).Transform(events)
	html := string(out[0].(event.HTML))

	if !strings.Contains(html, `width="40" height="30"`) {
		t.Errorf("probed dimensions missing: %q", html)
	}
	if !strings.Contains(html, `srcset="/img/photo.png 40w"`) {
		t.Errorf("srcset hint missing: %q", html)
	}
}

func TestImageCaptionsDimensionsOmitted(t *testing.T) {
	tests := []struct {
		name string
		dest string
	}{
		{"remote url", "https://example.com/x.png"},
		{"missing file", "/nowhere/x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := imageSpan(tt.dest, "", event.Text("c"))
			out := NewImageCaptions(t.TempDir()).Transform(events)
			html := string(out[0].(event.HTML))

			if strings.Contains(html, "width=") || strings.Contains(html, "srcset=") {
				t.Errorf("dimension attributes present: %q", html)
			}
		})
	}
}

func TestImageCaptionsNestedImage(t *testing.T) {
	inner := imageSpan("inner.png", "", event.Text("inner alt"))
	events := imageSpan("outer.png", "", inner...)

	out := NewImageCaptions("").Transform(events)
	if len(out) != 1 {
		t.Fatalf("nested image split the span: got %d events", len(out))
	}
	html := string(out[0].(event.HTML))
	if !strings.Contains(html, `src="outer.png"`) {
		t.Errorf("outer image lost: %q", html)
	}
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}
