package transform

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Decoders registered for dimension probing of common formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/dysthesis/ssg/internal/event"
	"github.com/dysthesis/ssg/internal/render"
)

// srcsetSizes is the responsive hint attached whenever dimensions are known.
const srcsetSizes = "(max-width: 760px) 92vw, 55vw"

// ImageCaptions replaces each image span with a single Html figure: the
// image itself, a caption rendered from the span's inner events, and the
// inner plain text as alt content. Local files are probed for pixel
// dimensions; remote URLs and unreadable files simply omit the size
// attributes. The first image in a document loads eagerly with high
// priority; all later images load lazily.
type ImageCaptions struct {
	root      string
	seenFirst bool
}

// NewImageCaptions returns an image caption pass. root is the directory
// site-absolute image paths resolve against for dimension probing; empty
// disables probing.
func NewImageCaptions(root string) *ImageCaptions {
	return &ImageCaptions{root: root}
}

// Transform implements Transformer.
func (t *ImageCaptions) Transform(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))

	for i := 0; i < len(events); i++ {
		start, ok := events[i].(event.Start)
		if !ok {
			out = append(out, events[i])
			continue
		}
		img, ok := start.Tag.(event.Image)
		if !ok {
			out = append(out, events[i])
			continue
		}

		span, next := captureSpan(events, i)
		i = next - 1

		isFirst := !t.seenFirst
		t.seenFirst = true

		out = append(out, event.HTML(t.renderFigure(img, span, isFirst)))
	}

	return out
}

func (t *ImageCaptions) renderFigure(img event.Image, span []event.Event, first bool) string {
	caption := render.HTML(span)

	var alt strings.Builder
	for _, ev := range span {
		switch e := ev.(type) {
		case event.Text:
			alt.WriteString(string(e))
		case event.Code:
			alt.WriteString(string(e))
		}
	}

	var sizeAttrs, srcsetAttrs string
	if w, h, ok := t.dimensions(img.Destination); ok {
		sizeAttrs = fmt.Sprintf(` width="%d" height="%d"`, w, h)
		srcsetAttrs = fmt.Sprintf(` srcset="%s %dw" sizes="%s"`,
			render.EscapeAttr(img.Destination), w, srcsetSizes)
	}

	loading := "lazy"
	fetchPriority := ""
	if first {
		loading = "eager"
		fetchPriority = ` fetchpriority="high"`
	}

	return fmt.Sprintf(
		`<figure class="image-container"><img src="%s" alt="%s" title="%s" loading="%s" decoding="async"%s%s%s /><figcaption>%s</figcaption></figure>`,
		render.EscapeAttr(img.Destination),
		render.EscapeAttr(alt.String()),
		render.EscapeAttr(img.Title),
		loading,
		sizeAttrs,
		srcsetAttrs,
		fetchPriority,
		caption,
	)
}

// dimensions probes a local image file for pixel dimensions. Only header
// bytes are decoded. Remote sources and unreadable files report no
// dimensions; the pass never fails over them.
func (t *ImageCaptions) dimensions(dest string) (width, height int, ok bool) {
	if strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://") {
		return 0, 0, false
	}
	if t.root == "" {
		return 0, 0, false
	}

	// Site-absolute paths resolve against the site root.
	cleaned := strings.TrimPrefix(dest, "/")
	path := filepath.Join(t.root, filepath.FromSlash(cleaned))
	if _, err := os.Stat(path); err != nil {
		path = filepath.FromSlash(dest)
	}

	f, err := os.Open(path) // #nosec G304 -- path is site-content relative by construction
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
