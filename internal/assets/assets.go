// Package assets holds the embedded page shell, the base stylesheet, and
// the generated syntax highlighting stylesheet.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

//go:embed styles/*
var styleFS embed.FS

//go:embed templates/*
var templateFS embed.FS

// ErrHighlightCSS reports a failure generating the highlight stylesheet.
var ErrHighlightCSS = errors.New("cannot build highlight stylesheet")

var (
	pageOnce sync.Once
	pageTmpl *template.Template
)

// Page is the data the page shell template renders. All fields carry
// markup rendered by earlier stages.
type Page struct {
	Head   template.HTML
	Header template.HTML
	Body   template.HTML
}

// PageTemplate returns the shared page shell template. The embedded
// template is known good, so parsing failures panic.
func PageTemplate() *template.Template {
	pageOnce.Do(func() {
		pageTmpl = template.Must(template.ParseFS(templateFS, "templates/page.html"))
	})
	return pageTmpl
}

// BaseCSS returns the embedded base stylesheet.
func BaseCSS() string {
	content, err := styleFS.ReadFile("styles/base.css")
	if err != nil {
		panic(fmt.Sprintf("embedded stylesheet missing: %v", err))
	}
	return string(content)
}

// HighlightCSS builds the class-based chroma stylesheet for the named
// theme. Unknown themes fall back to chroma's default style.
func HighlightCSS(theme string) (string, error) {
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var b strings.Builder
	if err := formatter.WriteCSS(&b, style); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlightCSS, err)
	}
	return b.String(), nil
}
