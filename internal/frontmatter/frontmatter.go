// Package frontmatter parses the optional YAML metadata block at the top of
// an article and renders the page-head and body-header fragments derived
// from it.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/dysthesis/ssg/internal/render"
)

// ErrInvalidMeta reports a metadata block that is present but not valid
// YAML.
var ErrInvalidMeta = errors.New("invalid front matter")

const dateLayout = "2006-01-02"

// Meta is the article metadata carried in the front matter block. All
// fields are optional.
type Meta struct {
	Title       string   `yaml:"title"`
	Subtitle    string   `yaml:"subtitle"`
	Description string   `yaml:"description"`
	Canonical   string   `yaml:"canonical"`
	Ctime       string   `yaml:"ctime"`
	Mtime       string   `yaml:"mtime"`
	Tags        []string `yaml:"tags"`
}

// Split separates the front matter block from the markdown body. A block is
// a leading "---" line, YAML content, and a closing "---" line. Documents
// without a block come back with a zero Meta and the full source as body.
func Split(source []byte) (Meta, []byte, error) {
	var meta Meta
	block, body, ok := cut(source)
	if !ok {
		return meta, source, nil
	}
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return Meta{}, nil, fmt.Errorf("%w: %v", ErrInvalidMeta, err)
	}
	return meta, body, nil
}

// cut finds the delimited block. An unterminated opening fence is treated
// as ordinary content.
func cut(source []byte) (block, body []byte, ok bool) {
	rest, found := bytes.CutPrefix(source, []byte("---"))
	if !found {
		return nil, nil, false
	}
	line, rest, found := bytes.Cut(rest, []byte("\n"))
	if !found || len(bytes.TrimRight(line, "\r")) != 0 {
		return nil, nil, false
	}
	offset := 0
	for offset <= len(rest) {
		lineEnd := bytes.IndexByte(rest[offset:], '\n')
		end := len(rest)
		next := len(rest) + 1
		if lineEnd >= 0 {
			end = offset + lineEnd
			next = end + 1
		}
		if string(bytes.TrimRight(rest[offset:end], "\r")) == "---" {
			// The closing fence may be the last line of the file, with no
			// trailing newline; the body is then empty.
			return rest[:offset], rest[min(next, len(rest)):], true
		}
		offset = next
	}
	return nil, nil, false
}

// Created returns the parsed creation date, if present and valid.
func (m Meta) Created() (time.Time, bool) {
	return parseDate(m.Ctime)
}

// Updated returns the parsed modification date, if present and valid.
func (m Meta) Updated() (time.Time, bool) {
	return parseDate(m.Mtime)
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// HeadHTML renders the <head> fragment for the article: canonical link,
// title, description, and the stylesheet link.
func (m Meta) HeadHTML(cssHref string) string {
	var b strings.Builder
	if m.Canonical != "" {
		fmt.Fprintf(&b, "\n<link rel=\"canonical\" href=\"%s\">", render.EscapeAttr(m.Canonical))
	}
	if m.Title != "" {
		fmt.Fprintf(&b, "\n<title>\n%s\n</title>", render.EscapeText(m.Title))
	}
	if m.Description != "" {
		fmt.Fprintf(&b, "\n<meta name=\"description\" content=\"%s\">", render.EscapeAttr(m.Description))
	}
	fmt.Fprintf(&b, "\n<link rel=\"stylesheet\" href=\"%s\">", render.EscapeAttr(cssHref))
	return b.String()
}

// BodyHeaderHTML renders the article header placed above the rendered body:
// title, subtitle, a link back to the index, and the dates/tags meta line.
func (m Meta) BodyHeaderHTML() string {
	var b strings.Builder
	if m.Title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>\n", render.EscapeText(m.Title))
	}
	if m.Subtitle != "" {
		fmt.Fprintf(&b, "<p class=\"subtitle\">%s</p>\n", render.EscapeText(m.Subtitle))
	}
	b.WriteString("<p class=\"meta\"><a href=\"index.html\">Index</a></p>\n")
	b.WriteString(m.metaLine())
	return b.String()
}

// metaLine renders the created/updated/tags line, or nothing when no part
// is present.
func (m Meta) metaLine() string {
	var parts []string
	if t, ok := m.Created(); ok {
		d := t.Format(dateLayout)
		parts = append(parts, fmt.Sprintf(
			`<span class="meta-item">Created: <time datetime="%s">%s</time></span>`, d, d))
	}
	if t, ok := m.Updated(); ok {
		d := t.Format(dateLayout)
		parts = append(parts, fmt.Sprintf(
			`<span class="meta-item">Updated: <time datetime="%s">%s</time></span>`, d, d))
	}
	if tags := m.cleanTags(); len(tags) > 0 {
		rendered := make([]string, len(tags))
		for i, tag := range tags {
			rendered[i] = fmt.Sprintf(`<span class="tag">%s</span>`, render.EscapeText(tag))
		}
		parts = append(parts, fmt.Sprintf(
			`<span class="meta-item">Tags: %s</span>`, strings.Join(rendered, " ")))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("<p class=\"meta\">%s</p>\n",
		strings.Join(parts, `<span class="meta-sep">&#183;</span>`))
}

// cleanTags drops empty and whitespace-only tags.
func (m Meta) cleanTags() []string {
	var tags []string
	for _, tag := range m.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
