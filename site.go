package ssg

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/dysthesis/ssg/internal/assets"
	"github.com/dysthesis/ssg/internal/feed"
	"github.com/dysthesis/ssg/internal/frontmatter"
	"github.com/dysthesis/ssg/internal/render"
)

// SiteMeta describes the site as a whole for the index page and feeds.
type SiteMeta struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
}

// Site builds a static site from a directory of markdown articles. Output
// is flat: one HTML file per article plus index, stylesheet, and feeds,
// each with a precompressed .gz variant.
type Site struct {
	// Input is the directory scanned recursively for *.md files.
	Input string
	// Output is the directory pages are written to, created if missing.
	Output string
	// Meta is the site-level metadata used by the index page and feeds.
	Meta SiteMeta
	// Renderer renders individual articles. Nil means a default Renderer.
	Renderer *Renderer
	// Workers limits concurrent renders. Zero means GOMAXPROCS.
	Workers int
}

type article struct {
	slug string
	doc  *Document
}

func (a article) title() string {
	if a.doc.Meta.Title != "" {
		return a.doc.Meta.Title
	}
	return a.slug
}

// Build renders every article and writes the whole site.
func (s *Site) Build(ctx context.Context) error {
	paths, err := s.discover()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: %s", ErrNoArticles, s.Input)
	}

	renderer := s.Renderer
	if renderer == nil {
		renderer = New()
	}

	if err := os.MkdirAll(s.Output, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	articles := make([]article, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, path := range paths {
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			doc, err := renderer.Render(gctx, source)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", path, err)
			}
			articles[i] = article{slug: slugFor(path), doc: doc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sortArticles(articles)

	for _, a := range articles {
		if err := s.writeArticle(a); err != nil {
			return err
		}
	}
	if err := s.writeStylesheet(renderer.HighlightTheme()); err != nil {
		return err
	}
	if err := s.writeIndex(articles); err != nil {
		return err
	}
	return s.writeFeeds(articles)
}

// discover lists markdown files under the input directory, skipping hidden
// and underscore-prefixed directories.
func (s *Site) discover() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.Input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != s.Input && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Site) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// sortArticles orders newest first by creation date, dateless articles
// last, ties broken by title.
func sortArticles(articles []article) {
	sort.SliceStable(articles, func(i, j int) bool {
		ti, iok := articles[i].doc.Meta.Created()
		tj, jok := articles[j].doc.Meta.Created()
		switch {
		case iok && jok && !ti.Equal(tj):
			return ti.After(tj)
		case iok != jok:
			return iok
		}
		return articles[i].title() < articles[j].title()
	})
}

func slugFor(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func (s *Site) writeArticle(a article) error {
	page, err := renderPage(
		a.doc.Meta.HeadHTML("style.css"),
		a.doc.Meta.BodyHeaderHTML(),
		a.doc.Body,
	)
	if err != nil {
		return err
	}
	return s.writeCompressed(a.slug+".html", page)
}

func (s *Site) writeStylesheet(theme string) error {
	highlight, err := assets.HighlightCSS(theme)
	if err != nil {
		return err
	}
	css := assets.BaseCSS() + "\n" + highlight
	return s.writeCompressed("style.css", []byte(css))
}

func (s *Site) writeIndex(articles []article) error {
	head := frontmatter.Meta{
		Title:       s.Meta.Title,
		Description: s.Meta.Description,
	}.HeadHTML("style.css")

	var body strings.Builder
	body.WriteString("<ul class=\"article-list\">\n")
	for _, a := range articles {
		body.WriteString("<li>")
		if t, ok := a.doc.Meta.Created(); ok {
			fmt.Fprintf(&body, "<span class=\"meta-item\">%s</span> ", t.Format("2006-01-02"))
		}
		fmt.Fprintf(&body, "<a href=\"%s\">%s</a></li>\n",
			render.EscapeAttr(a.slug+".html"), render.EscapeText(a.title()))
	}
	body.WriteString("</ul>\n")

	header := fmt.Sprintf("<h1>%s</h1>\n", render.EscapeText(s.Meta.Title))
	page, err := renderPage(head, header, body.String())
	if err != nil {
		return err
	}
	return s.writeCompressed("index.html", page)
}

func (s *Site) writeFeeds(articles []article) error {
	base := strings.TrimSuffix(s.Meta.BaseURL, "/")
	entries := make([]feed.Entry, 0, len(articles))
	for _, a := range articles {
		published, _ := a.doc.Meta.Created()
		updated, _ := a.doc.Meta.Updated()
		entries = append(entries, feed.Entry{
			Title:     a.title(),
			URL:       base + "/" + a.slug + ".html",
			Content:   a.doc.FeedBody,
			Published: published,
			Updated:   updated,
		})
	}

	rss, err := feed.RSS(feed.Site(s.Meta), entries)
	if err != nil {
		return err
	}
	if err := s.writeCompressed("rss.xml", []byte(rss)); err != nil {
		return err
	}
	atom, err := feed.Atom(feed.Site(s.Meta), entries)
	if err != nil {
		return err
	}
	return s.writeCompressed("atom.xml", []byte(atom))
}

func renderPage(head, header, body string) ([]byte, error) {
	var b bytes.Buffer
	err := assets.PageTemplate().Execute(&b, assets.Page{
		Head:   template.HTML(head),
		Header: template.HTML(header),
		Body:   template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return b.Bytes(), nil
}

// writeCompressed writes the file and its precompressed .gz sibling so the
// web server can serve either.
func (s *Site) writeCompressed(name string, data []byte) error {
	path := filepath.Join(s.Output, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := os.WriteFile(path+".gz", buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
