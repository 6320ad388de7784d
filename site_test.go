package ssg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dysthesis/ssg/internal/frontmatter"
)

func writeArticleFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func buildTestSite(t *testing.T) (input, output string) {
	t.Helper()
	input = t.TempDir()
	output = t.TempDir()

	writeArticleFile(t, input, "older.md", `---
title: Older Post
ctime: 2024-01-10
---
First body.
`)
	writeArticleFile(t, input, "newer.md", `---
title: Newer Post
ctime: 2024-06-20
---
Second body with a note[^1].

[^1]: Margin content.
`)

	site := &Site{
		Input:  input,
		Output: output,
		Meta: SiteMeta{
			Title:       "Example",
			Description: "Example site",
			BaseURL:     "https://example.com/",
			Author:      "E. Author",
		},
	}
	if err := site.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return input, output
}

func TestSiteBuildOutputs(t *testing.T) {
	_, output := buildTestSite(t)

	for _, name := range []string{
		"older.html", "newer.html", "index.html", "style.css",
		"rss.xml", "atom.xml",
		"older.html.gz", "newer.html.gz", "index.html.gz", "style.css.gz",
	} {
		if _, err := os.Stat(filepath.Join(output, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestSiteBuildPageShell(t *testing.T) {
	_, output := buildTestSite(t)

	page, err := os.ReadFile(filepath.Join(output, "newer.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<!doctype html>",
		"<title>\nNewer Post\n</title>",
		"<h1>Newer Post</h1>",
		`class="sidenote"`,
		`href="index.html"`,
	} {
		if !strings.Contains(string(page), want) {
			t.Errorf("page lacks %q:\n%s", want, page)
		}
	}
}

func TestSiteBuildIndexOrder(t *testing.T) {
	_, output := buildTestSite(t)

	index, err := os.ReadFile(filepath.Join(output, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	newer := strings.Index(string(index), "Newer Post")
	older := strings.Index(string(index), "Older Post")
	if newer < 0 || older < 0 {
		t.Fatalf("index lacks article links:\n%s", index)
	}
	if newer > older {
		t.Error("index lists older article before newer one")
	}
}

func TestSiteBuildFeeds(t *testing.T) {
	_, output := buildTestSite(t)

	rss, err := os.ReadFile(filepath.Join(output, "rss.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(rss), "https://example.com/newer.html") {
		t.Errorf("rss lacks article link:\n%s", rss)
	}
	// Feeds carry the plain-footnote rendering.
	if strings.Contains(string(rss), "margin-toggle") {
		t.Error("feed content carries sidenote markup")
	}

	atom, err := os.ReadFile(filepath.Join(output, "atom.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(atom), "Newer Post") {
		t.Errorf("atom lacks article title:\n%s", atom)
	}
}

func TestSiteBuildStylesheet(t *testing.T) {
	_, output := buildTestSite(t)

	css, err := os.ReadFile(filepath.Join(output, "style.css"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(css), ".sidenote") {
		t.Error("stylesheet lacks base rules")
	}
	if !strings.Contains(string(css), ".chroma") {
		t.Error("stylesheet lacks highlight rules")
	}
}

func TestSiteBuildNoArticles(t *testing.T) {
	site := &Site{Input: t.TempDir(), Output: t.TempDir()}
	if err := site.Build(context.Background()); !errors.Is(err, ErrNoArticles) {
		t.Errorf("err = %v, want ErrNoArticles", err)
	}
}

func TestSiteDiscoverSkipsHiddenDirs(t *testing.T) {
	input := t.TempDir()
	writeArticleFile(t, input, "keep.md", "# K\n")
	for _, dir := range []string{".git", "_drafts"} {
		sub := filepath.Join(input, dir)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}
		writeArticleFile(t, sub, "skip.md", "# S\n")
	}

	site := &Site{Input: input}
	paths, err := site.discover()
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "keep.md" {
		t.Errorf("paths = %v, want only keep.md", paths)
	}
}

func TestSortArticles(t *testing.T) {
	mk := func(title, ctime string) article {
		return article{
			slug: strings.ToLower(title),
			doc:  &Document{Meta: frontmatter.Meta{Title: title, Ctime: ctime}},
		}
	}
	articles := []article{
		mk("Dateless", ""),
		mk("Old", "2023-01-01"),
		mk("New", "2024-01-01"),
		mk("Also dateless", ""),
	}
	sortArticles(articles)

	got := make([]string, len(articles))
	for i, a := range articles {
		got[i] = a.title()
	}
	want := []string{"New", "Old", "Also dateless", "Dateless"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSlugFor(t *testing.T) {
	if got := slugFor(filepath.Join("content", "sub", "a-post.md")); got != "a-post" {
		t.Errorf("slugFor = %q, want %q", got, "a-post")
	}
}

func TestSiteBuildCanceledContext(t *testing.T) {
	input := t.TempDir()
	writeArticleFile(t, input, "a.md", "# A\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	site := &Site{Input: input, Output: t.TempDir()}
	start := time.Now()
	err := site.Build(ctx)
	if err == nil {
		t.Fatal("Build succeeded with canceled context")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Build did not abort promptly")
	}
}
