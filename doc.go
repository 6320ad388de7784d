// Package ssg renders markdown articles into a static site.
//
// # Quick Start
//
// Create a renderer and render one article:
//
//	r := ssg.New(ssg.WithSiteRoot("./content"))
//	doc, err := r.Render(ctx, source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(doc.Body)
//
// Or build a whole site from a directory of markdown files:
//
//	site := &ssg.Site{
//	    Input:  "./content",
//	    Output: "./public",
//	    Meta:   ssg.SiteMeta{Title: "Example", BaseURL: "https://example.com"},
//	}
//	err := site.Build(ctx)
//
// # Rendering Pipeline
//
// Each article goes through these stages:
//
//  1. Front matter split (YAML metadata block)
//  2. Markdown parsing into a structural event stream
//  3. Event transformations: epigraph attribution, syntax highlighting,
//     math rendering, footnotes (sidenotes or a plain list), heading
//     demotion, table of contents, image figures
//  4. HTML serialization
//
// Site builds additionally wrap each article in the page shell, emit
// precompressed variants, an index page, and RSS/Atom feeds.
package ssg
