package main

import (
	"errors"

	flag "github.com/spf13/pflag"
)

// ErrInvalidArgs reports missing positional arguments.
var ErrInvalidArgs = errors.New("usage: ssg [flags] <input-dir> <output-dir>")

// siteFlags holds site identity flags used by the index page and feeds.
type siteFlags struct {
	title       string
	description string
	baseURL     string
	author      string
}

// renderFlags holds per-article rendering flags.
type renderFlags struct {
	theme          string
	plainFootnotes bool
}

// buildFlags holds all flags for a site build.
type buildFlags struct {
	site    siteFlags
	render  renderFlags
	workers int
	verbose bool
	version bool
}

func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVar(&f.title, "site-title", "", "site title for the index page and feeds")
	fs.StringVar(&f.description, "site-description", "", "site description for feeds")
	fs.StringVar(&f.baseURL, "base-url", "", "absolute site URL used for feed links")
	fs.StringVar(&f.author, "site-author", "", "site author for feeds")
}

func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.theme, "theme", "", "syntax highlighting theme (\"\" = default)")
	fs.BoolVar(&f.plainFootnotes, "plain-footnotes", false,
		"render footnotes as an end-of-page list instead of sidenotes")
}

// parseFlags parses the command line. It returns the flags and the
// positional arguments: input directory and output directory.
func parseFlags(args []string) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := flag.NewFlagSet("ssg", flag.ContinueOnError)
	addSiteFlags(fs, &f.site)
	addRenderFlags(fs, &f.render)
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent renders (0 = GOMAXPROCS)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show build details")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	rest := fs.Args()
	if f.version {
		return f, rest, nil
	}
	if len(rest) != 2 {
		return nil, nil, ErrInvalidArgs
	}
	return f, rest, nil
}
