package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/dysthesis/ssg"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, args, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if flags.version {
		fmt.Println(Version)
		return
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, flags *buildFlags, args []string) error {
	input, output := args[0], args[1]

	opts := []ssg.Option{
		ssg.WithSiteRoot(input),
		ssg.WithHighlightTheme(flags.render.theme),
	}
	if flags.render.plainFootnotes {
		opts = append(opts, ssg.WithPlainFootnotes())
	}

	site := &ssg.Site{
		Input:  input,
		Output: output,
		Meta: ssg.SiteMeta{
			Title:       flags.site.title,
			Description: flags.site.description,
			BaseURL:     flags.site.baseURL,
			Author:      flags.site.author,
		},
		Renderer: ssg.New(opts...),
		Workers:  flags.workers,
	}

	if err := site.Build(ctx); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", output)
	return nil
}
