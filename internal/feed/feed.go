// Package feed builds the site's RSS and Atom documents from rendered
// articles.
package feed

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/feeds"
)

// ItemLimit caps how many articles a feed carries.
const ItemLimit = 50

// ErrBuild reports a feed serialization failure.
var ErrBuild = errors.New("cannot build feed")

// Site is the feed-level metadata.
type Site struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
}

// Entry is one article in the feed. Content carries the full rendered body
// in the plain-footnote variant. Zero times are omitted.
type Entry struct {
	Title     string
	URL       string
	Content   string
	Published time.Time
	Updated   time.Time
}

// RSS renders the RSS 2.0 document for the newest entries.
func RSS(site Site, entries []Entry) (string, error) {
	xml, err := build(site, entries).ToRss()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuild, err)
	}
	return xml, nil
}

// Atom renders the Atom document for the newest entries.
func Atom(site Site, entries []Entry) (string, error) {
	xml, err := build(site, entries).ToAtom()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuild, err)
	}
	return xml, nil
}

func build(site Site, entries []Entry) *feeds.Feed {
	if len(entries) > ItemLimit {
		entries = entries[:ItemLimit]
	}

	// Atom requires an updated timestamp; use the newest entry's, falling
	// back to now for an empty or dateless feed.
	updated := time.Now()
	if len(entries) > 0 {
		if t := latest(entries[0]); !t.IsZero() {
			updated = t
		}
	}

	f := &feeds.Feed{
		Title:       site.Title,
		Link:        &feeds.Link{Href: site.BaseURL},
		Description: site.Description,
		Author:      &feeds.Author{Name: site.Author},
		Updated:     updated,
	}

	for _, entry := range entries {
		item := &feeds.Item{
			Title:   entry.Title,
			Link:    &feeds.Link{Href: entry.URL},
			Id:      entry.URL,
			Content: entry.Content,
			Created: entry.Published,
			Updated: latest(entry),
		}
		if item.Updated.IsZero() {
			item.Updated = updated
		}
		f.Items = append(f.Items, item)
	}
	return f
}

// latest prefers the update date over the publication date.
func latest(e Entry) time.Time {
	if !e.Updated.IsZero() {
		return e.Updated
	}
	return e.Published
}
