// Package catalog reads book catalogs and turns them into timeline items.
//
// Books come from three places: the catalog backend's REST API ([Client]),
// JSON/YAML/CSV files ([ReadFile]), or API request bodies. Whatever the
// source, [Items] is the single point where books without a known in-universe
// year are dropped and counted, so every renderer reports the same
// "N books with unknown year not shown" figure.
package catalog

import (
	"strconv"

	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

// Canon classification of a book.
const (
	Canon   = "canon"
	Legends = "legends"
)

// Reading status of a book.
const (
	StatusUnread  = "unread"
	StatusReading = "reading"
	StatusRead    = "read"
)

// Book is the summary of a catalog entry, as listed by GET /books.
type Book struct {
	ID            int    `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	Year          *int   `json:"timeline_year" yaml:"year"`
	Author        string `json:"author_name,omitempty" yaml:"author,omitempty"`
	CoverURL      string `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`
	Canon         string `json:"canon_or_legends,omitempty" yaml:"canon,omitempty"`
	ReadingStatus string `json:"reading_status,omitempty" yaml:"reading_status,omitempty"`
	Owned         bool   `json:"owned,omitempty" yaml:"owned,omitempty"`
}

// Key returns the timeline item ID of b.
func (b Book) Key() string { return strconv.Itoa(b.ID) }

// IsLegends reports whether b belongs to the Legends continuity. Anything
// else, including an empty value, is treated as canon.
func (b Book) IsLegends() bool { return b.Canon == Legends }

// Validate rejects books whose year lies outside the supported range. Every
// loader runs it, so [Items] only ever sees placeable years.
func Validate(books []Book) error {
	for _, b := range books {
		if b.Year == nil {
			continue
		}
		if err := cerrors.ValidateYear(*b.Year); err != nil {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "book %d %q: %s", b.ID, b.Title, cerrors.UserMessage(err))
		}
	}
	return nil
}

// Items converts books with a known year into timeline items, preserving
// input order. skipped counts the books left out.
func Items(books []Book) (items []timeline.Item, skipped int) {
	items = make([]timeline.Item, 0, len(books))
	for _, b := range books {
		if b.Year == nil {
			skipped++
			continue
		}
		items = append(items, timeline.Item{ID: b.Key(), Year: *b.Year, Label: b.Title})
	}
	return items, skipped
}

// Index looks books up by timeline item ID.
type Index map[string]Book

// NewIndex indexes books by [Book.Key]. Later duplicates win.
func NewIndex(books []Book) Index {
	idx := make(Index, len(books))
	for _, b := range books {
		idx[b.Key()] = b
	}
	return idx
}

// Lookup returns the book for an item ID.
func (idx Index) Lookup(id string) (Book, bool) {
	b, ok := idx[id]
	return b, ok
}

// YearOf is a convenience for building books in code and tests.
func YearOf(y int) *int { return &y }
