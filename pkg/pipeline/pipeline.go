// Package pipeline runs catalog → layout → render with caching.
//
// The CLI and the HTTP API both go through a [Runner], so a layout computed by
// `chronoshelf layout` and one requested through POST /v1/layout share cache
// entries and produce identical output.
//
// # Stages
//
//  1. Items: books without a known year are dropped and counted
//  2. Layout: [timeline.Layout] in base units, cached by items and width
//  3. Render: one artifact per format, cached by layout, zoom and styling
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, books, pipeline.Options{
//	    Width:   1200,
//	    Zoom:    1.3,
//	    Formats: []string{sink.FormatSVG, sink.FormatJSON},
//	})
//	svg := res.Artifacts[sink.FormatSVG]
//
// Stages can also be run on their own:
//
//	layout, err := runner.Layout(ctx, items, opts)
//	artifacts, err := runner.Render(ctx, layout, nil, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chronoshelf/pkg/cache"
	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline/sink"
	"github.com/matzehuels/chronoshelf/pkg/timeline/zoom"
)

// DefaultWidth is the container width used when none is given. It matches
// the base width the zoom controller scales from.
const DefaultWidth = 1200.0

// Options configures a pipeline run. It is also the JSON shape of API
// request options.
type Options struct {
	// Layout options
	Width float64        `json:"width,omitempty"`
	Epoch timeline.Epoch `json:"epoch,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Zoom       float64  `json:"zoom,omitempty"`
	Hover      string   `json:"hover,omitempty"`
	LinkPrefix string   `json:"link_prefix,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Layout     timeline.Result
	LayoutHash string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats contains counts and timings of a run.
type Stats struct {
	Books      int
	Nodes      int
	Skipped    int
	Shelves    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

func validHover(h string) bool {
	switch sink.HoverMode(h) {
	case "", sink.HoverTitleYear, sink.HoverTitleAuthor, sink.HoverImage, sink.HoverImageAlways:
		return true
	}
	return false
}

// ValidateFormats checks that every format is known.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := cerrors.ValidateFormat(f, sink.ValidFormats); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks every field and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills in layout defaults.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Epoch.IsZero() {
		o.Epoch = timeline.DefaultEpoch
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates the width.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return cerrors.ValidateWidth(o.Width)
}

// SetRenderDefaults fills in render defaults.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{sink.FormatSVG}
	}
	if o.Zoom == 0 {
		o.Zoom = zoom.Default
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates formats, zoom and
// hover mode.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := cerrors.ValidateZoom(o.Zoom); err != nil {
		return err
	}
	if !validHover(o.Hover) {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "invalid hover mode: %q", o.Hover)
	}
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:  o.Width,
		Before: o.Epoch.Before,
		After:  o.Epoch.After,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string, linked bool) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Zoom:       o.Zoom,
		Linked:     linked,
		Hover:      o.Hover,
		LinkPrefix: o.LinkPrefix,
	}
}
