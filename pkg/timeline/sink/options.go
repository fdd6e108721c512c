package sink

import (
	"context"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline/zoom"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatText = "txt"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats lists every format [Render] accepts.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ContentType returns the MIME type served for format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// HoverMode selects what a node's hover text and face show.
type HoverMode string

const (
	HoverTitleYear   HoverMode = "title_year"   // title and formatted year
	HoverTitleAuthor HoverMode = "title_author" // title and author
	HoverImage       HoverMode = "image_hover"  // node is a colored dot, cover only on hover
	HoverImageAlways HoverMode = "image_always" // cover always drawn in the node
)

// Option configures a renderer.
type Option func(*options)

type options struct {
	zoom       float64
	index      catalog.Index
	linkPrefix string
	hover      HoverMode
	epoch      timeline.Epoch
	scale      float64
}

// WithZoom sets the horizontal zoom factor. Values outside the controller's
// range are clamped.
func WithZoom(z float64) Option {
	return func(o *options) { o.zoom = zoom.Clamp(z) }
}

// WithCatalog attaches book metadata, enabling canon colors, reading-status
// styling and book links.
func WithCatalog(idx catalog.Index) Option {
	return func(o *options) { o.index = idx }
}

// WithLinkPrefix sets the base for book links, e.g. "https://shelf.example.com".
// Links are only emitted when a catalog is attached.
func WithLinkPrefix(prefix string) Option {
	return func(o *options) { o.linkPrefix = prefix }
}

// WithHover selects the hover presentation.
func WithHover(m HoverMode) Option {
	return func(o *options) { o.hover = m }
}

// WithEpoch sets the year suffixes used in hover text.
func WithEpoch(e timeline.Epoch) Option {
	return func(o *options) { o.epoch = e }
}

// WithScale sets the PNG resolution multiplier (default 2).
func WithScale(s float64) Option {
	return func(o *options) { o.scale = s }
}

func newOptions(opts []Option) options {
	o := options{zoom: zoom.Default, hover: HoverTitleYear, epoch: timeline.DefaultEpoch, scale: 2}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) book(id string) (catalog.Book, bool) {
	if o.index == nil {
		return catalog.Book{}, false
	}
	return o.index.Lookup(id)
}

func (o options) link(id string) string {
	if o.index == nil {
		return ""
	}
	return o.linkPrefix + "/books/" + id
}

// Render dispatches to the renderer for format.
func Render(ctx context.Context, format string, r timeline.Result, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(r, opts...), nil
	case FormatJSON:
		return RenderJSON(r, opts...)
	case FormatText:
		return RenderText(r, opts...), nil
	case FormatPNG:
		return RenderPNG(ctx, r, opts...)
	case FormatPDF:
		return RenderPDF(ctx, r, opts...)
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}
