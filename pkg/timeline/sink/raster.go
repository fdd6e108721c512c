package sink

import (
	"context"

	"github.com/matzehuels/chronoshelf/pkg/render"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

// RenderPNG renders r as PNG via SVG conversion, at the resolution set by
// [WithScale]. Requires rsvg-convert.
func RenderPNG(ctx context.Context, r timeline.Result, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	return render.ToPNG(ctx, RenderSVG(r, opts...), o.scale)
}

// RenderPDF renders r as PDF via SVG conversion. Requires rsvg-convert.
func RenderPDF(ctx context.Context, r timeline.Result, opts ...Option) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(r, opts...))
}
