package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	"github.com/matzehuels/chronoshelf/pkg/observability"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline/sink"
)

// RenderFromLayout renders every requested format without caching. idx may
// be nil, in which case nodes are drawn without catalog styling or links.
func RenderFromLayout(ctx context.Context, res timeline.Result, idx catalog.Index, opts Options) (map[string][]byte, error) {
	sinkOpts := SinkOptions(idx, opts)
	hooks := observability.Pipeline()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		data, err := sink.Render(ctx, format, res, sinkOpts...)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// SinkOptions translates pipeline options into sink options.
func SinkOptions(idx catalog.Index, opts Options) []sink.Option {
	so := []sink.Option{
		sink.WithZoom(opts.Zoom),
		sink.WithEpoch(opts.Epoch),
	}
	if idx != nil {
		so = append(so, sink.WithCatalog(idx), sink.WithLinkPrefix(opts.LinkPrefix))
	}
	if opts.Hover != "" {
		so = append(so, sink.WithHover(sink.HoverMode(opts.Hover)))
	}
	return so
}
