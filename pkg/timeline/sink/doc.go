// Package sink renders a computed [timeline.Result] into output formats.
//
// # Overview
//
// Layouts are computed once in base units. A sink applies the zoom factor at
// render time via [timeline.Result.Scaled], so changing zoom never re-runs the
// stacking algorithm. Available formats:
//
//   - SVG: standalone drawing with hover titles and optional book links
//   - JSON: positioned nodes and year marks for external front-ends
//   - Text: a character grid for terminals (used by `chronoshelf view`)
//   - PNG and PDF: the SVG converted with rsvg-convert
//
// # Options
//
//   - [WithZoom]: horizontal zoom factor, clamped like the zoom controller
//   - [WithCatalog]: book metadata for colors, reading status and links
//   - [WithLinkPrefix]: base URL for book links (default: site-relative)
//   - [WithHover]: what the hover text shows, see [HoverMode]
//   - [WithEpoch]: year suffixes used in hover text
//   - [WithScale]: PNG resolution multiplier
//
// Basic usage:
//
//	res := timeline.Layout(items, 1200)
//	svg := sink.RenderSVG(res, sink.WithZoom(1.3), sink.WithCatalog(catalog.NewIndex(books)))
//
// # Styling
//
// With a catalog attached, SVG nodes are outlined blue for canon and amber
// for Legends. Books being read get a dashed outline; unread books are drawn
// at half opacity.
package sink
