// Package timeline computes the horizontal layout of items placed on an
// epoch-relative year axis.
//
// # Overview
//
// [Layout] is a pure function of (items, container width). It returns base-unit
// positions for every item, the labelled year marks for the axis, the x-offset
// of year 0 and the total content width. Nothing in this package knows about
// HTTP, persistence or how the result is drawn; renderers live in the [sink]
// subpackage and zoom state lives in [zoom].
//
// # Algorithm
//
//  1. Items are stably sorted by year.
//  2. The content width grows with the item count so that every node has at
//     least NodeWidth+NodeGap of horizontal room, but is never smaller than the
//     container or [MinContentWidth].
//  3. Years map linearly onto [Padding, contentWidth-Padding]. If all items
//     share one year they collapse onto the horizontal center.
//  4. Nodes are stacked onto shelves with greedy first-fit: each item lands on
//     the lowest shelf whose right edge does not reach its x.
//  5. Axis ticks use an interval picked from the year range. Year 0 is always
//     marked when in range.
//
// Shelf assignment is first-fit by ascending year, not an optimal interval
// graph colouring. Clusters of nearly equal years can open more shelves than
// strictly necessary.
//
// # Zoom
//
// The result is computed once in base units. Zooming only multiplies x
// coordinates (see [Result.Scaled]); stack indices never change, so zooming
// never re-runs the layout.
//
//	res := timeline.Layout(items, 1200)
//	view := res.Scaled(1.69)
//
// [sink]: github.com/matzehuels/chronoshelf/pkg/timeline/sink
// [zoom]: github.com/matzehuels/chronoshelf/pkg/timeline/zoom
package timeline
