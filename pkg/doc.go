// Package pkg holds the chronoshelf libraries.
//
// # Overview
//
// Chronoshelf places books on a horizontal timeline by in-universe year. Books
// whose markers would overlap are stacked onto shelves above the axis, and the
// result can be viewed at any zoom without recomputing the layout.
//
// # Packages
//
//   - [timeline]: the layout engine (items → nodes, year marks, zero marker)
//   - [timeline/zoom]: the per-view zoom controller
//   - [timeline/sink]: SVG, JSON, text, PNG and PDF renderers
//   - [catalog]: books from files or the catalog backend
//   - [pipeline]: catalog → layout → render with caching
//   - [cache], [store]: layout and artifact caching, saved snapshots
//   - [api]: the HTTP API
//   - [config], [errors], [observability], [buildinfo], [render]: support code
//
// # Data Flow
//
//	catalog file / catalog API
//	         ↓
//	    [catalog] (drop and count books without a year)
//	         ↓
//	    [timeline] (layout in base units)
//	         ↓
//	    [timeline/sink] (scale by zoom, draw)
//	         ↓
//	SVG / JSON / text / PNG / PDF
package pkg
