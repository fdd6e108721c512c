// Package render converts SVG documents into raster and print formats by
// shelling out to rsvg-convert from librsvg.
//
// The timeline sinks produce SVG natively; PNG and PDF are derived from that
// SVG so every format shows the same drawing.
package render
