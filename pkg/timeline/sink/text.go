package sink

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

// CellWidth is the number of zoomed base units one text column covers.
const CellWidth = 12.0

// Glyphs used by the text renderer.
const (
	glyphAxis    = '─'
	glyphZero    = '┼'
	glyphZeroBar = '┆'
)

// SkippedMessage is the notice shown when books without a year were left out.
func SkippedMessage(n int) string {
	if n == 1 {
		return "1 book with unknown year not shown"
	}
	return fmt.Sprintf("%d books with unknown year not shown", n)
}

// RenderText renders r on a character grid, top shelf first, followed by the
// axis, the year labels and, if any books were skipped, a notice line.
//
// Each node is three columns wide: "[#]" read, "[~]" reading, "[.]" unread,
// "[o]" without catalog data. Legends books use parentheses instead of
// brackets. The output is plain UTF-8 without color codes.
func RenderText(r timeline.Result, opts ...Option) []byte {
	lines := TextLines(r, opts...)
	return []byte(strings.Join(lines, "\n") + "\n")
}

// TextLines is [RenderText] split into lines, for callers that scroll or
// style the grid themselves.
func TextLines(r timeline.Result, opts ...Option) []string {
	o := newOptions(opts)
	s := r.Scaled(o.zoom)

	cols := max(1, int(math.Ceil(s.ContentWidth/CellWidth)))
	shelves := max(1, s.Shelves())
	zeroCol := -1
	if s.HasZero() {
		zeroCol = min(column(s.ZeroX), cols-1)
	}

	grid := make([][]rune, shelves)
	for i := range grid {
		grid[i] = blankRow(cols)
		if zeroCol >= 0 {
			grid[i][zeroCol] = glyphZeroBar
		}
	}
	for _, n := range s.Nodes {
		row := grid[shelves-1-n.Stack]
		col := column(n.X)
		for i, g := range nodeGlyphs(o, n.Item.ID) {
			if c := col + i; c < cols {
				row[c] = g
			}
		}
	}

	axis := make([]rune, cols)
	for i := range axis {
		axis[i] = glyphAxis
	}
	if zeroCol >= 0 {
		axis[zeroCol] = glyphZero
	}

	lines := make([]string, 0, shelves+3)
	for _, row := range grid {
		lines = append(lines, strings.TrimRight(string(row), " "))
	}
	lines = append(lines, string(axis), strings.TrimRight(string(labelRow(s.Marks, cols)), " "))
	if s.Skipped > 0 {
		lines = append(lines, SkippedMessage(s.Skipped))
	}
	return lines
}

func column(x float64) int {
	return max(0, int(math.Floor(x/CellWidth)))
}

func blankRow(n int) []rune {
	row := make([]rune, n)
	for i := range row {
		row[i] = ' '
	}
	return row
}

func nodeGlyphs(o options, id string) [3]rune {
	b, ok := o.book(id)
	if !ok {
		return [3]rune{'[', 'o', ']'}
	}
	g := [3]rune{'[', '.', ']'}
	switch b.ReadingStatus {
	case catalog.StatusRead:
		g[1] = '#'
	case catalog.StatusReading:
		g[1] = '~'
	}
	if b.IsLegends() {
		g[0], g[2] = '(', ')'
	}
	return g
}

// labelRow centers each mark label under its column. A label that would
// touch the previous one is dropped.
func labelRow(marks []timeline.YearMark, cols int) []rune {
	row := blankRow(cols)
	next := 0
	for _, m := range marks {
		label := []rune(m.Label)
		if len(label) > cols {
			continue
		}
		start := column(m.X) - len(label)/2
		start = min(max(start, 0), cols-len(label))
		if start < next {
			continue
		}
		copy(row[start:], label)
		next = start + len(label) + 1
	}
	return row
}
