package timeline

import (
	"cmp"
	"slices"
)

// Layout constants in base units.
const (
	NodeWidth       = 40.0  // horizontal footprint of a node
	NodeGap         = 8.0   // minimum clearance between nodes on one shelf
	Padding         = 60.0  // left and right margin of the content area
	MinContentWidth = 800.0 // lower bound on the content width
)

// Render geometry shared by all sinks.
const (
	NodeHeight  = 56.0 // vertical size of a node
	StackHeight = 64.0 // distance between two shelves (node height plus gap)
	BaseOffset  = 8.0  // distance between the axis bar and the bottom shelf
	AxisHeight  = 32.0 // strip below the bar that holds year labels
	barPadding  = 16.0
)

// Option configures [Layout].
type Option func(*config)

type config struct {
	epoch Epoch
}

// WithEpoch sets the suffixes used to label year marks. The default is
// [DefaultEpoch].
func WithEpoch(e Epoch) Option {
	return func(c *config) { c.epoch = e }
}

// Layout positions items along the year axis of a container that is
// containerWidth base units wide.
//
// Layout never fails and never mutates items. A negative width is treated as
// zero. With no items the result is empty, ContentWidth equals the container
// width and ZeroX is [NoZero].
func Layout(items []Item, containerWidth float64, opts ...Option) Result {
	cfg := config{epoch: DefaultEpoch}
	for _, opt := range opts {
		opt(&cfg)
	}
	containerWidth = max(containerWidth, 0)

	if len(items) == 0 {
		return Result{
			Nodes:        []Node{},
			Marks:        []YearMark{},
			ZeroX:        NoZero,
			ContentWidth: containerWidth,
		}
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(a.Year, b.Year)
	})

	s := newScale(sorted[0].Year, sorted[len(sorted)-1].Year, len(sorted), containerWidth)

	res := Result{
		Nodes:        stack(sorted, s),
		Marks:        yearMarks(s, cfg.epoch),
		ZeroX:        NoZero,
		ContentWidth: s.contentWidth,
	}
	if s.covers(0) {
		res.ZeroX = s.x(0)
	}
	return res
}

// scale maps years onto base-unit x coordinates.
type scale struct {
	minYear, maxYear int
	contentWidth     float64
	usableWidth      float64
}

func newScale(minYear, maxYear, count int, containerWidth float64) scale {
	needed := float64(count)*(NodeWidth+NodeGap) + 2*Padding
	width := max(containerWidth, needed, MinContentWidth)
	return scale{
		minYear:      minYear,
		maxYear:      maxYear,
		contentWidth: width,
		usableWidth:  width - 2*Padding,
	}
}

// span is maxYear-minYear. It is computed in unsigned arithmetic so that the
// full int range does not overflow.
func (s scale) span() uint64 { return uint64(s.maxYear) - uint64(s.minYear) }

func (s scale) covers(year int) bool { return s.minYear <= year && year <= s.maxYear }

// x is the single year-to-position mapping used for nodes, marks and the zero
// marker alike.
func (s scale) x(year int) float64 {
	if s.minYear == s.maxYear {
		return s.contentWidth / 2
	}
	offset := uint64(year) - uint64(s.minYear)
	return Padding + float64(offset)/float64(s.span())*s.usableWidth
}

// stack assigns shelves with greedy first-fit. items must be sorted by year.
func stack(items []Item, s scale) []Node {
	nodes := make([]Node, 0, len(items))
	var shelves []float64 // rightmost occupied edge per shelf

	for _, it := range items {
		x := s.x(it.Year)
		edge := x + NodeWidth + NodeGap

		idx := slices.IndexFunc(shelves, func(right float64) bool { return right <= x })
		if idx < 0 {
			shelves = append(shelves, edge)
			idx = len(shelves) - 1
		} else {
			shelves[idx] = edge
		}
		nodes = append(nodes, Node{Item: it, X: x, Stack: idx})
	}
	return nodes
}
