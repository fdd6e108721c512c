package timeline

import (
	"cmp"
	"math"
	"slices"
)

// MaxMarks bounds the number of grid marks on one axis. Spans that would
// exceed it at the regular 50-year interval get a coarser multiple of 50.
const MaxMarks = 1000

// TickInterval returns the spacing between labelled axis marks for a span of
// yearRange years. Wider spans get coarser ticks so labels do not crowd.
func TickInterval(yearRange int) int {
	switch {
	case yearRange <= 20:
		return 1
	case yearRange <= 100:
		return 5
	case yearRange <= 500:
		return 25
	default:
		return 50
	}
}

// markInterval is TickInterval widened so that span yields at most MaxMarks
// grid marks.
func markInterval(span uint64) int {
	interval := TickInterval(int(min(span, math.MaxInt)))
	if n := span / uint64(interval); n >= MaxMarks {
		interval *= int(n/MaxMarks + 1)
	}
	return interval
}

func yearMarks(s scale, e Epoch) []YearMark {
	interval := markInterval(s.span())

	var count uint64
	first, okFirst := ceilMultiple(s.minYear, interval)
	last, okLast := floorMultiple(s.maxYear, interval)
	if okFirst && okLast && first <= last {
		count = (uint64(last)-uint64(first))/uint64(interval) + 1
	}

	// Step by index in unsigned arithmetic: y never leaves [first, last], so
	// nothing wraps near the ends of the int range.
	marks := make([]YearMark, 0, count+1)
	for i := uint64(0); i < count; i++ {
		y := int(uint64(first) + i*uint64(interval))
		marks = append(marks, YearMark{Year: y, X: s.x(y), Label: e.Format(y)})
	}

	// Year 0 is the epoch boundary and is shown whenever it is in range,
	// whether or not it sits on the tick grid.
	if s.covers(0) && !slices.ContainsFunc(marks, func(m YearMark) bool { return m.Year == 0 }) {
		marks = append(marks, YearMark{Year: 0, X: s.x(0), Label: e.Format(0)})
		slices.SortFunc(marks, func(a, b YearMark) int { return cmp.Compare(a.Year, b.Year) })
	}
	return marks
}

// mod returns a mod b in [0, b). b must be positive.
func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// floorMultiple returns the largest multiple of b that is <= a. ok is false
// when that multiple is below math.MinInt.
func floorMultiple(a, b int) (int, bool) {
	r := mod(a, b)
	if r > 0 && a < math.MinInt+r {
		return 0, false
	}
	return a - r, true
}

// ceilMultiple returns the smallest multiple of b that is >= a. ok is false
// when that multiple is above math.MaxInt.
func ceilMultiple(a, b int) (int, bool) {
	r := mod(a, b)
	if r == 0 {
		return a, true
	}
	if a > math.MaxInt-(b-r) {
		return 0, false
	}
	return a + (b - r), true
}
