package timeline

// NoZero is the ZeroX value used when year 0 lies outside the observed range.
const NoZero = -1.0

// Item is a single entry eligible for placement on the timeline.
// Items without a known year must be filtered out by the caller.
type Item struct {
	ID    string `json:"id" bson:"id"`
	Year  int    `json:"year" bson:"year"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
}

// Node is an item positioned by [Layout].
// X is in base units; Stack is the shelf index, 0 being the bottom shelf.
type Node struct {
	Item  Item    `json:"item" bson:"item"`
	X     float64 `json:"x" bson:"x"`
	Stack int     `json:"stack" bson:"stack"`
}

// YearMark is a labelled tick on the year axis.
type YearMark struct {
	Year  int     `json:"year" bson:"year"`
	X     float64 `json:"x" bson:"x"`
	Label string  `json:"label" bson:"label"`
}

// Result is the output of [Layout].
//
// Nodes and Marks are both ordered by ascending year. ZeroX is [NoZero] when
// year 0 is not covered by the items. Skipped is never set by Layout itself;
// callers that filter out items without a year record the count here so
// renderers can report it.
type Result struct {
	Nodes        []Node     `json:"nodes" bson:"nodes"`
	Marks        []YearMark `json:"marks" bson:"marks"`
	ZeroX        float64    `json:"zero_x" bson:"zero_x"`
	ContentWidth float64    `json:"content_width" bson:"content_width"`
	Skipped      int        `json:"skipped,omitempty" bson:"skipped,omitempty"`
}

// HasZero reports whether the year-zero marker applies to this result.
func (r Result) HasZero() bool { return r.ZeroX >= 0 }

// MaxStack returns the highest shelf index in use, or 0 for an empty result.
func (r Result) MaxStack() int {
	top := 0
	for _, n := range r.Nodes {
		top = max(top, n.Stack)
	}
	return top
}

// Shelves returns the number of shelves the layout occupies.
func (r Result) Shelves() int {
	if len(r.Nodes) == 0 {
		return 0
	}
	return r.MaxStack() + 1
}

// Scaled returns a copy of r with every horizontal coordinate multiplied by
// zoom. Stack indices are left untouched, so the stacking decision made in
// base units is preserved at every zoom level.
func (r Result) Scaled(zoom float64) Result {
	out := Result{
		Nodes:        make([]Node, len(r.Nodes)),
		Marks:        make([]YearMark, len(r.Marks)),
		ZeroX:        r.ZeroX,
		ContentWidth: r.ContentWidth * zoom,
		Skipped:      r.Skipped,
	}
	for i, n := range r.Nodes {
		n.X *= zoom
		out.Nodes[i] = n
	}
	for i, m := range r.Marks {
		m.X *= zoom
		out.Marks[i] = m
	}
	if r.HasZero() {
		out.ZeroX = r.ZeroX * zoom
	}
	return out
}

// BarHeight returns the height of the node area for a layout whose highest
// shelf is maxStack.
func BarHeight(maxStack int) float64 {
	return float64(maxStack+1)*StackHeight + barPadding
}

// Height returns the total drawing height of r: the node area plus the axis
// label strip.
func (r Result) Height() float64 {
	return BarHeight(r.MaxStack()) + AxisHeight
}

// Bottom returns the distance from the axis bar to the bottom edge of a node
// on the given shelf.
func Bottom(stack int) float64 {
	return BaseOffset + float64(stack)*StackHeight
}
