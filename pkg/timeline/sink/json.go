package sink

import (
	"encoding/json"

	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

type jsonOutput struct {
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	Zoom    float64    `json:"zoom"`
	ZeroX   *float64   `json:"zero_x,omitempty"`
	Nodes   []jsonNode `json:"nodes"`
	Marks   []jsonMark `json:"marks"`
	Skipped int        `json:"skipped"`
	Message string     `json:"message,omitempty"`
}

type jsonNode struct {
	ID            string  `json:"id"`
	Year          int     `json:"year"`
	Label         string  `json:"label,omitempty"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Stack         int     `json:"stack"`
	Author        string  `json:"author,omitempty"`
	Canon         string  `json:"canon,omitempty"`
	ReadingStatus string  `json:"reading_status,omitempty"`
	CoverURL      string  `json:"cover_url,omitempty"`
	URL           string  `json:"url,omitempty"`
}

type jsonMark struct {
	Year  int     `json:"year"`
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

// RenderJSON renders r as an indented JSON document in zoomed coordinates.
// Node Y is the top edge measured from the top of the drawing, matching the
// SVG output. zero_x is omitted when year 0 is out of range.
func RenderJSON(r timeline.Result, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	s := r.Scaled(o.zoom)
	bar := timeline.BarHeight(s.MaxStack())

	out := jsonOutput{
		Width:   s.ContentWidth,
		Height:  s.Height(),
		Zoom:    o.zoom,
		Nodes:   make([]jsonNode, 0, len(s.Nodes)),
		Marks:   make([]jsonMark, 0, len(s.Marks)),
		Skipped: s.Skipped,
	}
	if s.HasZero() {
		z := s.ZeroX
		out.ZeroX = &z
	}
	if s.Skipped > 0 {
		out.Message = SkippedMessage(s.Skipped)
	}

	for _, n := range s.Nodes {
		jn := jsonNode{
			ID:     n.Item.ID,
			Year:   n.Item.Year,
			Label:  n.Item.Label,
			X:      n.X,
			Y:      bar - timeline.Bottom(n.Stack) - timeline.NodeHeight,
			Width:  timeline.NodeWidth,
			Height: timeline.NodeHeight,
			Stack:  n.Stack,
			URL:    o.link(n.Item.ID),
		}
		if b, ok := o.book(n.Item.ID); ok {
			jn.Author = b.Author
			jn.Canon = b.Canon
			jn.ReadingStatus = b.ReadingStatus
			jn.CoverURL = b.CoverURL
		}
		out.Nodes = append(out.Nodes, jn)
	}
	for _, m := range s.Marks {
		out.Marks = append(out.Marks, jsonMark{Year: m.Year, X: m.X, Label: m.Label})
	}

	return json.MarshalIndent(out, "", "  ")
}
