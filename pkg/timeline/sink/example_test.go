package sink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/chronoshelf/pkg/timeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline/sink"
)

func ExampleRenderSVG() {
	r := timeline.Layout([]timeline.Item{
		{ID: "1", Year: -3, Label: "Tarkin"},
		{ID: "2", Year: 4, Label: "Bloodline"},
	}, 800)

	svg := string(sink.RenderSVG(r, sink.WithZoom(1.3)))

	fmt.Println("SVG starts with:", svg[:4])
	fmt.Println("Width:", strings.Contains(svg, `width="1040"`))
	fmt.Println("Zero line:", strings.Contains(svg, `class="zero"`))
	// Output:
	// SVG starts with: <svg
	// Width: true
	// Zero line: true
}

func ExampleRenderText() {
	r := timeline.Layout([]timeline.Item{
		{ID: "1", Year: 1},
		{ID: "2", Year: 1},
	}, 240)
	r.Skipped = 2

	for _, line := range sink.TextLines(r) {
		fmt.Println(strings.TrimSpace(line))
	}
	// Output:
	// [o]
	// [o]
	// ───────────────────────────────────────────────────────────────────
	// 1 AFTER
	// 2 books with unknown year not shown
}
