package sink

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

// scenario is the four-book layout: years -19, 0, 5, 5 at width 1200.
func scenario() timeline.Result {
	return timeline.Layout([]timeline.Item{
		{ID: "1", Year: -19, Label: "Dark Lord"},
		{ID: "2", Year: 0, Label: "Catalyst"},
		{ID: "3", Year: 5, Label: "Heir to the Empire"},
		{ID: "4", Year: 5, Label: "Dark Force Rising"},
	}, 1200)
}

func scenarioIndex() catalog.Index {
	return catalog.NewIndex([]catalog.Book{
		{ID: 1, Title: "Dark Lord", Year: catalog.YearOf(-19), Canon: catalog.Canon, ReadingStatus: catalog.StatusRead, Author: "James Luceno"},
		{ID: 2, Title: "Catalyst", Year: catalog.YearOf(0), Canon: catalog.Canon, ReadingStatus: catalog.StatusReading},
		{ID: 3, Title: "Heir to the Empire", Year: catalog.YearOf(5), Canon: catalog.Legends, ReadingStatus: catalog.StatusUnread, CoverURL: "https://img.example.com/heir.jpg"},
		{ID: 4, Title: "Dark Force Rising", Year: catalog.YearOf(5), Canon: catalog.Legends},
	})
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(scenario()))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an SVG document:\n%s", svg)
	}
	// bar = (1+1)*64+16 = 144, height = 144+32
	if !strings.Contains(svg, `viewBox="0 0 1200.0 176.0"`) {
		t.Error("viewBox should cover content width and full height")
	}
	if got := strings.Count(svg, `class="node"`); got != 4 {
		t.Errorf("node count = %d, want 4", got)
	}
	// node 1 bottom shelf: y = 144 - 8 - 56 = 80; node 4 second shelf: y = 144 - 72 - 56 = 16
	if !strings.Contains(svg, `<rect x="60.0" y="80.0"`) {
		t.Error("node 1 should sit on the bottom shelf at x=60")
	}
	if !strings.Contains(svg, `<rect x="1140.0" y="16.0"`) {
		t.Error("node 4 should sit on the second shelf at x=1140")
	}
	if !strings.Contains(svg, `<line class="zero" x1="915.0"`) {
		t.Error("zero line should be drawn at x=915")
	}
	if !strings.Contains(svg, ">0 BEFORE/AFTER</text>") {
		t.Error("year 0 label missing")
	}
	if strings.Contains(svg, "<a href") {
		t.Error("links need a catalog")
	}
}

func TestRenderSVGZoom(t *testing.T) {
	svg := string(RenderSVG(scenario(), WithZoom(2)))
	if !strings.Contains(svg, `width="2400"`) {
		t.Error("zoom should scale content width")
	}
	if !strings.Contains(svg, `<rect x="120.0" y="80.0"`) {
		t.Error("zoom should scale x but keep shelves")
	}

	clamped := string(RenderSVG(scenario(), WithZoom(50)))
	if !strings.Contains(clamped, `width="6000"`) {
		t.Error("zoom should be clamped to 5")
	}
}

func TestRenderSVGCatalog(t *testing.T) {
	svg := string(RenderSVG(scenario(),
		WithCatalog(scenarioIndex()),
		WithLinkPrefix("https://shelf.example.com"),
		WithEpoch(timeline.GalacticEpoch),
	))

	checks := []struct {
		name string
		want string
	}{
		{"link", `<a href="https://shelf.example.com/books/3">`},
		{"canon color", `stroke="` + colorCanon + `"`},
		{"legends color", `stroke="` + colorLegends + `"`},
		{"reading dashed", `stroke-dasharray="4 3"`},
		{"unread faded", `opacity="0.5"`},
		{"cover", `<image href="https://img.example.com/heir.jpg"`},
		{"hover year", "Dark Lord&#xA;19 BBY"},
	}
	for _, c := range checks {
		if !strings.Contains(svg, c.want) {
			t.Errorf("%s: missing %q", c.name, c.want)
		}
	}
}

func TestRenderSVGHoverModes(t *testing.T) {
	idx := scenarioIndex()

	svg := string(RenderSVG(scenario(), WithCatalog(idx), WithHover(HoverTitleAuthor)))
	if !strings.Contains(svg, "Dark Lord&#xA;James Luceno") {
		t.Error("title_author should show the author")
	}

	svg = string(RenderSVG(scenario(), WithCatalog(idx), WithHover(HoverImage)))
	if got := strings.Count(svg, "<circle"); got != 4 {
		t.Errorf("image_hover should draw dots, got %d", got)
	}
	if strings.Contains(svg, "<image") {
		t.Error("image_hover should not draw covers in nodes")
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	r := timeline.Layout([]timeline.Item{{ID: "x", Year: 1, Label: `<Rise & "Fall">`}}, 800)
	svg := string(RenderSVG(r))
	if strings.Contains(svg, "<Rise") {
		t.Error("labels must be escaped")
	}
	if !strings.Contains(svg, "&lt;Rise &amp; &#34;Fall&#34;&gt;") {
		t.Errorf("escaped label missing:\n%s", svg)
	}
}

func TestRenderSVGNoZeroAndSkipped(t *testing.T) {
	r := timeline.Layout([]timeline.Item{{ID: "a", Year: 10}, {ID: "b", Year: 20}}, 800)
	r.Skipped = 3
	svg := string(RenderSVG(r))
	if strings.Contains(svg, `class="zero"`) {
		t.Error("no zero line when year 0 is out of range")
	}
	if !strings.Contains(svg, "3 books with unknown year not shown") {
		t.Error("skipped notice missing")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(timeline.Layout(nil, 900)))
	if !strings.Contains(svg, `width="900"`) || strings.Contains(svg, `class="node"`) {
		t.Errorf("empty layout should render an empty bar:\n%s", svg)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(scenario(), WithZoom(1.3), WithCatalog(scenarioIndex()))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if out.Zoom != 1.3 || out.Width != 1200*1.3 || out.Height != 176 {
		t.Errorf("frame = %v x %v at %v", out.Width, out.Height, out.Zoom)
	}
	if out.ZeroX == nil || math.Abs(*out.ZeroX-915*1.3) > 1e-6 {
		t.Errorf("ZeroX = %v", out.ZeroX)
	}
	if len(out.Nodes) != 4 || len(out.Marks) == 0 {
		t.Fatalf("nodes = %d, marks = %d", len(out.Nodes), len(out.Marks))
	}
	n4 := out.Nodes[3]
	if n4.Stack != 1 || n4.Y != 16 || n4.Canon != catalog.Legends || n4.URL != "/books/4" {
		t.Errorf("node 4 = %+v", n4)
	}
}

func TestRenderJSONOmitsZero(t *testing.T) {
	data, err := RenderJSON(timeline.Layout([]timeline.Item{{ID: "a", Year: 3}}, 800))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "zero_x") {
		t.Errorf("zero_x should be omitted:\n%s", data)
	}
}

func TestTextLines(t *testing.T) {
	lines := TextLines(scenario())
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 2 shelves + axis + labels:\n%s", len(lines), strings.Join(lines, "\n"))
	}

	top, bottom, axis := []rune(lines[0]), []rune(lines[1]), []rune(lines[2])
	if string(top[95:98]) != "[o]" {
		t.Errorf("top shelf should hold node 4 at column 95: %q", lines[0])
	}
	if top[76] != glyphZeroBar {
		t.Errorf("zero bar missing on top shelf: %q", lines[0])
	}
	if string(bottom[5:8]) != "[o]" || string(bottom[76:79]) != "[o]" {
		t.Errorf("bottom shelf = %q", lines[1])
	}
	if len(axis) != 100 || axis[76] != glyphZero {
		t.Errorf("axis = %q", lines[2])
	}
	if !strings.Contains(lines[3], "0 BEFORE/AFTER") || !strings.Contains(lines[3], "15 BEFORE") {
		t.Errorf("labels = %q", lines[3])
	}
}

func TestTextCatalogGlyphs(t *testing.T) {
	r := scenario()
	r.Skipped = 1
	lines := TextLines(r, WithCatalog(scenarioIndex()))

	bottom := []rune(lines[1])
	if string(bottom[5:8]) != "[#]" {
		t.Errorf("read canon book = %q", string(bottom[5:8]))
	}
	if string(bottom[76:79]) != "[~]" {
		t.Errorf("reading book = %q", string(bottom[76:79]))
	}
	if string(bottom[95:98]) != "(.)" {
		t.Errorf("unread legends book = %q", string(bottom[95:98]))
	}
	if lines[len(lines)-1] != "1 book with unknown year not shown" {
		t.Errorf("notice = %q", lines[len(lines)-1])
	}
}

func TestLabelRowDropsCrowdedLabels(t *testing.T) {
	marks := []timeline.YearMark{
		{Year: 1, X: 12, Label: "1 AFTER"},
		{Year: 2, X: 24, Label: "2 AFTER"},
		{Year: 3, X: 240, Label: "3 AFTER"},
	}
	row := string(labelRow(marks, 30))
	if strings.Contains(row, "2 AFTER") {
		t.Errorf("overlapping label should be dropped: %q", row)
	}
	if !strings.Contains(row, "1 AFTER") || !strings.Contains(row, "3 AFTER") {
		t.Errorf("row = %q", row)
	}
}

func TestRenderDispatch(t *testing.T) {
	ctx := context.Background()
	for _, f := range []string{FormatSVG, FormatJSON, FormatText} {
		data, err := Render(ctx, f, scenario())
		if err != nil || len(data) == 0 {
			t.Errorf("Render(%s) = %d bytes, %v", f, len(data), err)
		}
	}
	if _, err := Render(ctx, "gif", scenario()); !cerrors.Is(err, cerrors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v", err)
	}
}

func TestContentType(t *testing.T) {
	for f := range ValidFormats {
		if ContentType(f) == "application/octet-stream" {
			t.Errorf("format %s has no content type", f)
		}
	}
}
