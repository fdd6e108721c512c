package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

func testModel() TimelineModel {
	layout := timeline.Layout([]timeline.Item{
		{ID: "1", Year: -19},
		{ID: "2", Year: 0},
		{ID: "3", Year: 5},
		{ID: "4", Year: 5},
	}, 1200)
	layout.Skipped = 2
	return NewTimelineModel(layout, nil)
}

func update(m TimelineModel, msgs ...tea.Msg) TimelineModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(TimelineModel)
	}
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func wheel(button tea.MouseButton, ctrl bool) tea.MouseMsg {
	return tea.MouseMsg{Button: button, Action: tea.MouseActionPress, Ctrl: ctrl}
}

func TestTimelineModelZoomKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		percent int
	}{
		{"plus zooms in", []string{"+"}, 130},
		{"equals zooms in", []string{"="}, 130},
		{"minus zooms out", []string{"-"}, 77},
		{"reset", []string{"+", "+", "0"}, 100},
		{"saturates at max", []string{"+", "+", "+", "+", "+", "+", "+", "+"}, 500},
		{"saturates at min", []string{"-", "-", "-", "-"}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel()
			for _, k := range tt.keys {
				m = update(m, key(k))
			}
			if got := m.Zoom.Percent(); got != tt.percent {
				t.Errorf("zoom = %d%%, want %d%%", got, tt.percent)
			}
		})
	}
}

func TestTimelineModelWheel(t *testing.T) {
	m := update(testModel(), tea.WindowSizeMsg{Width: 40, Height: 20})

	m = update(m, wheel(tea.MouseButtonWheelUp, true))
	if m.Zoom.Percent() != 130 {
		t.Errorf("ctrl+wheel up: zoom = %d%%, want 130%%", m.Zoom.Percent())
	}
	m = update(m, wheel(tea.MouseButtonWheelDown, true))
	if m.Zoom.Percent() != 100 {
		t.Errorf("ctrl+wheel down: zoom = %d%%, want 100%%", m.Zoom.Percent())
	}

	m.Offset = 0
	m = update(m, wheel(tea.MouseButtonWheelDown, false))
	if m.Zoom.Percent() != 100 {
		t.Errorf("plain wheel changed zoom to %d%%", m.Zoom.Percent())
	}
	if m.Offset != scrollStep {
		t.Errorf("plain wheel down: offset = %d, want %d", m.Offset, scrollStep)
	}
}

func TestTimelineModelScroll(t *testing.T) {
	m := update(testModel(), tea.WindowSizeMsg{Width: 30, Height: 20})

	m = update(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Offset != 0 {
		t.Errorf("scrolling left of 0: offset = %d", m.Offset)
	}
	m = update(m, key("l"), key("l"))
	if m.Offset != 2*scrollStep {
		t.Errorf("offset = %d, want %d", m.Offset, 2*scrollStep)
	}
	m = update(m, key("G"))
	if m.Offset != m.maxOffset() || m.Offset == 0 {
		t.Errorf("end: offset = %d, want max %d", m.Offset, m.maxOffset())
	}
	m = update(m, key("g"))
	if m.Offset != 0 {
		t.Errorf("home: offset = %d, want 0", m.Offset)
	}
}

func TestTimelineModelZoomKeepsCenter(t *testing.T) {
	m := update(testModel(), tea.WindowSizeMsg{Width: 40, Height: 20})
	m.Offset = 30
	center := float64(m.Offset+m.Width/2) / m.Zoom.Level()

	m = update(m, key("+"))
	got := float64(m.Offset+m.Width/2) / m.Zoom.Level()
	if diff := got - center; diff < -1 || diff > 1 {
		t.Errorf("center moved from %.1f to %.1f base columns", center, got)
	}
}

func TestTimelineModelView(t *testing.T) {
	m := update(testModel(), tea.WindowSizeMsg{Width: 200, Height: 20}, key("+"))
	view := m.View()

	for _, want := range []string{"4 books on 2 shelves", "130%", "2 books with unknown year not shown", "[o]", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Count(view, "unknown year") != 1 {
		t.Error("skipped notice should appear once, on the status line")
	}
}

func TestTimelineModelCatalogGlyphs(t *testing.T) {
	books := []catalog.Book{
		{ID: 1, Title: "Tarkin", Year: catalog.YearOf(-19), ReadingStatus: catalog.StatusRead},
		{ID: 2, Title: "Crimson Empire", Year: catalog.YearOf(11), Canon: catalog.Legends},
	}
	items, _ := catalog.Items(books)
	m := NewTimelineModel(timeline.Layout(items, 1200), catalog.NewIndex(books))
	m = update(m, tea.WindowSizeMsg{Width: 200, Height: 20})

	view := m.View()
	if !strings.Contains(view, "[#]") || !strings.Contains(view, "(.)") {
		t.Errorf("view should style read and legends books:\n%s", view)
	}
}

func TestTimelineModelQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := testModel().Update(k)
		if cmd == nil {
			t.Errorf("%q: expected quit command", k.String())
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q: command is not tea.Quit", k.String())
		}
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		line          string
		offset, width int
		want          string
	}{
		{"──┼──", 0, 3, "──┼"},
		{"──┼──", 2, 10, "┼──"},
		{"abc", 5, 2, ""},
	}
	for _, tt := range tests {
		if got := clip(tt.line, tt.offset, tt.width); got != tt.want {
			t.Errorf("clip(%q, %d, %d) = %q, want %q", tt.line, tt.offset, tt.width, got, tt.want)
		}
	}
}
