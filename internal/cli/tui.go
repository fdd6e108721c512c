package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline/sink"
	"github.com/matzehuels/chronoshelf/pkg/timeline/zoom"
)

// Timeline view styles
var (
	viewShelfStyle = lipgloss.NewStyle().Foreground(colorWhite)
	viewAxisStyle  = lipgloss.NewStyle().Foreground(colorDim)
	viewLabelStyle = lipgloss.NewStyle().Foreground(colorCyan)
	viewHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	defaultViewWidth = 80
	scrollStep       = 8 // columns per arrow key or wheel notch
)

// =============================================================================
// TimelineModel - Interactive timeline browser
// =============================================================================

// TimelineModel is the bubbletea model behind `chronoshelf view`. It owns the
// zoom controller for its single view; the layout is computed once in base
// units and only re-rendered as text when the zoom changes.
type TimelineModel struct {
	Layout timeline.Result
	Index  catalog.Index
	Zoom   *zoom.Controller

	Offset int // first visible column
	Width  int
	Height int

	lines []string
}

// NewTimelineModel creates a view of layout at zoom 1.0. idx may be nil.
func NewTimelineModel(layout timeline.Result, idx catalog.Index) TimelineModel {
	m := TimelineModel{
		Layout: layout,
		Index:  idx,
		Zoom:   zoom.New(),
		Width:  defaultViewWidth,
	}
	m.render()
	return m
}

func (m TimelineModel) Init() tea.Cmd {
	return nil
}

func (m TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.zoomBy(m.Zoom.In)
		case "-":
			m.zoomBy(m.Zoom.Out)
		case "0":
			m.zoomBy(m.Zoom.Reset)
		case "left", "h":
			m.scroll(-scrollStep)
		case "right", "l":
			m.scroll(scrollStep)
		case "home", "g":
			m.Offset = 0
		case "end", "G":
			m.Offset = m.maxOffset()
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.Width = max(msg.Width, 1)
		m.Height = msg.Height
		m.scroll(0)
	}
	return m, nil
}

// handleMouse forwards wheel events to the zoom controller. An event the
// controller does not consume (no ctrl held) scrolls the timeline instead.
func (m *TimelineModel) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	var delta float64
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		delta = -1
	case tea.MouseButtonWheelDown:
		delta = 1
	case tea.MouseButtonWheelLeft:
		m.scroll(-scrollStep)
		return
	case tea.MouseButtonWheelRight:
		m.scroll(scrollStep)
		return
	default:
		return
	}

	ev := zoom.WheelEvent{DeltaY: delta, Modifier: msg.Ctrl}
	consumed := false
	m.zoomBy(func() { consumed = m.Zoom.Wheel(ev) })
	if !consumed {
		m.scroll(int(delta) * scrollStep)
	}
}

// zoomBy applies a zoom change while keeping the column at the center of the
// screen pointing at the same year.
func (m *TimelineModel) zoomBy(change func()) {
	before := m.Zoom.Level()
	center := float64(m.Offset+m.Width/2) * sink.CellWidth / before

	change()
	if m.Zoom.Level() == before {
		return
	}
	m.render()
	m.Offset = int(center*m.Zoom.Level()/sink.CellWidth) - m.Width/2
	m.scroll(0)
}

func (m *TimelineModel) scroll(cols int) {
	m.Offset = min(max(m.Offset+cols, 0), m.maxOffset())
}

func (m *TimelineModel) maxOffset() int {
	widest := 0
	for _, l := range m.lines {
		widest = max(widest, len([]rune(l)))
	}
	return max(widest-m.Width, 0)
}

// render rebuilds the text grid at the current zoom. The skipped notice is
// shown on the status line, not in the grid.
func (m *TimelineModel) render() {
	grid := m.Layout
	grid.Skipped = 0
	opts := []sink.Option{sink.WithZoom(m.Zoom.Level())}
	if m.Index != nil {
		opts = append(opts, sink.WithCatalog(m.Index))
	}
	m.lines = sink.TextLines(grid, opts...)
}

func (m TimelineModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("%d books on %d shelves", len(m.Layout.Nodes), m.Layout.Shelves())
	b.WriteString(StyleTitle.Render(appName) + " " + StyleDim.Render(title))
	b.WriteString("\n\n")

	shelves := len(m.lines) - 2
	for i, line := range m.lines {
		visible := clip(line, m.Offset, m.Width)
		switch {
		case i < shelves:
			b.WriteString(viewShelfStyle.Render(visible))
		case i == shelves:
			b.WriteString(viewAxisStyle.Render(visible))
		default:
			b.WriteString(viewLabelStyle.Render(visible))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(viewHelpStyle.Render("+/- zoom  0 reset  ←/→ scroll  ctrl+wheel zoom  q quit"))

	return b.String()
}

// statusLine shows the zoom percentage, the visible column range and, when
// books were left out, the skipped notice.
func (m TimelineModel) statusLine() string {
	parts := []string{
		StyleNumber.Render(fmt.Sprintf("%d%%", m.Zoom.Percent())),
		StyleDim.Render(fmt.Sprintf("cols %d-%d", m.Offset, m.Offset+m.Width)),
	}
	if m.Layout.Skipped > 0 {
		parts = append(parts, StyleWarning.Render(sink.SkippedMessage(m.Layout.Skipped)))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// clip returns the width columns of line starting at offset.
func clip(line string, offset, width int) string {
	r := []rune(line)
	if offset >= len(r) {
		return ""
	}
	return string(r[offset:min(offset+width, len(r))])
}
