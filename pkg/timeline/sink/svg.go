package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

const (
	colorCanon   = "#3b82f6"
	colorLegends = "#f59e0b"
	colorPlain   = "#64748b"
	colorBar     = "#e2e8f0"
	colorMuted   = "#94a3b8"
	colorFace    = "#f1f5f9"
	fontFamily   = "system-ui, -apple-system, sans-serif"

	barThickness = 4.0
	labelOffset  = 20.0
	nodeRadius   = 4.0
)

const nodeCSS = `
    .node rect { transition: stroke-width 0.15s ease; }
    .node:hover rect { stroke-width: 3; }
    a { cursor: pointer; }`

// RenderSVG renders r as a standalone SVG document.
//
// The axis bar sits at the bottom of the node area and nodes grow upward from
// it, one shelf per stack index. Year labels hang below the bar and a dashed
// vertical line marks year 0 when it is in range.
func RenderSVG(r timeline.Result, opts ...Option) []byte {
	o := newOptions(opts)
	s := r.Scaled(o.zoom)

	bar := timeline.BarHeight(s.MaxStack())
	width, height := s.ContentWidth, s.Height()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", nodeCSS)

	fmt.Fprintf(&buf, `  <rect class="bar" x="0" y="%.1f" width="%.1f" height="%.1f" rx="2" fill="%s"/>`+"\n",
		bar-barThickness, width, barThickness, colorBar)

	if s.HasZero() {
		fmt.Fprintf(&buf, `  <line class="zero" x1="%.1f" y1="0" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2" stroke-dasharray="6 4"/>`+"\n",
			s.ZeroX, s.ZeroX, bar, colorMuted)
	}

	for _, n := range s.Nodes {
		renderNode(&buf, o, n, bar)
	}

	for _, m := range s.Marks {
		fmt.Fprintf(&buf, `  <text class="mark" x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="12" fill="%s">%s</text>`+"\n",
			m.X, bar+labelOffset, fontFamily, colorMuted, escapeXML(m.Label))
	}

	if s.Skipped > 0 {
		fmt.Fprintf(&buf, `  <text class="skipped" x="%.1f" y="%.1f" text-anchor="end" font-family="%s" font-size="11" fill="%s">%s</text>`+"\n",
			width-8, 14.0, fontFamily, colorMuted, escapeXML(SkippedMessage(s.Skipped)))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderNode(buf *bytes.Buffer, o options, n timeline.Node, bar float64) {
	x := n.X
	y := bar - timeline.Bottom(n.Stack) - timeline.NodeHeight
	book, known := o.book(n.Item.ID)
	st := nodeStyle(book, known)

	wrapLink(buf, o.link(n.Item.ID), func() {
		fmt.Fprintf(buf, `  <g class="node" id="node-%s">`, escapeXML(n.Item.ID))
		fmt.Fprintf(buf, `<title>%s</title>`, escapeXML(hoverText(o, n.Item, book, known)))

		if o.hover == HoverImage && known {
			r := timeline.NodeWidth / 2
			fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" opacity="%s"/>`,
				x+r, y+timeline.NodeHeight-r, r, st.stroke, st.opacity)
		} else {
			fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.0f" height="%.0f" rx="%.0f" fill="%s" stroke="%s" stroke-width="2" opacity="%s"%s/>`,
				x, y, timeline.NodeWidth, timeline.NodeHeight, nodeRadius, colorFace, st.stroke, st.opacity, st.dash)
			if known && book.CoverURL != "" {
				fmt.Fprintf(buf, `<image href="%s" x="%.1f" y="%.1f" width="%.0f" height="%.0f" preserveAspectRatio="xMidYMid slice" opacity="%s"/>`,
					escapeXML(book.CoverURL), x+2, y+2, timeline.NodeWidth-4, timeline.NodeHeight-4, st.opacity)
			}
		}
		buf.WriteString("</g>")
	})
	buf.WriteString("\n")
}

type style struct {
	stroke  string
	opacity string
	dash    string
}

func nodeStyle(b catalog.Book, known bool) style {
	if !known {
		return style{stroke: colorPlain, opacity: "1"}
	}
	st := style{stroke: colorCanon, opacity: "1"}
	if b.IsLegends() {
		st.stroke = colorLegends
	}
	switch b.ReadingStatus {
	case catalog.StatusRead:
	case catalog.StatusReading:
		st.dash = ` stroke-dasharray="4 3"`
	default:
		st.opacity = "0.5"
	}
	return st
}

func hoverText(o options, it timeline.Item, b catalog.Book, known bool) string {
	title := it.Label
	if known && b.Title != "" {
		title = b.Title
	}
	if title == "" {
		title = it.ID
	}
	switch o.hover {
	case HoverTitleAuthor:
		if known && b.Author != "" {
			return title + "\n" + b.Author
		}
		return title
	case HoverImage:
		return title
	default:
		return title + "\n" + o.epoch.Format(it.Year)
	}
}

func wrapLink(buf *bytes.Buffer, href string, fn func()) {
	if href != "" {
		fmt.Fprintf(buf, `  <a href="%s">`, escapeXML(href))
	}
	fn()
	if href != "" {
		buf.WriteString("</a>")
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
