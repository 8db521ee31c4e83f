package svg

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/butterfly/pkg/butterfly"
	"github.com/matzehuels/butterfly/pkg/layout"
)

const interactionCSS = `
    .link { fill: none; stroke: #ccc; stroke-width: 2px; vector-effect: non-scaling-stroke; transition: stroke 0.3s ease; }
    .node { fill: #fff; stroke: steelblue; stroke-width: 1px; vector-effect: non-scaling-stroke; transition: fill 0.3s ease; }
    .label { fill: #ccc; transition: fill 0.3s ease; }
    .heading { fill: #000; }
    .label, .heading { font-family: Arial, Helvetica, sans-serif; font-weight: bold; text-anchor: middle; dominant-baseline: middle; }
    [data-group] { cursor: pointer; }
    .link.highlight { stroke: steelblue; }
    .node.highlight { fill: steelblue; }
    .label.highlight { fill: steelblue; }`

const interactionJS = `
    const groups = %s;
    function setHighlight(id, on) {
      (groups[id] || []).forEach(eid => {
        const el = document.getElementById(eid);
        if (el) el.classList.toggle('highlight', on);
      });
    }
    document.querySelectorAll('[data-group]').forEach(el => {
      el.addEventListener('mouseenter', () => setHighlight(el.dataset.group, true));
      el.addEventListener('mouseleave', () => setHighlight(el.dataset.group, false));
    });`

// Relative sizes, as fractions of the smaller frame side.
const (
	radiusRatio   = 0.02
	fontRatio     = 0.025
	labelDyRatio  = 0.05
	headingOffset = 0.05
)

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	labels    bool
	headings  bool
	highlight bool
	radius    float64
}

// WithLabels toggles node labels.
func WithLabels(on bool) Option { return func(r *renderer) { r.labels = on } }

// WithHeadings toggles the per-stage "N=2^s" headings.
func WithHeadings(on bool) Option { return func(r *renderer) { r.headings = on } }

// WithHighlight toggles the embedded hover highlighting.
func WithHighlight(on bool) Option { return func(r *renderer) { r.highlight = on } }

// WithRadius sets the node radius in frame units. Non-positive values keep
// the proportional default.
func WithRadius(radius float64) Option {
	return func(r *renderer) {
		if radius > 0 {
			r.radius = radius
		}
	}
}

// Render draws g using the positions in l. Labels, headings and
// highlighting are on by default.
func Render(g *butterfly.Graph, l layout.Layout, opts ...Option) []byte {
	r := renderer{labels: true, headings: true, highlight: true}
	for _, opt := range opts {
		opt(&r)
	}
	unit := min(l.FrameWidth, l.FrameHeight)
	if r.radius == 0 {
		r.radius = radiusRatio * unit
	}

	nodes := g.Nodes()
	totalW, totalH := l.FrameWidth+2*l.Margin, l.FrameHeight+2*l.Margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" width="%s" height="%s">`+"\n",
		l.ViewBox(), num(totalW), num(totalH))
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)

	renderLinks(&buf, nodes, l)
	renderNodes(&buf, nodes, l, r.radius)
	if r.labels {
		renderLabels(&buf, nodes, l, unit)
	}
	if r.headings {
		renderHeadings(&buf, l, unit)
	}
	if r.highlight {
		groups, _ := json.Marshal(HighlightGroups(g, r.labels))
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n",
			fmt.Sprintf(interactionJS, groups))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLinks(buf *bytes.Buffer, nodes []butterfly.Node, l layout.Layout) {
	buf.WriteString("  <g id=\"links\">\n")
	for _, n := range nodes {
		dst := l.Points[n.ID]
		for i, p := range n.Parents {
			src := l.Points[p]
			fmt.Fprintf(buf, `    <path id="%s" class="link %s %s" data-group="%d" d="%s"/>`+"\n",
				EdgeElementID(p, n.ID), GroupClass(n.ID), butterfly.Parity(i), n.ID, layout.SmoothPath(src, dst))
		}
	}
	buf.WriteString("  </g>\n")
}

func renderNodes(buf *bytes.Buffer, nodes []butterfly.Node, l layout.Layout, radius float64) {
	buf.WriteString("  <g id=\"nodes\">\n")
	for _, n := range nodes {
		p := l.Points[n.ID]
		fmt.Fprintf(buf, `    <circle id="%s" class="node %s" data-group="%d" cx="%s" cy="%s" r="%s"/>`+"\n",
			NodeElementID(n.ID), GroupClass(n.ID), n.ID, num(p.X), num(p.Y), num(radius))
	}
	buf.WriteString("  </g>\n")
}

func renderLabels(buf *bytes.Buffer, nodes []butterfly.Node, l layout.Layout, unit float64) {
	fmt.Fprintf(buf, "  <g id=\"labels\" font-size=\"%s\">\n", num(fontRatio*unit))
	dy := num(labelDyRatio * unit)
	for _, n := range nodes {
		p := l.Points[n.ID]
		fmt.Fprintf(buf, `    <text id="%s" class="label %s" data-group="%d" x="%s" y="%s" dy="%s">%s</text>`+"\n",
			LabelElementID(n.ID), GroupClass(n.ID), n.ID, num(p.X), num(p.Y), dy, escapeXML(n.Label))
	}
	buf.WriteString("  </g>\n")
}

func renderHeadings(buf *bytes.Buffer, l layout.Layout, unit float64) {
	fmt.Fprintf(buf, "  <g id=\"headings\" font-size=\"%s\">\n", num(fontRatio*unit))
	y := num(-headingOffset * unit)
	for _, h := range l.Headings {
		fmt.Fprintf(buf, `    <text class="heading" x="%s" y="%s">%s</text>`+"\n",
			num(h.X), y, escapeXML(h.Text))
	}
	buf.WriteString("  </g>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
