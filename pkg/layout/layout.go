package layout

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/butterfly/pkg/butterfly"
)

const (
	// DefaultWidth is the default frame width in user units.
	DefaultWidth = 100.0
	// DefaultHeight is the default frame height in user units.
	DefaultHeight = 100.0
	// DefaultMarginRatio sizes the margin relative to the smaller frame side.
	DefaultMarginRatio = 0.1
)

// Position returns the normalized drawing position of a node.
//
// x is stage/totalStages and y is index/(nodesPerStage-1). totalStages is the
// number of butterfly passes (logN), so the output stage lands on x=1. Each
// coordinate is 0 when its denominator is 0.
func Position(n butterfly.Node, totalStages, nodesPerStage int) (x, y float64) {
	if totalStages > 0 {
		x = float64(n.Stage) / float64(totalStages)
	}
	if nodesPerStage > 1 {
		y = float64(n.Index) / float64(nodesPerStage-1)
	}
	return x, y
}

// Point is a position in frame units.
type Point struct {
	X, Y float64
}

// Heading is the column title drawn above one stage.
type Heading struct {
	Stage int
	X     float64
	Text  string
}

// Layout holds frame positions for every node of a graph.
// Points is indexed by node id.
type Layout struct {
	FrameWidth  float64
	FrameHeight float64
	Margin      float64
	Points      []Point
	Headings    []Heading
}

// Point returns the position of the node with the given id.
func (l Layout) Point(id int) (Point, bool) {
	if id < 0 || id >= len(l.Points) {
		return Point{}, false
	}
	return l.Points[id], true
}

// ViewBox returns the SVG viewBox covering the frame plus margins.
func (l Layout) ViewBox() string {
	return fmt.Sprintf("%s %s %s %s",
		fmtFloat(-l.Margin), fmtFloat(-l.Margin),
		fmtFloat(l.FrameWidth+2*l.Margin), fmtFloat(l.FrameHeight+2*l.Margin))
}

// Option configures Compute.
type Option func(*config)

type config struct {
	width, height float64
	margin        float64
	marginSet     bool
}

// WithFrame sets the frame size. Non-positive values keep the defaults.
func WithFrame(width, height float64) Option {
	return func(c *config) {
		if width > 0 {
			c.width = width
		}
		if height > 0 {
			c.height = height
		}
	}
}

// WithMargin sets an explicit margin instead of the proportional default.
func WithMargin(m float64) Option {
	return func(c *config) {
		if m >= 0 {
			c.margin = m
			c.marginSet = true
		}
	}
}

// Compute lays out every node of g inside the frame.
func Compute(g *butterfly.Graph, opts ...Option) Layout {
	c := config{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&c)
	}
	if !c.marginSet {
		c.margin = DefaultMarginRatio * min(c.width, c.height)
	}

	l := Layout{
		FrameWidth:  c.width,
		FrameHeight: c.height,
		Margin:      c.margin,
		Points:      make([]Point, g.NodeCount()),
		Headings:    make([]Heading, 0, g.Stages()),
	}

	for _, n := range g.Nodes() {
		fx, fy := Position(n, g.LogN(), g.Size())
		l.Points[n.ID] = Point{X: fx * c.width, Y: fy * c.height}
	}

	for s := range g.Stages() {
		var fx float64
		if g.LogN() > 0 {
			fx = float64(s) / float64(g.LogN())
		}
		l.Headings = append(l.Headings, Heading{
			Stage: s,
			X:     fx * c.width,
			Text:  "N=" + strconv.Itoa(1<<s),
		})
	}
	return l
}

// SmoothPath returns an SVG path from src to dst as a cubic Bezier whose
// control points share the horizontal midpoint.
func SmoothPath(src, dst Point) string {
	mx := (src.X + dst.X) / 2
	return "M" + fmtPoint(src.X, src.Y) +
		"C" + fmtPoint(mx, src.Y) +
		" " + fmtPoint(mx, dst.Y) +
		" " + fmtPoint(dst.X, dst.Y)
}

func fmtPoint(x, y float64) string {
	return fmtFloat(x) + "," + fmtFloat(y)
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
