// Package layout assigns drawing positions to butterfly graph nodes.
//
// # Normalized Coordinates
//
// [Position] maps a node's (stage, index) to fractions in [0, 1]: stages run
// left to right (input at x=0, final output at x=1) and indices top to
// bottom. Degenerate sizes (a single stage or a single row) map to 0 rather
// than dividing by zero.
//
// # Frame Layout
//
// [Compute] scales normalized positions into a frame of user units
// (typically SVG pixels) and adds the per-stage column headings "N=2^s".
// Any renderer can consume the resulting [Layout]; the package knows nothing
// about SVG or Graphviz.
//
//	g, _ := butterfly.Build(3)
//	l := layout.Compute(g, layout.WithFrame(800, 600))
//	p := l.Points[g.Size()] // first node of stage 1
//
// [SmoothPath] produces the cubic Bezier path used to draw an edge between
// two points, leaving and entering both nodes horizontally.
package layout
