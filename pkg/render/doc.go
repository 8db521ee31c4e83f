// Package render provides visualization rendering for butterfly graphs.
//
// # Overview
//
// This package contains the presentation layer that turns a
// [butterfly.Graph] into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - The native butterfly diagram (in [svg] subpackage)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// Nothing in the core packages imports render; renderers only consume the
// graph value and a [layout.Layout].
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// the butterfly and node-link renderers.
//
//	doc := svg.Render(g, layout.Compute(g))
//	pdf, err := render.ToPDF(ctx, doc)
//	png, err := render.ToPNG(ctx, doc, 2.0)  // 2x scale
//
// # Butterfly Diagram
//
// The [svg] subpackage draws stages as columns, nodes as circles and each
// parent link as a smooth curve, with hover highlighting of a node and its
// incoming edges.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the same graph through Graphviz, one
// rank per stage.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	out, err := nodelink.RenderSVG(ctx, dot)
//
// [butterfly.Graph]: github.com/matzehuels/butterfly/pkg/butterfly.Graph
// [layout.Layout]: github.com/matzehuels/butterfly/pkg/layout.Layout
// [svg]: github.com/matzehuels/butterfly/pkg/render/svg
// [nodelink]: github.com/matzehuels/butterfly/pkg/render/nodelink
package render
