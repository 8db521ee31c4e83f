// Package nodelink renders butterfly graphs as traditional node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// nodes appear as circles connected by arrows. It's an alternative to the
// native butterfly diagram for cases where Graphviz output is preferred or
// the DOT source is needed for further processing.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PNG or PDF output:
//
//	png, err := nodelink.RenderPNG(ctx, dot)
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include stage and index, edges are labelled
//     even or odd
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) and pins every
// stage to its own rank, so columns line up the same way as in the
// butterfly diagram. Node names are n<id>.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
