// Package svg renders a butterfly graph as a self-contained, interactive SVG
// document.
//
// # Output Structure
//
// The document draws, in order:
//
//   - links: one smooth cubic path per parent edge (see [layout.SmoothPath])
//   - nodes: one circle per graph node
//   - labels: the node label below each circle (optional)
//   - headings: "N=2^s" above each stage column (optional)
//
// Every element carries the CSS class group<id>, where id is the node the
// element belongs to. An edge belongs to the node it feeds, so hovering a
// node highlights the node, its label and both incoming edges.
//
// # Highlighting
//
// [HighlightGroups] builds the index from node id to the element ids sharing
// it. The index is embedded in the document and used by a small script to
// toggle the highlight class on mouse enter and leave. Disable with
// [WithHighlight](false) for static output.
//
// # Usage
//
//	g, _ := butterfly.Build(3)
//	l := layout.Compute(g, layout.WithFrame(800, 600))
//	doc := svg.Render(g, l, svg.WithLabels(true), svg.WithHeadings(true))
package svg
