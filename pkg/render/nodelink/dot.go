package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/butterfly/pkg/butterfly"
	"github.com/matzehuels/butterfly/pkg/errors"
	"github.com/matzehuels/butterfly/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds stage and index to node labels and labels each edge
	// with the operand it carries. When false, only the node label is shown.
	Detailed bool
}

// ToDOT converts a butterfly graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPNG], or [RenderPDF].
//
// Input nodes are drawn filled so the bit-reversed ordering stands out.
func ToDOT(g *butterfly.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, color=steelblue, fontsize=12];\n")
	buf.WriteString("  edge [color=\"#cccccc\", arrowsize=0.6];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.2;\n")

	for s := range g.Stages() {
		fmt.Fprintf(&buf, "\n  subgraph stage%d {\n    rank=same;\n", s)
		for _, n := range g.Stage(s) {
			attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
			fmt.Fprintf(&buf, "    %s [%s];\n", nodeName(n.ID), strings.Join(attrs, ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if opts.Detailed {
			fmt.Fprintf(&buf, "  %s -> %s [label=%q];\n", nodeName(e.From), nodeName(e.To), e.Parity.String())
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(e.From), nodeName(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id int) string { return "n" + strconv.Itoa(id) }

func fmtLabel(n butterfly.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\nstage: %d\nindex: %d", n.Label, n.Stage, n.Index)
}

func fmtAttrs(n butterfly.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsInput() {
		attrs = append(attrs, "fillcolor=steelblue", "fontcolor=white")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderGraphviz(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderGraphviz(ctx, dot, graphviz.PNG)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
