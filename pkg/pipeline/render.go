package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/butterfly/pkg/butterfly"
	"github.com/matzehuels/butterfly/pkg/errors"
	bfio "github.com/matzehuels/butterfly/pkg/io"
	"github.com/matzehuels/butterfly/pkg/layout"
	"github.com/matzehuels/butterfly/pkg/render"
	"github.com/matzehuels/butterfly/pkg/render/nodelink"
	"github.com/matzehuels/butterfly/pkg/render/svg"
)

// ComputeLayout maps g into the frame configured by opts.
func ComputeLayout(g *butterfly.Graph, opts Options) layout.Layout {
	opts.SetRenderDefaults()
	return layout.Compute(g, layout.WithFrame(opts.Width, opts.Height))
}

// Render generates output artifacts in the requested formats.
// DOT and JSON are independent of the visualization type.
func Render(ctx context.Context, g *butterfly.Graph, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = marshalGraph(g)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed}))
		default:
			if opts.IsNodelink() {
				data, err = renderNodelink(ctx, g, format, opts)
			} else {
				data, err = renderButterfly(ctx, g, l, format, opts)
			}
		}

		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderButterfly generates native butterfly diagram outputs.
func renderButterfly(ctx context.Context, g *butterfly.Graph, l layout.Layout, format string, opts Options) ([]byte, error) {
	doc := svg.Render(g, l, svgOptions(opts)...)
	switch format {
	case FormatSVG:
		return doc, nil
	case FormatPNG:
		return render.ToPNG(ctx, doc, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, doc)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported butterfly format: %s", format)
	}
}

// renderNodelink generates Graphviz outputs.
func renderNodelink(ctx context.Context, g *butterfly.Graph, format string, opts Options) ([]byte, error) {
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported nodelink format: %s", format)
	}
}

// svgOptions builds SVG rendering options.
func svgOptions(opts Options) []svg.Option {
	return []svg.Option{
		svg.WithLabels(opts.Labels),
		svg.WithHeadings(opts.Headings),
		svg.WithHighlight(opts.Highlight),
		svg.WithRadius(opts.Radius),
	}
}

func marshalGraph(g *butterfly.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := bfio.WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
