package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/butterfly/pkg/butterfly"
	"github.com/matzehuels/butterfly/pkg/errors"
	bfio "github.com/matzehuels/butterfly/pkg/io"
	"github.com/matzehuels/butterfly/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	formats  string
	vizTypes string
	output   string
	input    string
	width    float64
	height   float64
	radius   float64
	scale    float64
	labels   bool
	headings bool
	noHover  bool
	detailed bool
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [logN]",
		Short: "Render the butterfly graph as SVG, PNG, PDF, DOT or JSON",
		Long: `Render the butterfly graph for 2^logN inputs, or a graph previously
exported with "butterfly graph", to one or more output formats.

Visualization types:
  butterfly  stage columns with curved even/odd links and hover highlighting
  nodelink   Graphviz layout, one rank per stage

PNG and PDF output of the butterfly type requires rsvg-convert on PATH.`,
		Example: `  butterfly render 3
  butterfly render 4 -f svg,png -o fft16
  butterfly render 3 -t butterfly,nodelink -f svg,dot
  butterfly render --input fft16.json -f pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			popts, err := c.renderOptions(cmd, opts)
			if err != nil {
				return err
			}

			switch {
			case len(args) == 1 && opts.input != "":
				return errors.New(errors.ErrCodeInvalidArgument, "pass either logN or --input, not both")
			case len(args) == 1:
				if popts.LogN, err = c.parseLogN(args[0]); err != nil {
					return err
				}
			case opts.input == "":
				return errors.New(errors.ErrCodeInvalidArgument, "logN or --input is required")
			}
			return c.runRender(ctx, popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg, png, pdf, dot, json (comma-separated, default from config)")
	cmd.Flags().StringVarP(&opts.vizTypes, "type", "t", pipeline.DefaultVizType, "visualization types: butterfly, nodelink (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or base name when writing several files")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "render a graph JSON file instead of building one")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.radius, "radius", 0, "node radius in pixels (default 2% of the smaller side)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.labels, "labels", true, "draw node labels")
	cmd.Flags().BoolVar(&opts.headings, "headings", true, "draw N=<size> stage headings")
	cmd.Flags().BoolVar(&opts.noHover, "no-hover", false, "omit hover highlighting script")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label node-link edges even/odd")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

// renderOptions merges config defaults with explicitly set flags.
func (c *CLI) renderOptions(cmd *cobra.Command, opts renderOpts) (pipeline.Options, error) {
	popts := c.defaultOptions()
	popts.Logger = c.Logger
	popts.Refresh = opts.refresh
	popts.Detailed = opts.detailed
	popts.Highlight = !opts.noHover
	popts.Scale = opts.scale

	flags := cmd.Flags()
	formats := strings.Join(popts.Formats, ",")
	if flags.Changed("format") {
		formats = opts.formats
	}
	popts.Formats = pipeline.ParseFormats(formats)
	if flags.Changed("width") {
		popts.Width = opts.width
	}
	if flags.Changed("height") {
		popts.Height = opts.height
	}
	if flags.Changed("radius") {
		popts.Radius = opts.radius
	}
	if flags.Changed("labels") {
		popts.Labels = opts.labels
	}
	if flags.Changed("headings") {
		popts.Headings = opts.headings
	}

	if popts.Width < 0 || popts.Height < 0 || popts.Radius < 0 || popts.Scale <= 0 {
		return popts, errors.New(errors.ErrCodeInvalidArgument, "width, height and radius must not be negative and scale must be positive")
	}
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return popts, err
	}
	for _, v := range parseVizTypes(opts.vizTypes) {
		if err := pipeline.ValidateVizType(v); err != nil {
			return popts, err
		}
	}
	return popts, nil
}

// parseVizTypes splits a comma-separated list, dropping blanks and duplicates.
func parseVizTypes(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return []string{pipeline.DefaultVizType}
	}
	return out
}

// runRender loads or builds the graph and renders every requested
// visualization type and format.
func (c *CLI) runRender(ctx context.Context, popts pipeline.Options, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	g, graphHit, err := c.loadGraph(ctx, runner, popts, opts.input)
	if err != nil {
		return err
	}
	logger.Debugf("Graph ready: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	vizTypes := parseVizTypes(opts.vizTypes)
	jobs := renderJobs(vizTypes, popts.Formats)
	base := basePath(opts.output, defaultBase(g.LogN(), opts.input))

	prog := newProgress(logger)
	renderHit := true
	var written []string
	for _, vizType := range vizTypes {
		formats := jobs[vizType]
		if len(formats) == 0 {
			continue
		}
		vopts := popts
		vopts.VizType = vizType
		vopts.Formats = formats

		artifacts, hit, err := c.renderWithSpinner(ctx, runner, g, vopts)
		if err != nil {
			return fmt.Errorf("%s: %w", vizType, err)
		}
		renderHit = renderHit && hit

		for _, format := range formats {
			path := outputPath(opts.output, base, vizType, format, len(vizTypes), len(popts.Formats))
			if err := writeOutput(path, artifacts[format]); err != nil {
				return err
			}
			logger.Debugf("Wrote %s: %d bytes", path, len(artifacts[format]))
			written = append(written, path)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(written)))

	printSuccess("Rendered 2^%d-point butterfly", g.LogN())
	printGraphSummary(g, graphHit && renderHit)
	for _, path := range written {
		printFile(path)
	}
	return nil
}

// loadGraph imports input when set, otherwise builds the graph for
// popts.LogN through the runner's cache.
func (c *CLI) loadGraph(ctx context.Context, runner *pipeline.Runner, popts pipeline.Options, input string) (*butterfly.Graph, bool, error) {
	if input == "" {
		return runner.BuildGraphWithCacheInfo(ctx, popts)
	}
	if err := errors.ValidatePath(input); err != nil {
		return nil, false, err
	}
	g, err := bfio.ImportJSON(input)
	if err != nil {
		return nil, false, err
	}
	if err := errors.ValidateLogN(g.LogN(), c.Config.Limits.MaxLogN); err != nil {
		return nil, false, err
	}
	loggerFromContext(ctx).Infof("Loaded %s: %d nodes, %d edges", input, g.NodeCount(), g.EdgeCount())
	return g, false, nil
}

// renderWithSpinner renders through the runner, showing a spinner when an
// external renderer is involved.
func (c *CLI) renderWithSpinner(ctx context.Context, runner *pipeline.Runner, g *butterfly.Graph, opts pipeline.Options) (map[string][]byte, bool, error) {
	if !needsSpinner(opts) {
		return runner.RenderWithCacheInfo(ctx, g, opts)
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s %s...", opts.VizType, strings.Join(opts.Formats, ", ")))
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, g, opts)
	spinner.Stop()
	if spinner.Cancelled() {
		return nil, false, context.Canceled
	}
	return artifacts, hit, err
}

// needsSpinner reports whether rendering calls Graphviz or rsvg-convert.
func needsSpinner(opts pipeline.Options) bool {
	for _, f := range opts.Formats {
		switch f {
		case pipeline.FormatPNG, pipeline.FormatPDF:
			return true
		case pipeline.FormatSVG:
			if opts.IsNodelink() {
				return true
			}
		}
	}
	return false
}

// renderJobs assigns formats to visualization types. DOT and JSON do not
// depend on the visualization type, so they are produced once, by the first
// type.
func renderJobs(vizTypes, formats []string) map[string][]string {
	jobs := make(map[string][]string, len(vizTypes))
	for i, v := range vizTypes {
		for _, f := range formats {
			if i > 0 && (f == pipeline.FormatDOT || f == pipeline.FormatJSON) {
				continue
			}
			jobs[v] = append(jobs[v], f)
		}
	}
	return jobs
}

// defaultBase derives the output base name from the input file, or from
// logN when building.
func defaultBase(logN int, input string) string {
	if input != "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return "butterfly-" + strconv.Itoa(logN)
}

// basePath strips a known format extension from output, falling back to
// def when output is empty.
func basePath(output, def string) string {
	if output == "" {
		return def
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one artifact. A single artifact goes to
// output verbatim when given; several artifacts share base and include the
// visualization type when more than one type is rendered.
func outputPath(output, base, vizType, format string, nViz, nFormats int) string {
	if nViz == 1 && nFormats == 1 && output != "" {
		return output
	}
	if nViz > 1 && format != pipeline.FormatDOT && format != pipeline.FormatJSON {
		return fmt.Sprintf("%s_%s.%s", base, vizType, format)
	}
	return fmt.Sprintf("%s.%s", base, format)
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
