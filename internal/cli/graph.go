package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/butterfly/pkg/errors"
	bfio "github.com/matzehuels/butterfly/pkg/io"
	"github.com/matzehuels/butterfly/pkg/pipeline"
)

// graphOpts holds the flags of the graph command.
type graphOpts struct {
	output  string
	noCache bool
	refresh bool
}

// graphCommand creates the graph command for exporting graphs as JSON.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph <logN>",
		Short: "Export the butterfly graph for 2^logN inputs as JSON",
		Long: `Build the butterfly graph for 2^logN inputs and write it as JSON.

Each node carries its id, stage, index, parent ids and label. The output can
be rendered later with "butterfly render --input".`,
		Example: `  butterfly graph 3
  butterfly graph 4 -o fft16.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logN, err := c.parseLogN(args[0])
			if err != nil {
				return err
			}
			return c.runGraph(cmd, logN, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even if cached")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, logN int, opts graphOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		LogN:    logN,
		MaxLogN: c.Config.Limits.MaxLogN,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	}
	g, hit, err := runner.BuildGraphWithCacheInfo(ctx, popts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		return bfio.WriteJSON(g, cmd.OutOrStdout())
	}
	if err := errors.ValidatePath(opts.output); err != nil {
		return err
	}
	if err := bfio.ExportJSON(g, opts.output); err != nil {
		return err
	}

	printSuccess("Graph exported")
	printGraphSummary(g, hit)
	printFile(opts.output)
	printNewline()
	printNextStep("Render it", "butterfly render --input "+opts.output)
	return nil
}
