package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/butterfly/pkg/pipeline"
)

// exploreCommand creates the explore command for browsing a graph in the terminal.
func (c *CLI) exploreCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "explore <logN>",
		Short: "Browse the butterfly graph interactively",
		Long: `Browse the butterfly graph for 2^logN inputs in the terminal.

Move across stages with ←/→ and across indices with ↑/↓. The selected node's
even parent, odd parent and children are highlighted; press e or o to jump to
a parent.`,
		Example: `  butterfly explore 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logN, err := c.parseLogN(args[0])
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, _, err := runner.BuildGraphWithCacheInfo(ctx, pipeline.Options{
				LogN:    logN,
				MaxLogN: c.Config.Limits.MaxLogN,
				Logger:  c.Logger,
			})
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewExploreModel(g), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
