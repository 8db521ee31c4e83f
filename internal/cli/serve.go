package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/butterfly/pkg/errors"
	"github.com/matzehuels/butterfly/pkg/observability"
	"github.com/matzehuels/butterfly/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve bit-reversal tables, graphs and diagrams over HTTP",
		Long: `Run the HTTP API.

Endpoints:
  GET /healthz
  GET /v1/bitrev/{logN}
  GET /v1/graph/{logN}
  GET /v1/render/{logN}.{svg|png|pdf|dot|json}?viz=&width=&height=&labels=&headings=&highlight=&detailed=

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  butterfly serve
  butterfly serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			if addr == "" {
				return errors.New(errors.ErrCodeInvalidArgument, "listen address cannot be empty")
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.SetHTTPHooks(&httpLogHooks{logger: c.Logger})

			defaults := c.defaultOptions()
			defaults.Logger = c.Logger
			srv := server.New(runner, c.Logger, server.Options{
				MaxLogN:      c.Config.Limits.MaxLogN,
				Defaults:     defaults,
				ReadTimeout:  c.Config.Server.ReadTimeout.Std(),
				WriteTimeout: c.Config.Server.WriteTimeout.Std(),
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
