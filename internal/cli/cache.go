package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/butterfly/pkg/cache"
	"github.com/matzehuels/butterfly/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the graph and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached graphs and artifacts",
		Long: `Remove all cached graphs and artifacts from the configured backend.

For the redis backend only keys under the configured namespace are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			var count int
			switch cc := cc.(type) {
			case *cache.FileCache:
				count, err = cc.Clear(ctx)
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Directory: %s", cc.Dir())
			case *cache.RedisCache:
				prefixes := cachePrefixes(c.Config.Cache.Namespace)
				count, err = cc.Clear(ctx, prefixes...)
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Redis: %s db %d", c.Config.Cache.Redis.Addr, c.Config.Cache.Redis.DB)
			default:
				printInfo("Caching is disabled")
			}
			return nil
		},
	}
}

// cachePrefixes returns the key prefixes owned by namespace.
func cachePrefixes(namespace string) []string {
	ns := ""
	if namespace != "" {
		ns = namespace + ":"
	}
	return []string{ns + cache.PrefixGraph, ns + cache.PrefixArtifact}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.Config.Cache.Backend {
			case config.BackendRedis:
				r := c.Config.Cache.Redis
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "redis://%s/%d\n", r.Addr, r.DB)
				return err
			case config.BackendNone:
				printInfo("Caching is disabled")
				return nil
			}
			dir, err := c.Config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
			return err
		},
	}
}
