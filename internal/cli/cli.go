// Package cli implements the butterfly command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/butterfly/pkg/buildinfo"
	"github.com/matzehuels/butterfly/pkg/cache"
	"github.com/matzehuels/butterfly/pkg/config"
	"github.com/matzehuels/butterfly/pkg/errors"
	"github.com/matzehuels/butterfly/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded in the root command's PersistentPreRunE.
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level, pipeline and
// cache events are logged through the observability hooks.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Butterfly generates radix-2 FFT butterfly graphs",
		Long: `Butterfly generates the graph behind a radix-2 Cooley-Tukey FFT diagram:
one column of partial DFT nodes per stage, even/odd combination edges and the
bit-reversed input ordering. Graphs can be printed, exported as JSON, rendered
as SVG, PNG, PDF or Graphviz DOT, explored in the terminal or served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/butterfly/config.toml)")

	// Register all subcommands
	root.AddCommand(c.bitrevCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default
// location. A missing default file is not an error.
func (c *CLI) loadConfig() error {
	path, err := c.resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("Loaded config", "path", path, "backend", cfg.Cache.Backend, "max_log_n", cfg.Limits.MaxLogN)
	return nil
}

// resolveConfigPath returns the --config value or the XDG default.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, errors.ValidatePath(c.configPath)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config file")
	}
	return path, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, backed by the configured
// cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if ns := c.Config.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(keyer, ns+":")
	}
	runner := pipeline.NewRunner(cc, keyer, c.Logger)
	runner.ArtifactTTL = c.Config.Cache.TTL.Std()
	return runner, nil
}

// newCache opens the configured cache backend. A file cache whose directory
// cannot be determined degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		r := c.Config.Cache.Redis
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: r.Addr, Password: r.Password, DB: r.DB})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := c.Config.CacheDir()
		if err != nil {
			c.Logger.Warn("Cache directory unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// defaultOptions returns pipeline options seeded from the config file.
func (c *CLI) defaultOptions() pipeline.Options {
	r := c.Config.Render
	return pipeline.Options{
		MaxLogN:   c.Config.Limits.MaxLogN,
		VizType:   pipeline.DefaultVizType,
		Width:     r.Width,
		Height:    r.Height,
		Formats:   append([]string(nil), r.Formats...),
		Labels:    r.Labels,
		Headings:  r.Headings,
		Highlight: true,
		Radius:    r.Radius,
		Scale:     pipeline.DefaultScale,
	}
}
