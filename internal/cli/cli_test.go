package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/butterfly/pkg/cache"
	"github.com/matzehuels/butterfly/pkg/config"
	"github.com/matzehuels/butterfly/pkg/errors"
)

// writeConfig writes a config file that disables caching unless data
// overrides it, and points XDG directories at the test's temp dir.
func writeConfig(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	if data == "" {
		data = "[cache]\nbackend = \"none\"\n"
	}
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", configPath}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"bitrev", "graph", "render", "explore", "serve", "cache", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "[limits]\nmax_log_n = 4\n[cache]\nbackend = \"none\"\n")

	_, err := executeCommand(t, path, "bitrev", "5")
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("bitrev 5 with max_log_n=4: err = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := executeCommand(t, path, "bitrev", "4"); err != nil {
		t.Fatalf("bitrev 4: %v", err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeConfig(t, "[cache]\nbackend = \"tape\"\n")

	_, err := executeCommand(t, path, "bitrev", "2")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	writeConfig(t, "")
	missing := filepath.Join(t.TempDir(), "absent.toml")

	if _, err := executeCommand(t, missing, "bitrev", "2"); err != nil {
		t.Fatalf("missing config file should fall back to defaults: %v", err)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		noCache bool
		check   func(t *testing.T, c cache.Cache)
	}{
		{
			name:   "file backend",
			mutate: func(cfg *config.Config) { cfg.Cache.Dir = dir },
			check: func(t *testing.T, c cache.Cache) {
				fc, ok := c.(*cache.FileCache)
				if !ok {
					t.Fatalf("got %T, want *cache.FileCache", c)
				}
				if fc.Dir() != dir {
					t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
				}
			},
		},
		{
			name:   "none backend",
			mutate: func(cfg *config.Config) { cfg.Cache.Backend = config.BackendNone },
			check: func(t *testing.T, c cache.Cache) {
				if _, ok := c.(*cache.NullCache); !ok {
					t.Fatalf("got %T, want *cache.NullCache", c)
				}
			},
		},
		{
			name:    "no-cache flag wins",
			mutate:  func(cfg *config.Config) { cfg.Cache.Dir = dir },
			noCache: true,
			check: func(t *testing.T, c cache.Cache) {
				if _, ok := c.(*cache.NullCache); !ok {
					t.Fatalf("got %T, want *cache.NullCache", c)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			tt.mutate(&c.Config)
			cc, err := c.newCache(ctx, tt.noCache)
			if err != nil {
				t.Fatalf("newCache() error: %v", err)
			}
			defer cc.Close()
			tt.check(t, cc)
		})
	}
}

func TestNewCacheRedisInvalidAddr(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Backend = config.BackendRedis
	c.Config.Cache.Redis.Addr = "nohost"

	_, err := c.newCache(context.Background(), false)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestNewRunnerNamespace(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Backend = config.BackendNone
	c.Config.Cache.Namespace = "test"

	runner, err := c.newRunner(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()

	if got := runner.Keyer.GraphKey(3); got != "test:graph:3" {
		t.Errorf("GraphKey(3) = %q, want %q", got, "test:graph:3")
	}
	if runner.ArtifactTTL != c.Config.Cache.TTL.Std() {
		t.Errorf("ArtifactTTL = %v, want %v", runner.ArtifactTTL, c.Config.Cache.TTL.Std())
	}
}

func TestDefaultOptions(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Render.Width = 1000
	c.Config.Render.Labels = false
	c.Config.Render.Formats = []string{"png"}

	opts := c.defaultOptions()
	if opts.Width != 1000 || opts.Labels || !opts.Headings || !opts.Highlight {
		t.Errorf("defaultOptions() = %+v", opts)
	}
	if opts.MaxLogN != config.DefaultMaxLogN {
		t.Errorf("MaxLogN = %d, want %d", opts.MaxLogN, config.DefaultMaxLogN)
	}

	// Formats must be a copy of the config slice
	opts.Formats[0] = "svg"
	if c.Config.Render.Formats[0] != "png" {
		t.Error("defaultOptions() shares the config formats slice")
	}
}

func TestCachePrefixes(t *testing.T) {
	if got := strings.Join(cachePrefixes(""), " "); got != "graph: artifact:" {
		t.Errorf("cachePrefixes(\"\") = %q", got)
	}
	if got := strings.Join(cachePrefixes("prod"), " "); got != "prod:graph: prod:artifact:" {
		t.Errorf("cachePrefixes(\"prod\") = %q", got)
	}
}

func TestCachePathCommand(t *testing.T) {
	path := writeConfig(t, "[cache]\ndir = \"/tmp/butterfly-cache\"\n")

	out, err := executeCommand(t, path, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "/tmp/butterfly-cache" {
		t.Errorf("cache path = %q", out)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"graph:1", "graph:2"} {
		if err := fc.Set(ctx, key, []byte("x"), cache.TTLGraph); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := executeCommand(t, path, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := fc.Get(ctx, "graph:1"); hit {
		t.Error("entry survived cache clear")
	}
}

func TestConfigCommands(t *testing.T) {
	writeConfig(t, "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if _, err := executeCommand(t, path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(written config): %v", err)
	}
	if cfg.Limits.MaxLogN != config.DefaultMaxLogN {
		t.Errorf("written max_log_n = %d", cfg.Limits.MaxLogN)
	}

	out, err := executeCommand(t, path, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[render]", "max_log_n = 10", "backend = \"file\""} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, path, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}
}

func TestCompletionCommand(t *testing.T) {
	path := writeConfig(t, "")

	out, err := executeCommand(t, path, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "butterfly") {
		t.Error("bash completion does not mention butterfly")
	}
}
