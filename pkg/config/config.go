// Package config loads and writes the butterfly TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/butterfly/config.toml (falling back to
// ~/.config/butterfly/config.toml). Every key is optional; missing keys keep
// the values from [Default]:
//
//	[render]
//	width = 800.0
//	height = 600.0
//	formats = ["svg"]
//	labels = true
//	headings = true
//	radius = 0.0
//
//	[limits]
//	max_log_n = 10
//
//	[cache]
//	backend = "file"   # file | redis | none
//	dir = ""           # defaults to $XDG_CACHE_HOME/butterfly
//	ttl = "168h"
//	namespace = ""
//
//	[cache.redis]
//	addr = "localhost:6379"
//	password = ""
//	db = 0
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//	write_timeout = "30s"
//
// Unknown keys are rejected so that typos surface instead of being ignored.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/butterfly/pkg/butterfly"
	"github.com/matzehuels/butterfly/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "butterfly"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultMaxLogN bounds logN on the CLI and server unless configured.
const DefaultMaxLogN = 10

// Config is the complete configuration.
type Config struct {
	Render Render `toml:"render"`
	Limits Limits `toml:"limits"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Render holds default render options.
type Render struct {
	Width    float64  `toml:"width"`
	Height   float64  `toml:"height"`
	Formats  []string `toml:"formats"`
	Labels   bool     `toml:"labels"`
	Headings bool     `toml:"headings"`
	Radius   float64  `toml:"radius"`
}

// Limits bounds request sizes.
type Limits struct {
	MaxLogN int `toml:"max_log_n"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	Namespace string   `toml:"namespace"`
	Redis     Redis    `toml:"redis"`
}

// Redis configures the redis backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Server configures `butterfly serve`.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: Render{
			Width:    800,
			Height:   600,
			Formats:  []string{"svg"},
			Labels:   true,
			Headings: true,
		},
		Limits: Limits{MaxLogN: DefaultMaxLogN},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration(7 * 24 * time.Hour),
			Redis:   Redis{Addr: "localhost:6379"},
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
		},
	}
}

// Load reads path on top of [Default] and validates the result.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses TOML into cfg, keeping values for absent keys.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render width and height must be positive")
	}
	if c.Render.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render radius must not be negative")
	}
	if c.Limits.MaxLogN < 1 || c.Limits.MaxLogN > butterfly.MaxLogN {
		return errors.New(errors.ErrCodeInvalidConfig, "limits.max_log_n must be in [1, %d], got %d",
			butterfly.MaxLogN, c.Limits.MaxLogN)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if err := errors.ValidateRedisAddr(c.Cache.Redis.Addr); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server addr cannot be empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server timeouts must be positive")
	}
	return nil
}

// Encode returns c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// Write saves c to path, creating parent directories.
func (c Config) Write(path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// DefaultPath returns the config file location using the XDG standard.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the configured cache directory, or the XDG cache
// location (~/.cache/butterfly/) when none is set.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
