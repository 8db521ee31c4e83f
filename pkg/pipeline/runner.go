package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/butterfly/pkg/butterfly"
	"github.com/matzehuels/butterfly/pkg/cache"
	"github.com/matzehuels/butterfly/pkg/errors"
	bfio "github.com/matzehuels/butterfly/pkg/io"
	"github.com/matzehuels/butterfly/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGraph    = "graph"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ArtifactTTL overrides cache.TTLArtifact when positive.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	g, graphHit, err := r.BuildGraphWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.GraphHit = graphHit

	opts.Logger.Info("built graph",
		"logN", g.LogN(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", graphHit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	result.Layout = ComputeLayout(g, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, graphHash, renderHit, err := r.render(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.GraphHash = graphHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildGraphWithCacheInfo builds the graph for opts.LogN with caching and
// returns cache hit info. Cached graphs are re-validated on read; an
// unreadable entry is rebuilt.
func (r *Runner) BuildGraphWithCacheInfo(ctx context.Context, opts Options) (*butterfly.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.GraphKey(opts.LogN)

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		switch {
		case err != nil:
			opts.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		case hit:
			g, err := bfio.ReadJSON(bytes.NewReader(data))
			if err == nil && g.LogN() == opts.LogN {
				observability.Cache().OnCacheHit(ctx, keyTypeGraph)
				return g, true, nil
			}
			opts.Logger.Debug("discarding cached graph", "key", cacheKey, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeGraph)
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.LogN)
	start := time.Now()
	g, err := butterfly.Build(opts.LogN)
	ev := observability.BuildEvent{LogN: opts.LogN, Duration: time.Since(start), Err: err}
	if err != nil {
		hooks.OnBuildComplete(ctx, ev)
		return nil, false, err
	}
	ev.Nodes, ev.Edges = g.NodeCount(), g.EdgeCount()
	hooks.OnBuildComplete(ctx, ev)

	if data, err := marshalGraph(g); err == nil {
		r.store(ctx, opts.Logger, keyTypeGraph, cacheKey, data, cache.TTLGraph)
	}
	return g, false, nil
}

// BuildGraph is a convenience wrapper that builds the graph for logN,
// bounded by maxLogN, and discards the cache hit info.
func (r *Runner) BuildGraph(ctx context.Context, logN, maxLogN int, refresh bool) (*butterfly.Graph, error) {
	g, _, err := r.BuildGraphWithCacheInfo(ctx, Options{LogN: logN, MaxLogN: maxLogN, Refresh: refresh})
	return g, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *butterfly.Graph, opts Options) (map[string][]byte, bool, error) {
	artifacts, _, hit, err := r.render(ctx, g, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *butterfly.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, g *butterfly.Graph, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	graphData, err := marshalGraph(g)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph for cache key")
	}
	graphHash := cache.Hash(graphData)

	// Serve from cache only when every format is present
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil {
				opts.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
			}
			if !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, graphHash, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, g.LogN(), opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, g, ComputeLayout(g, opts), opts)
	ev := observability.RenderEvent{
		LogN:     g.LogN(),
		VizType:  opts.VizType,
		Formats:  opts.Formats,
		Duration: time.Since(start),
		Err:      err,
	}
	for _, data := range rendered {
		ev.Bytes += len(data)
	}
	hooks.OnRenderComplete(ctx, ev)
	if err != nil {
		return nil, "", false, err
	}

	ttl := cache.TTLArtifact
	if r.ArtifactTTL > 0 {
		ttl = r.ArtifactTTL
	}
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, opts.Logger, keyTypeArtifact, cacheKey, data, ttl)
	}

	return rendered, graphHash, false, nil
}

// store writes to the cache. Failures are logged, never returned.
func (r *Runner) store(ctx context.Context, logger *log.Logger, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
