// Package observability provides hooks for metrics, tracing, and logging.
//
// Library packages report events through the registered hooks and never
// import a logging or metrics backend themselves. Hooks are registered by
// the binary at startup: the butterfly CLI installs logging hooks when
// --verbose is set and an error hook when serving HTTP.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetPipelineHooks(&myPipelineHooks{})
//	observability.SetCacheHooks(&myCacheHooks{})
//
// Libraries emit events:
//
//	observability.Pipeline().OnBuildStart(ctx, logN)
//	g, err := butterfly.Build(logN)
//	observability.Pipeline().OnBuildComplete(ctx, observability.BuildEvent{LogN: logN, Err: err})
//
// Embed the Noop types to implement only the events you care about.
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildEvent describes a finished graph build.
type BuildEvent struct {
	LogN     int
	Nodes    int
	Edges    int
	Duration time.Duration
	Err      error
}

// RenderEvent describes a finished render of one graph into Formats.
type RenderEvent struct {
	LogN     int
	VizType  string
	Formats  []string
	Bytes    int // total size of all artifacts
	Duration time.Duration
	Err      error
}

// PipelineHooks receives events from the build and render pipeline.
// Cache hits do not produce build or render events.
type PipelineHooks interface {
	OnBuildStart(ctx context.Context, logN int)
	OnBuildComplete(ctx context.Context, ev BuildEvent)
	OnRenderStart(ctx context.Context, logN int, formats []string)
	OnRenderComplete(ctx context.Context, ev RenderEvent)
}

// CacheHooks receives events from cache lookups. keyType is "graph" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, requestID, method, path string)
	OnResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration)

	// OnError is called before a handler error is written as a response.
	OnError(ctx context.Context, requestID, method, path string, err error)
}

// NoopPipelineHooks ignores all pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, int)             {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, BuildEvent)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, int, []string)  {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, RenderEvent) {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores all HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string) {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error) {}

// slot holds one registered hook and falls back to def.
type slot[T any] struct {
	mu  sync.RWMutex
	cur T
	set bool
	def T
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return s.def
	}
	return s.cur
}

func (s *slot[T]) store(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur, s.set = v, true
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.cur, s.set = zero, false
}

var (
	pipelineSlot = &slot[PipelineHooks]{def: NoopPipelineHooks{}}
	cacheSlot    = &slot[CacheHooks]{def: NoopCacheHooks{}}
	httpSlot     = &slot[HTTPHooks]{def: NoopHTTPHooks{}}
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.store(h)
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.store(h)
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores all hooks to their no-op defaults.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
