// Package cli implements the butterfly command-line interface.
//
// This package provides commands for printing bit-reversal tables,
// exporting butterfly graphs as JSON, rendering them as diagrams, exploring
// them in the terminal and serving them over HTTP. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - bitrev: Print the bit-reversal permutation for 2^logN inputs
//   - graph: Export the butterfly graph as JSON
//   - render: Generate SVG, PNG, PDF, DOT or JSON output
//   - explore: Browse the graph interactively
//   - serve: Run the HTTP API
//   - cache: Manage the graph and artifact cache
//   - config: Write or show the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking. In
// verbose mode, pipeline and cache events are logged through the
// observability hooks.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/butterfly/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 3 artifacts (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks logs pipeline and cache events at debug level.
type logHooks struct {
	observability.NoopPipelineHooks
	logger *log.Logger
}

// registerLogHooks routes pipeline and cache events to l.
func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnBuildComplete(_ context.Context, ev observability.BuildEvent) {
	if ev.Err != nil {
		h.logger.Debug("build failed", "log_n", ev.LogN, "err", ev.Err)
		return
	}
	h.logger.Debug("build", "log_n", ev.LogN, "nodes", ev.Nodes, "edges", ev.Edges, "took", ev.Duration.Round(time.Microsecond))
}

func (h *logHooks) OnRenderComplete(_ context.Context, ev observability.RenderEvent) {
	if ev.Err != nil {
		h.logger.Debug("render failed", "log_n", ev.LogN, "formats", ev.Formats, "err", ev.Err)
		return
	}
	h.logger.Debug("render", "log_n", ev.LogN, "viz", ev.VizType, "formats", ev.Formats, "bytes", ev.Bytes, "took", ev.Duration.Round(time.Microsecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// httpLogHooks logs handler errors with the failing request's id. Access
// lines are written by the server itself.
type httpLogHooks struct {
	observability.NoopHTTPHooks
	logger *log.Logger
}

func (h *httpLogHooks) OnError(_ context.Context, requestID, method, path string, err error) {
	h.logger.Warn("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
}
