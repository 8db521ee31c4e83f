package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/butterfly/pkg/observability"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	// Test that it can log
	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	// Small delay to ensure measurable duration
	time.Sleep(10 * time.Millisecond)

	prog.done("test completed")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	// Should contain the message
	if !bytes.Contains(buf.Bytes(), []byte("test completed")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	logger := log.Default()

	ctxWithLogger := withLogger(ctx, logger)

	// Should be able to retrieve the logger
	retrieved := loggerFromContext(ctxWithLogger)
	if retrieved != logger {
		t.Error("loggerFromContext should return the same logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	ctx := context.Background()

	// Without logger in context, should return default
	logger := loggerFromContext(ctx)
	if logger == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}
}

func TestLoggerFromContextWithValue(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	customLogger := newLogger(&buf, log.InfoLevel)

	ctx = withLogger(ctx, customLogger)
	retrieved := loggerFromContext(ctx)

	if retrieved != customLogger {
		t.Error("loggerFromContext should return the custom logger")
	}

	// Verify it works by logging
	retrieved.Info("test")
	if buf.Len() == 0 {
		t.Error("custom logger should write to buffer")
	}
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	logger := newLogger(&buf, log.DebugLevel)
	registerLogHooks(logger)

	ctx := context.Background()
	observability.Cache().OnCacheHit(ctx, "graph")
	observability.Cache().OnCacheSet(ctx, "artifact", 42)
	observability.Pipeline().OnBuildComplete(ctx, observability.BuildEvent{LogN: 3, Nodes: 32, Edges: 48, Duration: time.Millisecond})
	observability.Pipeline().OnRenderComplete(ctx, observability.RenderEvent{LogN: 3, Formats: []string{"svg"}, Duration: time.Millisecond, Err: stderrors.New("boom")})

	out := buf.String()
	for _, want := range []string{"cache hit", "type=graph", "bytes=42", "nodes=32", "render failed", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	observability.Cache().OnCacheMiss(context.Background(), "graph")
	if buf.Len() != 0 {
		t.Fatalf("hooks logged before verbose mode: %q", buf.String())
	}

	c.SetLogLevel(LogDebug)
	observability.Cache().OnCacheMiss(context.Background(), "graph")
	if !strings.Contains(buf.String(), "cache miss") {
		t.Errorf("verbose mode did not log cache miss: %q", buf.String())
	}
}

func TestHTTPLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &httpLogHooks{logger: newLogger(&buf, log.InfoLevel)}

	h.OnRequest(context.Background(), "id-1", "GET", "/v1/graph/3")
	if buf.Len() != 0 {
		t.Errorf("OnRequest should not log, got %q", buf.String())
	}

	h.OnError(context.Background(), "id-1", "GET", "/v1/graph/99", stderrors.New("too large"))
	if out := buf.String(); !strings.Contains(out, "request_id=id-1") || !strings.Contains(out, "too large") {
		t.Errorf("OnError output = %q", out)
	}
}
