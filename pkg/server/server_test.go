package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/butterfly/pkg/errors"
	bfio "github.com/matzehuels/butterfly/pkg/io"
	"github.com/matzehuels/butterfly/pkg/observability"
	"github.com/matzehuels/butterfly/pkg/pipeline"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(context.Context, string) error { return nil }
func (c *memCache) Close() error                         { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(&memCache{data: map[string][]byte{}}, nil, logger)
	s := New(runner, nil, Options{
		MaxLogN:  6,
		Defaults: pipeline.Options{Labels: true, Headings: true, Width: 400, Height: 300},
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, header ...string) (*http.Response, []byte) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/healthz")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h healthResponse
	if err := json.Unmarshal(body, &h); err != nil || h.Status != "ok" {
		t.Errorf("body = %s", body)
	}
	if _, err := uuid.Parse(resp.Header.Get(HeaderRequestID)); err != nil {
		t.Errorf("X-Request-ID = %q, want a UUID", resp.Header.Get(HeaderRequestID))
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.NewString()

	resp, _ := get(t, ts, "/healthz", HeaderRequestID, id)
	if got := resp.Header.Get(HeaderRequestID); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}

	resp, _ = get(t, ts, "/healthz", HeaderRequestID, "not-a-uuid")
	if got := resp.Header.Get(HeaderRequestID); got == "not-a-uuid" {
		t.Error("malformed client request id should be replaced")
	}
}

func TestBitrev(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/v1/bitrev/3")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	var got bitrevResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	want := bitrevResponse{LogN: 3, Size: 8, Permutation: []int{0, 4, 2, 6, 1, 5, 3, 7}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bitrev = %+v, want %+v", got, want)
	}
}

func TestGraph(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/v1/graph/2")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	g, err := bfio.ReadJSON(strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if g.NodeCount() != 12 {
		t.Errorf("NodeCount() = %d", g.NodeCount())
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/v1/render/3.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("first X-Cache = %q", resp.Header.Get("X-Cache"))
	}
	if got := strings.Count(string(body), "<circle "); got != 32 {
		t.Errorf("circles = %d", got)
	}
	if !strings.Contains(string(body), `viewBox="-30 -30 460 360"`) {
		t.Error("server default frame not applied")
	}

	resp, _ = get(t, ts, "/v1/render/3.svg")
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second X-Cache = %q", resp.Header.Get("X-Cache"))
	}

	_, body = get(t, ts, "/v1/render/3.svg?labels=false&headings=0&width=100&height=100")
	if strings.Contains(string(body), `class="label `) || strings.Contains(string(body), `class="heading"`) {
		t.Error("query parameters should disable labels and headings")
	}
	if !strings.Contains(string(body), `viewBox="-10 -10 120 120"`) {
		t.Error("query frame size not applied")
	}

	resp, body = get(t, ts, "/v1/render/2.dot?detailed=true")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `[label="even"]`) {
		t.Errorf("dot status = %d, body = %.100s", resp.StatusCode, body)
	}
}

func TestRenderConditionalGet(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/v1/render/3.svg")
	etag := resp.Header.Get("ETag")
	if resp.StatusCode != http.StatusOK || etag == "" {
		t.Fatalf("status = %d, ETag = %q", resp.StatusCode, etag)
	}

	tests := []struct {
		name        string
		path        string
		ifNoneMatch string
		status      int
	}{
		{"same tag", "/v1/render/3.svg", etag, http.StatusNotModified},
		{"weak tag in list", "/v1/render/3.svg", `"other", W/` + etag, http.StatusNotModified},
		{"wildcard", "/v1/render/3.svg", "*", http.StatusNotModified},
		{"stale tag", "/v1/render/3.svg", `"stale"`, http.StatusOK},
		{"different options", "/v1/render/3.svg?labels=false", etag, http.StatusOK},
		{"different format", "/v1/render/3.dot", etag, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, got := get(t, ts, tt.path, "If-None-Match", tt.ifNoneMatch)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status == http.StatusNotModified && len(got) != 0 {
				t.Errorf("304 response has a %d-byte body", len(got))
			}
			if tt.status == http.StatusOK && tt.path == "/v1/render/3.svg" && string(got) != string(body) {
				t.Error("revalidated body differs from the original")
			}
		})
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path   string
		status int
		code   errors.Code
	}{
		{"/v1/bitrev/abc", http.StatusBadRequest, errors.ErrCodeInvalidArgument},
		{"/v1/bitrev/-1", http.StatusBadRequest, errors.ErrCodeInvalidArgument},
		{"/v1/graph/7", http.StatusBadRequest, errors.ErrCodeInvalidArgument},
		{"/v1/render/2.gif", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"/v1/render/2.svg?viz=tower", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"/v1/render/2.svg?labels=maybe", http.StatusBadRequest, errors.ErrCodeInvalidArgument},
		{"/v1/render/2.svg?width=-5", http.StatusBadRequest, errors.ErrCodeInvalidArgument},
		{"/nope", http.StatusNotFound, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorResponse
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("body %q is not JSON: %v", body, err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
			if e.RequestID != resp.Header.Get(HeaderRequestID) {
				t.Errorf("request_id = %q, header = %q", e.RequestID, resp.Header.Get(HeaderRequestID))
			}
		})
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
	errs     int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	get(t, ts, "/healthz")
	get(t, ts, "/v1/bitrev/99")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if !reflect.DeepEqual(hooks.statuses, []int{200, 400}) {
		t.Errorf("statuses = %v", hooks.statuses)
	}
	if hooks.errs != 1 {
		t.Errorf("errors = %d, want 1", hooks.errs)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, log.NewWithOptions(io.Discard, log.Options{}))
	s := New(runner, nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
