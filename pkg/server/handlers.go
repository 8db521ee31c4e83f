package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/butterfly/pkg/bitrev"
	"github.com/matzehuels/butterfly/pkg/buildinfo"
	"github.com/matzehuels/butterfly/pkg/cache"
	"github.com/matzehuels/butterfly/pkg/errors"
	"github.com/matzehuels/butterfly/pkg/observability"
	"github.com/matzehuels/butterfly/pkg/pipeline"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type bitrevResponse struct {
	LogN        int   `json:"log_n"`
	Size        int   `json:"size"`
	Permutation []int `json:"permutation"`
}

type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleBitrev(w http.ResponseWriter, r *http.Request) {
	logN, err := s.logNParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	table, err := bitrev.Permutation(logN)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bitrevResponse{LogN: logN, Size: len(table), Permutation: table})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	logN, err := s.logNParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, logN, pipeline.FormatJSON)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	logN, err := s.logNParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, logN, format)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, logN int, format string) {
	opts, err := s.renderOptions(r, logN, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body := res.Artifacts[format]
	etag := strconv.Quote(cache.Hash(body)[:32])
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// etagMatches reports whether an If-None-Match header value matches etag.
// Weak validators compare equal to their strong form.
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

// renderOptions overlays query parameters on the server defaults.
func (s *Server) renderOptions(r *http.Request, logN int, format string) (pipeline.Options, error) {
	opts := s.opts.Defaults
	opts.LogN = logN
	opts.MaxLogN = s.opts.MaxLogN
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	q := r.URL.Query()
	if v := q.Get("viz"); v != "" {
		if err := pipeline.ValidateVizType(v); err != nil {
			return opts, err
		}
		opts.VizType = v
	}
	for name, dst := range map[string]*float64{"width": &opts.Width, "height": &opts.Height} {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 || f > 100000 {
				return opts, errors.New(errors.ErrCodeInvalidArgument, "%s must be a positive number, got %q", name, v)
			}
			*dst = f
		}
	}
	for name, dst := range map[string]*bool{
		"labels":    &opts.Labels,
		"headings":  &opts.Headings,
		"highlight": &opts.Highlight,
		"detailed":  &opts.Detailed,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidArgument, "%s must be a boolean, got %q", name, v)
			}
			*dst = b
		}
	}
	return opts, nil
}

func (s *Server) logNParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "logn")
	logN, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "logN must be an integer, got %q", raw)
	}
	if err := errors.ValidateLogN(logN, s.opts.MaxLogN); err != nil {
		return 0, err
	}
	return logN, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	id := RequestID(r.Context())
	observability.HTTP().OnError(r.Context(), id, r.Method, r.URL.Path, err)

	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", id)
	}
	writeJSON(w, status, errorResponse{
		Code:      errors.GetCodeOr(err, errors.ErrCodeInternal),
		Message:   errors.UserMessage(err),
		RequestID: id,
	})
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
