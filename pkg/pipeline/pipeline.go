// Package pipeline provides the build and render pipeline for butterfly.
//
// This package implements the complete build → layout → render pipeline
// used by the CLI and the HTTP server. By centralizing this logic, both entry
// points share defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Generate the butterfly graph for logN (cached as JSON)
//  2. Layout: Map every node to frame coordinates
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Layout is pure and cheap, so only the build and render stages are cached.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    LogN:    4,
//	    Formats: []string{"svg"},
//	    Labels:  true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.BuildGraph(ctx, 4, 0, false) // 0 selects DefaultMaxLogN
//	artifacts, err := runner.Render(ctx, g, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/butterfly/pkg/butterfly"
	"github.com/matzehuels/butterfly/pkg/cache"
	"github.com/matzehuels/butterfly/pkg/errors"
	"github.com/matzehuels/butterfly/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultMaxLogN bounds logN when Options.MaxLogN is unset. Larger graphs
	// are valid but produce documents too large to be useful.
	DefaultMaxLogN = 10

	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// DefaultScale is the default PNG scale factor for rsvg conversion.
	DefaultScale = 2.0
)

// Visualization types.
const (
	// VizTypeButterfly is the native diagram: stage columns and curved links.
	VizTypeButterfly = "butterfly"
	// VizTypeNodelink is the Graphviz node-link diagram.
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeButterfly

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeButterfly: true,
	VizTypeNodelink:  true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
//
// Labels, Headings and Highlight default to false; callers apply their own
// defaults (the CLI and server read them from the config file).
type Options struct {
	// Build options
	LogN    int  `json:"log_n"`
	MaxLogN int  `json:"-"`
	Refresh bool `json:"refresh,omitempty"`

	// Layout options
	VizType string  `json:"viz_type,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Labels    bool     `json:"labels,omitempty"`
	Headings  bool     `json:"headings,omitempty"`
	Highlight bool     `json:"highlight,omitempty"`
	Radius    float64  `json:"radius,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	Scale     float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the butterfly graph.
	Graph *butterfly.Graph

	// GraphHash is the content hash of the graph JSON.
	GraphHash string

	// Layout holds node positions in frame units.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // Whether the graph came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid viz_type: %q (must be one of: butterfly, nodelink)", vizType)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates. An empty string yields [svg].
func ParseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return []string{FormatSVG}
	}
	return formats
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForBuild checks logN against MaxLogN.
func (o *Options) ValidateForBuild() error {
	if o.MaxLogN <= 0 {
		o.MaxLogN = DefaultMaxLogN
	}
	o.MaxLogN = min(o.MaxLogN, butterfly.MaxLogN)
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return errors.ValidateLogN(o.LogN, o.MaxLogN)
}

// SetRenderDefaults sets default values for layout and rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Options that do not affect a format's bytes are zeroed so that, for
// example, DOT output is shared across frame sizes.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatJSON:
	case FormatDOT:
		k.Detailed = o.Detailed
	default:
		k.VizType = o.VizType
		if o.IsNodelink() {
			k.Detailed = o.Detailed
			break
		}
		k.Width, k.Height = o.Width, o.Height
		k.Labels, k.Headings = o.Labels, o.Headings
		k.Highlight, k.Radius = o.Highlight, o.Radius
	}
	if format == FormatPNG && !o.IsNodelink() {
		k.Scale = o.Scale
	}
	return k
}
