package cache

import "strconv"

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey returns the key of the graph built for logN.
	GraphKey(logN int) string
	// ArtifactKey returns the key of an artifact rendered from the graph
	// whose JSON hashes to graphHash.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every render option that changes artifact bytes.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	VizType   string  `json:"viz_type"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Labels    bool    `json:"labels"`
	Headings  bool    `json:"headings"`
	Highlight bool    `json:"highlight"`
	Radius    float64 `json:"radius"`
	Detailed  bool    `json:"detailed"`
	Scale     float64 `json:"scale"`
}

// Key prefixes of the default scheme. Stores that support prefix scans
// clear the cache by these.
const (
	PrefixGraph    = "graph:"
	PrefixArtifact = "artifact:"
)

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns "graph:<logN>". Graphs are fully determined by logN.
func (DefaultKeyer) GraphKey(logN int) string {
	return PrefixGraph + strconv.Itoa(logN)
}

// ArtifactKey returns "artifact:<sha256(graphHash, opts)>".
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
