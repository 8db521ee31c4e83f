package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several servers or environments share one Redis
// database.
//
// Example usage:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//	staging.GraphKey(4) // "staging:graph:4"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for graph caching.
func (k *ScopedKeyer) GraphKey(logN int) string {
	return k.prefix + k.inner.GraphKey(logN)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
