package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized graphs and artifacts.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per entry kind.
const (
	// TTLGraph applies to built graphs. Graphs depend only on logN, so
	// they can live long.
	TTLGraph = 30 * 24 * time.Hour

	// TTLArtifact applies to rendered outputs.
	TTLArtifact = 7 * 24 * time.Hour
)
