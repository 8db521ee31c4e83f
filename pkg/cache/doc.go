// Package cache stores built graphs and rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used with --no-cache
//
// All backends implement [Cache]. Entries carry a TTL; a zero TTL never
// expires.
//
// # Keys
//
// A [Keyer] derives cache keys from the inputs that determine an entry.
// Graphs are keyed by their stage count, artifacts by the hash of the graph
// JSON plus every render option that changes the output bytes:
//
//	keyer := cache.NewDefaultKeyer()
//	gk := keyer.GraphKey(4)
//	ak := keyer.ArtifactKey(cache.Hash(graphJSON), cache.ArtifactKeyOpts{Format: "svg"})
//
// [ScopedKeyer] prefixes every key, so several deployments can share one
// Redis database.
//
// # Retries
//
// Network failures from remote backends are wrapped with [Retryable] and
// retried by [RetryWithBackoff].
package cache
