// Package cache stores rendered export artifacts keyed by graph content,
// so re-exporting an unchanged flowchart skips the render entirely.
//
// Keys are derived from a SHA-256 hash of the serialized graph plus the
// render options, which makes entries self-invalidating: any mutation
// changes the hash and the stale artifact is simply never asked for again.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for artifact cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL (zero means no expiry).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKey builds the cache key for a rendered export artifact.
// graphHash is Hash() of the serialized project document; format and
// scale distinguish variants of the same graph.
func ArtifactKey(graphHash, format string, scale float64) string {
	return hashKey("artifact", graphHash, format, scale)
}
