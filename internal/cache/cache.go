package cache

import (
	"context"
	"strings"
)

// Cache fronts expensive on-demand recomputation in the API layer.
// Population is at-most-once per key per TTL window; duplicate concurrent
// computation on a miss is acceptable because the computations are
// read-only and idempotent.
type Cache interface {
	// Get retrieves a cached value into target. Returns false on a miss;
	// a miss is not an error.
	Get(ctx context.Context, key string, target any) (bool, error)

	// Set stores a value under key for the cache's TTL.
	Set(ctx context.Context, key string, value any) error

	// Close releases the backing resources.
	Close() error
}

// Key builds a standardized cache key, e.g. "mavericks:119:limit=10".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
