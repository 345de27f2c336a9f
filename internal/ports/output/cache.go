package output

import "context"

// CacheInvalidator drops a cached catalog after its content changed.
type CacheInvalidator interface {
	Remove(ctx context.Context, key string) error
}

// Cache stores serialized catalogs for the read path.
type Cache interface {
	CacheInvalidator
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
