// Package cache provides the metadata response cache used to spare
// upstream API quota. Entries are JSON-encoded values with a shared TTL.
package cache

import "context"

// Cache is the read/write port. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get decodes the cached value for key into dest and reports whether
	// a live entry was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
