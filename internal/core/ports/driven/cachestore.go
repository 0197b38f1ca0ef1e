package driven

import "context"

// CacheStore is the cached project-listing surface the upsert service
// invalidates. Deletion must be visible to subsequent reads before Delete
// returns, so a read immediately after a successful upsert never observes
// the pre-upsert listing.
type CacheStore interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, keys ...string) error
}
