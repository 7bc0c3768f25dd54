package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that were already accepted
type IdempotencyStore interface {
	// MarkProcessed records key with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether key is currently marked
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Forget removes key so a failed request can be retried with it
	Forget(ctx context.Context, key string) error

	Close() error
}
