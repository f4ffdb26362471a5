package ports

import "context"

// Read-through cache for travel estimates, keyed by rounded coordinate keys
// plus a quarter-hour time bucket. Writes are idempotent upserts of a
// deterministic value, so concurrent misses for the same key are safe.
type DistanceCache interface {
	// Get returns the cached estimate and whether the key was present.
	Get(ctx context.Context, origin, dest, bucket string) (LegEstimate, bool, error)
	// Put upserts the estimate for the key.
	Put(ctx context.Context, origin, dest, bucket string, leg LegEstimate) error
}
