package distance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/ports"
)

// CachedEstimator implements LegEstimator with a persistent read-through
// cache in front of a haversine constant-speed estimate.
//
// The miss path is a stand-in for a real road-network routing API: swapping
// in OSRM or similar only replaces the fallback computation, the cache keys
// and the caller contract stay the same.
type CachedEstimator struct {
	cache ports.DistanceCache
}

// NewCachedEstimator builds an estimator over the given cache. A nil cache
// is allowed; estimates are then recomputed on every call.
func NewCachedEstimator(c ports.DistanceCache) *CachedEstimator {
	return &CachedEstimator{cache: c}
}

func (e *CachedEstimator) Estimate(ctx context.Context, origin, dest domain.Coordinates, when time.Time) (ports.LegEstimate, error) {
	if !origin.Valid() {
		return ports.LegEstimate{}, fmt.Errorf("estimate leg: origin %v: %w", origin, domain.ErrInvalidCoordinate)
	}
	if !dest.Valid() {
		return ports.LegEstimate{}, fmt.Errorf("estimate leg: dest %v: %w", dest, domain.ErrInvalidCoordinate)
	}

	originKey := origin.Key()
	destKey := dest.Key()
	bucket := BucketFor(when)

	if e.cache != nil {
		leg, ok, err := e.cache.Get(ctx, originKey, destKey, bucket)
		if err != nil {
			return ports.LegEstimate{}, fmt.Errorf("estimate leg: read cache: %w", err)
		}
		if ok {
			return leg, nil
		}
	}

	meters := haversineMeters(origin, dest)
	leg := ports.LegEstimate{
		DurationSeconds: constantSpeedSeconds(meters),
		DistanceMeters:  meters,
	}

	if e.cache != nil {
		// A lost write only costs a recomputation next time.
		if err := e.cache.Put(ctx, originKey, destKey, bucket, leg); err != nil {
			log.Warn().Err(err).
				Str("origin", originKey).
				Str("dest", destKey).
				Str("bucket", bucket).
				Msg("distance cache write failed")
		}
	}

	return leg, nil
}

// BucketFor quantizes a local time into its quarter-hour traffic bucket
// label, e.g. minute 37 -> ":30". Estimates repeat by time of day, not by
// date, so the label carries no date component.
func BucketFor(when time.Time) string {
	return fmt.Sprintf("%02d:%02d", when.Hour(), when.Minute()/15*15)
}
