package ports

import (
	"context"
	"time"

	"github.com/Sinatabuu/bahati/internal/domain"
)

// Travel distance and duration for one leg between two points.
type LegEstimate struct {
	DurationSeconds int
	DistanceMeters  int
}

// Contract for estimating travel between two coordinates at a given time of
// day. Implementations may be cache-backed heuristics or real routing
// engines; callers must not care which.
type LegEstimator interface {
	// Estimate returns travel duration/distance from origin to dest when
	// departing at `when` (local time).
	Estimate(ctx context.Context, origin, dest domain.Coordinates, when time.Time) (LegEstimate, error)
}
