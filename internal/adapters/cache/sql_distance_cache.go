package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Sinatabuu/bahati/internal/platform/obs"
	"github.com/Sinatabuu/bahati/internal/ports"
)

// SQLDistanceCache is the Postgres-backed travel estimate cache. Rows are
// keyed (origin, dest, bucket) and never expire: a bucket's estimate is
// assumed stable across calendar days.
type SQLDistanceCache struct {
	DB *sql.DB
}

func NewSQLDistanceCache(db *sql.DB) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db}
}

func (s *SQLDistanceCache) Get(ctx context.Context, origin, dest, bucket string) (leg ports.LegEstimate, ok bool, err error) {
	defer obs.Time(ctx, "get distance cache")(&err)

	if s.DB == nil {
		return ports.LegEstimate{}, false, errors.New("distance cache: db is nil")
	}
	if origin == "" || dest == "" || bucket == "" {
		return ports.LegEstimate{}, false, errors.New("get distance cache: origin, dest and bucket must be non-empty")
	}

	q := `
	SELECT duration_seconds, distance_meters
	FROM distance_cache
	WHERE origin = $1 AND dest = $2 AND bucket = $3;
	`

	err = s.DB.QueryRowContext(ctx, q, origin, dest, bucket).Scan(&leg.DurationSeconds, &leg.DistanceMeters)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.LegEstimate{}, false, nil
	}
	if err != nil {
		return ports.LegEstimate{}, false, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}

	return leg, true, nil
}

// Put upserts one estimate. Concurrent writers for the same key store the
// same deterministic value, so the later writer overwriting is harmless.
func (s *SQLDistanceCache) Put(ctx context.Context, origin, dest, bucket string, leg ports.LegEstimate) (err error) {
	defer obs.Time(ctx, "put distance cache")(&err)

	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if origin == "" || dest == "" || bucket == "" {
		return errors.New("insert distance cache: origin, dest and bucket must be non-empty")
	}

	q := `
	INSERT INTO distance_cache (origin, dest, bucket, duration_seconds, distance_meters, updated_at)
	VALUES ($1, $2, $3, $4, $5, now())
	ON CONFLICT (origin, dest, bucket) DO UPDATE
	SET duration_seconds = EXCLUDED.duration_seconds,
		distance_meters = EXCLUDED.distance_meters,
		updated_at = now();
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, dest, bucket, leg.DurationSeconds, leg.DistanceMeters); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q @ %s: %w", origin, dest, bucket, err)
	}

	return nil
}
