package distance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sinatabuu/bahati/internal/adapters/cache"
	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/ports"
)

func TestBucketFor(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		hour, minute int
		want         string
	}{
		{8, 37, "08:30"},
		{8, 0, "08:00"},
		{8, 14, "08:00"},
		{8, 15, "08:15"},
		{0, 7, "00:00"},
		{23, 59, "23:45"},
	}
	for _, tc := range cases {
		when := time.Date(day.Year(), day.Month(), day.Day(), tc.hour, tc.minute, 42, 0, time.UTC)
		require.Equal(t, tc.want, BucketFor(when), "%02d:%02d", tc.hour, tc.minute)
	}
}

func TestEstimateShortHopFloor(t *testing.T) {
	est := NewCachedEstimator(nil)

	// Roughly eleven meters apart; still costs a minute door to door.
	origin := domain.Coordinates{Lat: 42.6, Lng: -71.35}
	dest := domain.Coordinates{Lat: 42.6001, Lng: -71.35}

	leg, err := est.Estimate(context.Background(), origin, dest, time.Now())
	require.NoError(t, err)
	require.Equal(t, 60, leg.DurationSeconds)
	require.Less(t, leg.DistanceMeters, 100)
}

func TestEstimateConstantSpeed(t *testing.T) {
	est := NewCachedEstimator(nil)

	// One degree of latitude is about 111 km; at 30 km/h that is around
	// 3.7 hours of driving.
	origin := domain.Coordinates{Lat: 42, Lng: -71}
	dest := domain.Coordinates{Lat: 43, Lng: -71}

	leg, err := est.Estimate(context.Background(), origin, dest, time.Now())
	require.NoError(t, err)
	require.InDelta(t, 111195, leg.DistanceMeters, 100)
	require.InDelta(t, 13343, leg.DurationSeconds, 20)

	// Same inputs, same answer.
	again, err := est.Estimate(context.Background(), origin, dest, time.Now())
	require.NoError(t, err)
	require.Equal(t, leg, again)
}

func TestEstimatePopulatesCache(t *testing.T) {
	c := cache.NewMemoryDistanceCache()
	est := NewCachedEstimator(c)

	origin := domain.Coordinates{Lat: 42, Lng: -71}
	dest := domain.Coordinates{Lat: 42.1, Lng: -71.1}
	when := time.Date(2026, 3, 9, 8, 20, 0, 0, time.UTC)

	leg, err := est.Estimate(context.Background(), origin, dest, when)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	cached, ok, err := c.Get(context.Background(), origin.Key(), dest.Key(), "08:15")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, leg, cached)
}

func TestEstimateReturnsCachedLegVerbatim(t *testing.T) {
	c := cache.NewMemoryDistanceCache()

	origin := domain.Coordinates{Lat: 42, Lng: -71}
	dest := domain.Coordinates{Lat: 42.1, Lng: -71.1}
	when := time.Date(2026, 3, 9, 8, 20, 0, 0, time.UTC)

	// A value no haversine computation would produce, so a hit is provable.
	planted := ports.LegEstimate{DurationSeconds: 12345, DistanceMeters: 67890}
	require.NoError(t, c.Put(context.Background(), origin.Key(), dest.Key(), "08:15", planted))

	est := NewCachedEstimator(c)
	leg, err := est.Estimate(context.Background(), origin, dest, when)
	require.NoError(t, err)
	require.Equal(t, planted, leg)

	// A different quarter-hour bucket misses and recomputes.
	later := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	leg, err = est.Estimate(context.Background(), origin, dest, later)
	require.NoError(t, err)
	require.NotEqual(t, planted, leg)
}

func TestEstimateRejectsInvalidCoordinates(t *testing.T) {
	est := NewCachedEstimator(nil)

	_, err := est.Estimate(context.Background(), domain.Coordinates{Lat: 91, Lng: 0}, domain.Coordinates{Lat: 42, Lng: -71}, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidCoordinate)

	_, err = est.Estimate(context.Background(), domain.Coordinates{Lat: 42, Lng: -71}, domain.Coordinates{Lat: 0, Lng: 200}, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidCoordinate)
}

func TestMockEstimatorServesFixedLegs(t *testing.T) {
	a := domain.Coordinates{Lat: 1, Lng: 1}
	b := domain.Coordinates{Lat: 2, Lng: 2}

	est := NewMockEstimator([]MockLeg{{From: a, To: b, Meters: 1000, Seconds: 300}})

	leg, err := est.Estimate(context.Background(), a, b, time.Now())
	require.NoError(t, err)
	require.Equal(t, ports.LegEstimate{DistanceMeters: 1000, DurationSeconds: 300}, leg)

	_, err = est.Estimate(context.Background(), b, a, time.Now())
	require.Error(t, err)
}
