package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sinatabuu/bahati/internal/adapters/distance"
	"github.com/Sinatabuu/bahati/internal/domain"
)

var testDay = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // a Monday

func insertionOpts() InsertionOptions {
	return InsertionOptions{
		Day:            testDay,
		Location:       time.UTC,
		ServiceOpen:    domain.TimeOfDay{Hour: 6},
		AssumeHomeBase: true,
	}
}

func TestTryInsertEmptyRoute(t *testing.T) {
	home := domain.Coordinates{Lat: 42.60, Lng: -71.35}
	pickup := domain.Coordinates{Lat: 42.61, Lng: -71.34}
	dropoff := domain.Coordinates{Lat: 42.59, Lng: -71.30}

	est := distance.NewMockEstimator([]distance.MockLeg{
		{From: home, To: pickup, Seconds: 300},
		{From: pickup, To: dropoff, Seconds: 600},
	})

	client := testClient(1, "Ana", &pickup, &dropoff)
	job := testJob(10, client, "08:00", "08:30", 10)
	driver := &domain.Driver{ID: 1, Name: "Kim", HomeBase: &home}
	route := &domain.Route{Driver: driver}

	feasible, penalty, stops, err := TryInsert(context.Background(), est, route, job, insertionOpts())
	require.NoError(t, err)
	require.True(t, feasible)
	require.Len(t, stops, 1)

	// Arrives well before the window and waits for it to open.
	require.Equal(t, time.Date(2026, 3, 9, 6, 5, 0, 0, time.UTC), stops[0].Arrive)
	require.Equal(t, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC), stops[0].Start)
	require.Equal(t, time.Date(2026, 3, 9, 8, 20, 0, 0, time.UTC), stops[0].Depart)

	// On time, so the penalty is pure drive seconds.
	require.Equal(t, 900, penalty)
}

func TestTryInsertLatenessScoring(t *testing.T) {
	home := domain.Coordinates{Lat: 42.60, Lng: -71.35}
	pickup := domain.Coordinates{Lat: 42.61, Lng: -71.34}
	dropoff := domain.Coordinates{Lat: 42.59, Lng: -71.30}

	// Three hours to the pickup: arrival at 09:00 against an 08:30 window end.
	est := distance.NewMockEstimator([]distance.MockLeg{
		{From: home, To: pickup, Seconds: 10800},
		{From: pickup, To: dropoff, Seconds: 600},
	})

	client := testClient(1, "Ana", &pickup, &dropoff)
	job := testJob(10, client, "08:00", "08:30", 0)
	driver := &domain.Driver{ID: 1, Name: "Kim", HomeBase: &home}
	route := &domain.Route{Driver: driver}

	// Zero allowance: 30 minutes late is past the cutoff.
	opts := insertionOpts()
	feasible, _, _, err := TryInsert(context.Background(), est, route, job, opts)
	require.NoError(t, err)
	require.False(t, feasible)

	// A 45 minute allowance admits the placement but scores the full,
	// undiscounted lateness.
	opts.MaxLatenessMin = 45
	feasible, penalty, stops, err := TryInsert(context.Background(), est, route, job, opts)
	require.NoError(t, err)
	require.True(t, feasible)
	require.Len(t, stops, 1)
	require.Equal(t, 30*10_000+11400, penalty)
}

func TestTryInsertKeepsFirstMinimalPosition(t *testing.T) {
	est := flatEstimator{seconds: 100}

	existingClient := testClient(1, "Ana", coords(1, 1), coords(2, 2))
	existing := testJob(10, existingClient, "", "", 0)

	newClient := testClient(2, "Ben", coords(3, 3), coords(4, 4))
	job := testJob(11, newClient, "", "", 0)

	driver := &domain.Driver{ID: 1, Name: "Kim"}
	route := &domain.Route{Driver: driver}

	opts := insertionOpts()
	opts.AssumeHomeBase = false

	feasible, _, stops, err := TryInsert(context.Background(), est, route, existing, opts)
	require.NoError(t, err)
	require.True(t, feasible)
	route.Stops = stops

	// Flat legs make every insertion position cost the same; the earliest
	// position must win the tie.
	feasible, penalty, stops, err := TryInsert(context.Background(), est, route, job, opts)
	require.NoError(t, err)
	require.True(t, feasible)
	require.Len(t, stops, 2)
	require.Equal(t, int64(11), stops[0].Job.ID)
	require.Equal(t, int64(10), stops[1].Job.ID)
	require.Equal(t, 400, penalty)
}

func TestTryInsertReplaysDownstreamWindows(t *testing.T) {
	est := flatEstimator{seconds: 600}

	clientA := testClient(1, "Ana", coords(1, 1), coords(2, 2))
	jobA := testJob(10, clientA, "08:00", "08:10", 0)

	clientB := testClient(2, "Ben", coords(3, 3), coords(4, 4))
	jobB := testJob(11, clientB, "08:00", "08:10", 0)

	driver := &domain.Driver{ID: 1, Name: "Kim"}
	route := &domain.Route{Driver: driver}

	opts := insertionOpts()
	opts.AssumeHomeBase = false

	feasible, _, stops, err := TryInsert(context.Background(), est, route, jobA, opts)
	require.NoError(t, err)
	require.True(t, feasible)
	route.Stops = stops

	// Either order pushes the second job past its window end, so no
	// position is feasible.
	feasible, _, _, err = TryInsert(context.Background(), est, route, jobB, opts)
	require.NoError(t, err)
	require.False(t, feasible)
}

func TestTryInsertUnroutableJobIsNotAnError(t *testing.T) {
	est := flatEstimator{seconds: 100}

	client := testClient(1, "Ana", nil, coords(2, 2))
	job := testJob(10, client, "08:00", "08:30", 10)
	route := &domain.Route{Driver: &domain.Driver{ID: 1}}

	feasible, penalty, stops, err := TryInsert(context.Background(), est, route, job, insertionOpts())
	require.NoError(t, err)
	require.False(t, feasible)
	require.Nil(t, stops)
	require.Equal(t, infeasiblePenalty, penalty)
}

func TestTryInsertAnchorsExistingRouteAtFirstPickup(t *testing.T) {
	first := domain.Coordinates{Lat: 1, Lng: 1}
	home := domain.Coordinates{Lat: 9, Lng: 9}

	existingClient := testClient(1, "Ana", &first, coords(2, 2))
	existing := testJob(10, existingClient, "", "", 0)

	newClient := testClient(2, "Ben", coords(3, 3), coords(4, 4))
	job := testJob(11, newClient, "", "", 0)

	// No leg leaves the home base: an estimate from there would error out,
	// proving the replay starts at the first stop's pickup instead.
	est := distance.NewMockEstimator([]distance.MockLeg{
		{From: first, To: first, Seconds: 60},
		{From: first, To: *existingClient.Dropoff.Coords, Seconds: 60},
		{From: *existingClient.Dropoff.Coords, To: *newClient.Pickup.Coords, Seconds: 60},
		{From: *newClient.Pickup.Coords, To: *newClient.Dropoff.Coords, Seconds: 60},
		{From: first, To: *newClient.Pickup.Coords, Seconds: 60},
		{From: *newClient.Dropoff.Coords, To: first, Seconds: 60},
	})

	driver := &domain.Driver{ID: 1, Name: "Kim", HomeBase: &home}
	route := &domain.Route{
		Driver: driver,
		Stops: []domain.Stop{{
			Job:         existing,
			StartCoords: first,
			EndCoords:   *existingClient.Dropoff.Coords,
		}},
	}

	feasible, _, stops, err := TryInsert(context.Background(), est, route, job, insertionOpts())
	require.NoError(t, err)
	require.True(t, feasible)
	require.Len(t, stops, 2)
}
