package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sinatabuu/bahati/internal/domain"
)

func generateOpts() GenerateOptions {
	return GenerateOptions{
		ServiceOpen: domain.TimeOfDay{Hour: 6},
		Location:    time.UTC,
	}
}

func TestGenerateForDayNoDrivers(t *testing.T) {
	client := testClient(1, "Ana", coords(1, 1), coords(2, 2))
	schedules := &fakeScheduleRepo{schedule: &domain.Schedule{ID: 7}}

	deps := GeneratorDeps{
		Drivers:   &fakeDriverRepo{},
		Jobs:      &fakeJobRepo{jobs: []*domain.Job{testJob(10, client, "08:00", "09:00", 10), testJob(11, client, "10:00", "11:00", 10)}},
		Schedules: schedules,
		Estimator: flatEstimator{seconds: 60},
	}

	res, err := GenerateForDay(context.Background(), deps, 1, testDay, generateOpts())
	require.NoError(t, err)

	require.Equal(t, 0, res.Created)
	require.Len(t, res.Unscheduled, 2)
	for _, u := range res.Unscheduled {
		require.Equal(t, ReasonNoDrivers, u.Reason)
	}

	// Nothing persisted when there is no one to drive.
	require.Zero(t, schedules.commitCalls)
}

func TestGenerateForDayPlacesJobs(t *testing.T) {
	ana := testClient(1, "Ana", coords(1, 1), coords(2, 2))
	ben := testClient(2, "Ben", coords(3, 3), coords(4, 4))

	driver := &domain.Driver{ID: 5, CompanyID: 1, Name: "Kim", Active: true}
	schedules := &fakeScheduleRepo{schedule: &domain.Schedule{ID: 7, CompanyID: 1}, created: true}

	deps := GeneratorDeps{
		Drivers: &fakeDriverRepo{drivers: []*domain.Driver{driver}},
		Jobs: &fakeJobRepo{jobs: []*domain.Job{
			testJob(10, ana, "08:00", "09:00", 10),
			testJob(11, ben, "10:00", "11:00", 10),
		}},
		Schedules: schedules,
		Estimator: flatEstimator{seconds: 60},
	}

	res, err := GenerateForDay(context.Background(), deps, 1, testDay, generateOpts())
	require.NoError(t, err)

	require.Equal(t, 2, res.Created)
	require.Equal(t, int64(7), res.ScheduleID)
	require.Empty(t, res.Unscheduled)
	require.Equal(t, 1, res.Metrics.DriversUsed)
	require.Equal(t, 0, res.Metrics.LateMinutes)
	require.NotEmpty(t, res.RunID)

	require.Equal(t, 1, schedules.commitCalls)
	require.ElementsMatch(t, []int64{10, 11}, schedules.committedJobIDs)
	require.Len(t, schedules.committedEntries, 2)

	e := schedules.committedEntries[0]
	require.Equal(t, int64(7), e.ScheduleID)
	require.Equal(t, int64(5), *e.DriverID)
	require.Equal(t, "Ana", e.ClientName)
	require.Equal(t, "Ana home", e.PickupAddress)
	require.Equal(t, domain.EntryScheduled, e.Status)
	require.NotNil(t, e.StartTime)
	require.Equal(t, "08:00", e.StartTime.String())
}

func TestGenerateForDayReportsNoFeasibleSlot(t *testing.T) {
	ana := testClient(1, "Ana", coords(1, 1), coords(2, 2))
	ben := testClient(2, "Ben", coords(3, 3), coords(4, 4))

	driver := &domain.Driver{ID: 5, Name: "Kim", Active: true}
	schedules := &fakeScheduleRepo{schedule: &domain.Schedule{ID: 7}, created: true}

	// Two trips squeezed into the same quarter hour with ten minute drives:
	// one driver can only honor the first.
	deps := GeneratorDeps{
		Drivers: &fakeDriverRepo{drivers: []*domain.Driver{driver}},
		Jobs: &fakeJobRepo{jobs: []*domain.Job{
			testJob(10, ana, "08:00", "08:15", 0),
			testJob(11, ben, "08:00", "08:15", 0),
		}},
		Schedules: schedules,
		Estimator: flatEstimator{seconds: 600},
	}

	res, err := GenerateForDay(context.Background(), deps, 1, testDay, generateOpts())
	require.NoError(t, err)

	require.Equal(t, 1, res.Created)
	require.Len(t, res.Unscheduled, 1)
	require.Equal(t, int64(11), res.Unscheduled[0].JobID)
	require.Equal(t, ReasonNoFeasibleSlot, res.Unscheduled[0].Reason)
	require.Equal(t, []int64{10}, schedules.committedJobIDs)
}

func TestGenerateForDaySkipsUnroutableJobs(t *testing.T) {
	located := testClient(1, "Ana", coords(1, 1), coords(2, 2))
	ungeocoded := testClient(2, "Ben", nil, nil)

	driver := &domain.Driver{ID: 5, Name: "Kim", Active: true}
	schedules := &fakeScheduleRepo{schedule: &domain.Schedule{ID: 7}, created: true}

	deps := GeneratorDeps{
		Drivers: &fakeDriverRepo{drivers: []*domain.Driver{driver}},
		Jobs: &fakeJobRepo{jobs: []*domain.Job{
			testJob(10, ungeocoded, "08:00", "09:00", 10),
			testJob(11, located, "08:00", "09:00", 10),
		}},
		Schedules: schedules,
		Estimator: flatEstimator{seconds: 60},
	}

	res, err := GenerateForDay(context.Background(), deps, 1, testDay, generateOpts())
	require.NoError(t, err)

	require.Equal(t, 1, res.Created)
	require.Len(t, res.Unscheduled, 1)
	require.Equal(t, int64(10), res.Unscheduled[0].JobID)
	require.Equal(t, ReasonInvalidCoordinates, res.Unscheduled[0].Reason)
}

func TestGenerateForDayCountsLateMinutes(t *testing.T) {
	ana := testClient(1, "Ana", coords(1, 1), coords(2, 2))
	driver := &domain.Driver{ID: 5, Name: "Kim", Active: true}
	schedules := &fakeScheduleRepo{schedule: &domain.Schedule{ID: 7}, created: true}

	deps := GeneratorDeps{
		Drivers:   &fakeDriverRepo{drivers: []*domain.Driver{driver}},
		Jobs:      &fakeJobRepo{jobs: []*domain.Job{testJob(10, ana, "08:00", "08:30", 0)}},
		Schedules: schedules,
		Estimator: flatEstimator{seconds: 600},
	}

	// Service opens at nine, forty minutes past the window end; the lateness
	// allowance admits the trip and the metric reports it.
	opts := generateOpts()
	opts.ServiceOpen = domain.TimeOfDay{Hour: 9}
	opts.MaxLatenessMin = 60

	res, err := GenerateForDay(context.Background(), deps, 1, testDay, opts)
	require.NoError(t, err)

	require.Equal(t, 1, res.Created)
	require.Empty(t, res.Unscheduled)
	require.Equal(t, 40, res.Metrics.LateMinutes)
}

func TestGenerateForDayJobExclusivity(t *testing.T) {
	ana := testClient(1, "Ana", coords(1, 1), coords(2, 2))
	ben := testClient(2, "Ben", coords(3, 3), coords(4, 4))
	cam := testClient(3, "Cam", coords(5, 5), coords(6, 6))

	kim := &domain.Driver{ID: 5, Name: "Kim", Active: true}
	luis := &domain.Driver{ID: 6, Name: "Luis", Active: true}
	schedules := &fakeScheduleRepo{schedule: &domain.Schedule{ID: 7}, created: true}

	// The first two jobs fight over the same quarter hour, forcing a split
	// across drivers; the third fits either route.
	deps := GeneratorDeps{
		Drivers: &fakeDriverRepo{drivers: []*domain.Driver{kim, luis}},
		Jobs: &fakeJobRepo{jobs: []*domain.Job{
			testJob(10, ana, "08:00", "08:15", 0),
			testJob(11, ben, "08:00", "08:15", 0),
			testJob(12, cam, "10:00", "11:00", 0),
		}},
		Schedules: schedules,
		Estimator: flatEstimator{seconds: 600},
	}

	res, err := GenerateForDay(context.Background(), deps, 1, testDay, generateOpts())
	require.NoError(t, err)

	require.Equal(t, 3, res.Created)
	require.Empty(t, res.Unscheduled)
	require.Equal(t, 2, res.Metrics.DriversUsed)

	// Each committed job appears exactly once across all drivers' entries.
	seen := make(map[int64]int)
	byDriver := make(map[int64][]int64)
	for _, e := range schedules.committedEntries {
		require.NotNil(t, e.JobID)
		require.NotNil(t, e.DriverID)
		seen[*e.JobID]++
		byDriver[*e.DriverID] = append(byDriver[*e.DriverID], *e.JobID)
	}
	require.Equal(t, map[int64]int{10: 1, 11: 1, 12: 1}, seen)

	// Equal-cost placements stay with the earlier driver in listing order.
	require.ElementsMatch(t, []int64{10, 12}, byDriver[5])
	require.ElementsMatch(t, []int64{11}, byDriver[6])
}

func TestGenerateForDayPassesOverwriteThrough(t *testing.T) {
	ana := testClient(1, "Ana", coords(1, 1), coords(2, 2))
	driver := &domain.Driver{ID: 5, Name: "Kim", Active: true}
	schedules := &fakeScheduleRepo{schedule: &domain.Schedule{ID: 7}}

	deps := GeneratorDeps{
		Drivers:   &fakeDriverRepo{drivers: []*domain.Driver{driver}},
		Jobs:      &fakeJobRepo{jobs: []*domain.Job{testJob(10, ana, "08:00", "09:00", 10)}},
		Schedules: schedules,
		Estimator: flatEstimator{seconds: 60},
	}

	opts := generateOpts()
	opts.Overwrite = true

	_, err := GenerateForDay(context.Background(), deps, 1, testDay, opts)
	require.NoError(t, err)
	require.True(t, schedules.overwrite)
}
