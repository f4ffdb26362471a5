package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/platform/obs"
	"github.com/Sinatabuu/bahati/internal/ports"
)

// Reasons a job ends a generation run without a placement.
const (
	ReasonNoDrivers          = "no_drivers"
	ReasonNoFeasibleSlot     = "no_feasible_slot"
	ReasonInvalidCoordinates = "invalid_coordinates"
)

type UnscheduledJob struct {
	JobID  int64  `json:"job_id"`
	Reason string `json:"reason"`
}

type GenerationMetrics struct {
	LateMinutes int `json:"late_minutes"`
	DriversUsed int `json:"drivers_used"`
}

type GenerationResult struct {
	RunID       string
	Created     int
	ScheduleID  int64
	Unscheduled []UnscheduledJob
	Metrics     GenerationMetrics
}

// GeneratorDeps are the collaborators a generation run needs.
type GeneratorDeps struct {
	Drivers   ports.DriverRepository
	Jobs      ports.JobRepository
	Schedules ports.ScheduleRepository
	Estimator ports.LegEstimator
}

type GenerateOptions struct {
	// Overwrite deletes the schedule's existing entries before committing.
	Overwrite      bool
	MaxLatenessMin int
	AssumeHomeBase bool
	ServiceOpen    domain.TimeOfDay
	Location       *time.Location
}

// GenerateForDay assigns the day's pending jobs to active drivers with the
// cheapest-insertion search and persists the outcome in one transaction.
//
// Jobs are placed greedily in (window_start, priority) order: earlier slots
// are scarcer and higher-priority jobs must not be bumped by later greedy
// placements. Per-job infeasibility is reported, never raised; only missing
// resources and storage failures end the run.
func GenerateForDay(
	ctx context.Context,
	deps GeneratorDeps,
	companyID int64,
	day time.Time,
	opts GenerateOptions,
) (res *GenerationResult, err error) {
	defer obs.Time(ctx, "generate day")(&err)

	runID := uuid.NewString()
	logger := log.With().
		Str("run_id", runID).
		Int64("company_id", companyID).
		Str("date", day.Format("2006-01-02")).
		Logger()

	drivers, err := deps.Drivers.ListActive(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("generate day: list active drivers: %w", err)
	}

	jobs, err := deps.Jobs.ListPendingForDay(ctx, companyID, day)
	if err != nil {
		return nil, fmt.Errorf("generate day: list pending jobs: %w", err)
	}

	res = &GenerationResult{RunID: runID}

	if len(drivers) == 0 {
		for _, j := range jobs {
			res.Unscheduled = append(res.Unscheduled, UnscheduledJob{JobID: j.ID, Reason: ReasonNoDrivers})
		}
		logger.Warn().Int("jobs", len(jobs)).Msg("no active drivers, nothing scheduled")
		return res, nil
	}

	iopts := InsertionOptions{
		Day:            day,
		Location:       opts.Location,
		ServiceOpen:    opts.ServiceOpen,
		MaxLatenessMin: opts.MaxLatenessMin,
		AssumeHomeBase: opts.AssumeHomeBase,
	}

	routes := make(map[int64]*domain.Route, len(drivers))
	for _, d := range drivers {
		routes[d.ID] = &domain.Route{Driver: d}
	}

	lateTotal := 0
	for _, job := range jobs {
		if !job.Routable() {
			res.Unscheduled = append(res.Unscheduled, UnscheduledJob{JobID: job.ID, Reason: ReasonInvalidCoordinates})
			logger.Debug().Int64("job_id", job.ID).Msg("job has no usable coordinates")
			continue
		}

		var bestDriverID int64
		bestPenalty := infeasiblePenalty
		var bestPlan []domain.Stop
		found := false

		for _, d := range drivers {
			feasible, penalty, plan, err := TryInsert(ctx, deps.Estimator, routes[d.ID], job, iopts)
			if err != nil {
				return nil, fmt.Errorf("generate day: job %d on driver %d: %w", job.ID, d.ID, err)
			}
			if feasible && (!found || penalty < bestPenalty) {
				found = true
				bestDriverID = d.ID
				bestPenalty = penalty
				bestPlan = plan
			}
		}

		if !found {
			res.Unscheduled = append(res.Unscheduled, UnscheduledJob{JobID: job.ID, Reason: ReasonNoFeasibleSlot})
			continue
		}

		routes[bestDriverID].Stops = bestPlan
		lateTotal += bestPenalty / latenessWeight
	}

	sched, _, err := deps.Schedules.GetOrCreate(ctx, companyID, day)
	if err != nil {
		return nil, fmt.Errorf("generate day: get or create schedule: %w", err)
	}

	var entries []*domain.ScheduleEntry
	var jobIDs []int64
	driversUsed := 0
	for _, d := range drivers {
		r := routes[d.ID]
		if len(r.Stops) == 0 {
			continue
		}
		driversUsed++
		for i := range r.Stops {
			entries = append(entries, entryFromStop(companyID, sched.ID, d, &r.Stops[i]))
			jobIDs = append(jobIDs, r.Stops[i].Job.ID)
		}
	}

	created, err := deps.Schedules.CommitDayAssignments(ctx, companyID, sched.ID, entries, jobIDs, opts.Overwrite)
	if err != nil {
		return nil, fmt.Errorf("generate day: commit assignments: %w", err)
	}

	res.Created = created
	res.ScheduleID = sched.ID
	res.Metrics = GenerationMetrics{LateMinutes: lateTotal, DriversUsed: driversUsed}

	logger.Info().
		Int("created", created).
		Int("unscheduled", len(res.Unscheduled)).
		Int("late_minutes", lateTotal).
		Int("drivers_used", driversUsed).
		Msg("day generation finished")

	return res, nil
}

// entryFromStop freezes one placed stop into a persistable schedule entry.
func entryFromStop(companyID, scheduleID int64, driver *domain.Driver, stop *domain.Stop) *domain.ScheduleEntry {
	job := stop.Job
	start := domain.TimeOfDayFrom(stop.Start)
	end := domain.TimeOfDayFrom(stop.Depart)
	startCoords := stop.StartCoords
	endCoords := stop.EndCoords

	e := &domain.ScheduleEntry{
		ScheduleID:    scheduleID,
		CompanyID:     companyID,
		JobID:         &job.ID,
		DriverID:      &driver.ID,
		ClientID:      &job.ClientID,
		StartTime:     &start,
		EndTime:       &end,
		PickupCoords:  &startCoords,
		DropoffCoords: &endCoords,
		Status:        domain.EntryScheduled,
	}
	if job.Client != nil {
		e.ClientName = job.Client.Name
		e.PickupAddress = job.Client.Pickup.Address
		e.PickupCity = job.Client.Pickup.City
		e.DropoffAddress = job.Client.Dropoff.Address
		e.DropoffCity = job.Client.Dropoff.City
	}
	return e
}
