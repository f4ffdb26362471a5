package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/ports"
)

const (
	// Sentinel for placements no scoring should ever beat.
	infeasiblePenalty = 1_000_000_000

	// One minute of window lateness outweighs any realistic amount of drive
	// time, so any on-time placement beats any late one; drive seconds only
	// break ties.
	latenessWeight = 10_000
)

// InsertionOptions carries the per-run policy knobs for the insertion search.
type InsertionOptions struct {
	// Day the route is being built for (date component only).
	Day time.Time
	// Location resolves window and service times; nil means time.Local.
	Location *time.Location
	// ServiceOpen is when routes may start and the default window start for
	// jobs without one.
	ServiceOpen domain.TimeOfDay
	// MaxLatenessMin is a hard feasibility cutoff past a job's window end.
	// It does not discount the lateness penalty: a job accepted late still
	// scores its full lateness.
	MaxLatenessMin int
	// AssumeHomeBase anchors an empty route at the driver's home base when
	// one is configured.
	AssumeHomeBase bool
}

func (o InsertionOptions) loc() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.Local
}

// legCursor tracks the vehicle's simulated position and clock while a
// candidate timeline is replayed.
type legCursor struct {
	coords domain.Coordinates
	at     time.Time
}

// advance walks the cursor through one job: drive to the pickup, wait for
// the window to open, serve, drive to the dropoff. ok=false means the job's
// window cannot be met within the lateness allowance; err is reserved for
// estimator failures.
func (c *legCursor) advance(
	ctx context.Context,
	est ports.LegEstimator,
	job *domain.Job,
	pickup, dropoff domain.Coordinates,
	opts InsertionOptions,
) (stop domain.Stop, lateMin, driveSec int, ok bool, err error) {
	toPickup, err := est.Estimate(ctx, c.coords, pickup, c.at)
	if err != nil {
		return domain.Stop{}, 0, 0, false, fmt.Errorf("leg to pickup: %w", err)
	}
	arrive := c.at.Add(time.Duration(toPickup.DurationSeconds) * time.Second)

	windowStart := opts.ServiceOpen.At(opts.Day, opts.loc())
	if job.WindowStart != nil {
		windowStart = job.WindowStart.At(opts.Day, opts.loc())
	}
	start := arrive
	if start.Before(windowStart) {
		start = windowStart
	}

	if job.WindowEnd != nil {
		windowEnd := job.WindowEnd.At(opts.Day, opts.loc())
		cutoff := windowEnd.Add(time.Duration(opts.MaxLatenessMin) * time.Minute)
		if start.After(cutoff) {
			return domain.Stop{}, 0, 0, false, nil
		}
		if start.After(windowEnd) {
			// Lateness is scored against the unclamped window end.
			lateMin = int(start.Sub(windowEnd) / time.Minute)
		}
	}

	depart := start.Add(time.Duration(job.DurationMinutes) * time.Minute)
	toDropoff, err := est.Estimate(ctx, pickup, dropoff, depart)
	if err != nil {
		return domain.Stop{}, 0, 0, false, fmt.Errorf("leg to dropoff: %w", err)
	}
	arriveDropoff := depart.Add(time.Duration(toDropoff.DurationSeconds) * time.Second)

	c.coords = dropoff
	c.at = arriveDropoff

	stop = domain.Stop{
		Job:         job,
		Arrive:      arrive,
		Start:       start,
		Depart:      arriveDropoff,
		StartCoords: pickup,
		EndCoords:   dropoff,
	}
	return stop, lateMin, toPickup.DurationSeconds + toDropoff.DurationSeconds, true, nil
}

// TryInsert searches every insertion position in the driver's current route
// for the cheapest feasible placement of job.
//
// For each position k the whole candidate timeline is replayed forward from
// service open, so downstream stops re-check their own windows against the
// shifted schedule. The candidate's penalty is
// lateness_minutes*10000 + drive_seconds; the first position reaching the
// minimum wins ties.
//
// The route's start anchor is deliberately simple: an existing route starts
// wherever its first pickup is, an empty route starts at the driver's home
// base (when configured and AssumeHomeBase is set), else at the new job's
// own pickup. A true depot-anchored chain would change scheduling outcomes,
// so the simplification is kept.
//
// A job without usable coordinates is infeasible, not an error; the error
// return is reserved for estimator/storage failures.
func TryInsert(
	ctx context.Context,
	est ports.LegEstimator,
	route *domain.Route,
	job *domain.Job,
	opts InsertionOptions,
) (feasible bool, penalty int, stops []domain.Stop, err error) {
	if !job.Routable() {
		return false, infeasiblePenalty, nil, nil
	}
	pickup := *job.Client.Pickup.Coords
	dropoff := *job.Client.Dropoff.Coords

	start := pickup
	if len(route.Stops) > 0 {
		start = route.Stops[0].StartCoords
	} else if opts.AssumeHomeBase && route.Driver != nil && route.Driver.HomeBase != nil && route.Driver.HomeBase.Valid() {
		start = *route.Driver.HomeBase
	}

	serviceOpen := opts.ServiceOpen.At(opts.Day, opts.loc())
	original := route.Stops
	n := len(original)

	bestPenalty := infeasiblePenalty
	var bestPlan []domain.Stop

	for k := 0; k <= n; k++ {
		plan := make([]domain.Stop, 0, n+1)
		cursor := legCursor{coords: start, at: serviceOpen}
		latenessTotal := 0
		driveTotal := 0
		feasibleK := true

		for i := 0; i <= n; i++ {
			if i == k {
				stop, late, drive, ok, err := cursor.advance(ctx, est, job, pickup, dropoff, opts)
				if err != nil {
					return false, infeasiblePenalty, nil, fmt.Errorf("try insert job %d: %w", job.ID, err)
				}
				if !ok {
					feasibleK = false
					break
				}
				plan = append(plan, stop)
				latenessTotal += late
				driveTotal += drive
			}

			if i < n {
				prev := original[i]
				stop, late, drive, ok, err := cursor.advance(ctx, est, prev.Job, prev.StartCoords, prev.EndCoords, opts)
				if err != nil {
					return false, infeasiblePenalty, nil, fmt.Errorf("try insert job %d: replay stop %d: %w", job.ID, i, err)
				}
				if !ok {
					feasibleK = false
					break
				}
				plan = append(plan, stop)
				latenessTotal += late
				driveTotal += drive
			}
		}

		if !feasibleK {
			continue
		}

		p := latenessTotal*latenessWeight + driveTotal
		if p < bestPenalty {
			bestPenalty = p
			bestPlan = plan
		}
	}

	if bestPlan == nil {
		return false, infeasiblePenalty, nil, nil
	}
	return true, bestPenalty, bestPlan, nil
}
