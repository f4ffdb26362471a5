package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/platform/obs"
	"github.com/Sinatabuu/bahati/internal/ports"
)

// MaterializerDeps are the collaborators template expansion needs.
type MaterializerDeps struct {
	Templates ports.TemplateRepository
	Schedules ports.ScheduleRepository
	Clients   ports.ClientRepository
	Drivers   ports.DriverRepository
	Vehicles  ports.VehicleRepository
}

type MaterializeOptions struct {
	// Force rebuilds an existing schedule's entries. Only entries owned by
	// the (company, schedule) pair are deleted.
	Force bool
}

// MaterializeResult distinguishes "ran" from "did not run": OK=false with a
// message is a reported no-op (weekend, no templates), never an error.
type MaterializeResult struct {
	OK         bool
	Created    int
	ScheduleID int64
	Message    string
}

// MaterializeForDate expands the weekday's active templates into concrete
// schedule entries for (company, date).
//
// Weekends are rejected outright: the service only runs Monday-Friday.
// The operation is idempotent by default; a second call for an existing
// schedule is a no-op unless Force is set.
func MaterializeForDate(
	ctx context.Context,
	deps MaterializerDeps,
	companyID int64,
	day time.Time,
	opts MaterializeOptions,
) (res *MaterializeResult, err error) {
	defer obs.Time(ctx, "materialize day")(&err)

	weekday := day.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return &MaterializeResult{
			OK:      false,
			Message: fmt.Sprintf("%s is a %s; no schedules generated", day.Format("2006-01-02"), weekday),
		}, nil
	}

	templates, err := deps.Templates.ListActiveForWeekday(ctx, companyID, weekday)
	if err != nil {
		return nil, fmt.Errorf("materialize: list templates: %w", err)
	}
	if len(templates) == 0 {
		return &MaterializeResult{
			OK:      false,
			Message: fmt.Sprintf("no active templates for %s", weekday),
		}, nil
	}

	sched, created, err := deps.Schedules.GetOrCreate(ctx, companyID, day)
	if err != nil {
		return nil, fmt.Errorf("materialize: get or create schedule: %w", err)
	}

	if !created && !opts.Force {
		return &MaterializeResult{
			OK:         true,
			ScheduleID: sched.ID,
			Message:    fmt.Sprintf("schedule already exists for %s; not regenerating (use force to overwrite)", day.Format("2006-01-02")),
		}, nil
	}

	var entries []*domain.ScheduleEntry
	for _, tmpl := range templates {
		for _, te := range tmpl.Entries {
			entry, err := buildTemplateEntry(ctx, deps, companyID, sched.ID, tmpl, te)
			if err != nil {
				return nil, fmt.Errorf("materialize: template %d entry %d: %w", tmpl.ID, te.ID, err)
			}
			entries = append(entries, entry)
		}
	}

	total, err := deps.Schedules.ReplaceEntries(ctx, companyID, sched.ID, entries)
	if err != nil {
		return nil, fmt.Errorf("materialize: replace entries: %w", err)
	}

	log.Info().
		Int64("company_id", companyID).
		Str("date", day.Format("2006-01-02")).
		Int64("schedule_id", sched.ID).
		Int("created", total).
		Bool("force", opts.Force).
		Msg("schedule materialized from templates")

	return &MaterializeResult{
		OK:         true,
		Created:    total,
		ScheduleID: sched.ID,
		Message:    fmt.Sprintf("materialized %d entries into schedule %d for %s", total, sched.ID, day.Format("2006-01-02")),
	}, nil
}

// buildTemplateEntry resolves one template line into a schedule entry.
// References resolve FK first, then case-insensitive name lookup, else stay
// unassigned. Addresses fall back entry override -> client canonical -> "".
func buildTemplateEntry(
	ctx context.Context,
	deps MaterializerDeps,
	companyID, scheduleID int64,
	tmpl *domain.Template,
	te *domain.TemplateEntry,
) (*domain.ScheduleEntry, error) {
	client, err := resolveClient(ctx, deps, companyID, te)
	if err != nil {
		return nil, err
	}

	driverID := te.DriverID
	if driverID == nil && te.DriverName != "" {
		d, err := deps.Drivers.FindByName(ctx, companyID, te.DriverName)
		if err != nil {
			return nil, fmt.Errorf("resolve driver %q: %w", te.DriverName, err)
		}
		if d != nil {
			driverID = &d.ID
		}
	}

	vehicleID := te.VehicleID
	if vehicleID == nil && te.VehicleName != "" {
		v, err := deps.Vehicles.FindByName(ctx, companyID, te.VehicleName)
		if err != nil {
			return nil, fmt.Errorf("resolve vehicle %q: %w", te.VehicleName, err)
		}
		if v != nil {
			vehicleID = &v.ID
		}
	}

	entry := &domain.ScheduleEntry{
		ScheduleID: scheduleID,
		CompanyID:  companyID,
		DriverID:   driverID,
		VehicleID:  vehicleID,
		StartTime:  te.StartTime,
		Status:     domain.EntryPlanned,
		Notes:      tagNotes(te.Notes, tmpl.ID),
	}

	entry.ClientName = strings.TrimSpace(te.ClientName)
	entry.PickupAddress = te.PickupAddress
	entry.PickupCity = te.PickupCity
	entry.DropoffAddress = te.DropoffAddress
	entry.DropoffCity = te.DropoffCity

	if client != nil {
		entry.ClientID = &client.ID
		if entry.ClientName == "" {
			entry.ClientName = client.Name
		}
		if entry.PickupAddress == "" {
			entry.PickupAddress = client.Pickup.Address
		}
		if entry.PickupCity == "" {
			entry.PickupCity = client.Pickup.City
		}
		if entry.DropoffAddress == "" {
			entry.DropoffAddress = client.Dropoff.Address
		}
		if entry.DropoffCity == "" {
			entry.DropoffCity = client.Dropoff.City
		}
		entry.PickupCoords = client.Pickup.Coords
		entry.DropoffCoords = client.Dropoff.Coords
	}

	return entry, nil
}

func resolveClient(ctx context.Context, deps MaterializerDeps, companyID int64, te *domain.TemplateEntry) (*domain.Client, error) {
	if te.ClientID != nil {
		c, err := deps.Clients.FindByID(ctx, companyID, *te.ClientID)
		if err != nil {
			return nil, fmt.Errorf("resolve client %d: %w", *te.ClientID, err)
		}
		return c, nil
	}
	if name := strings.TrimSpace(te.ClientName); name != "" {
		c, err := deps.Clients.FindByName(ctx, companyID, name)
		if err != nil {
			return nil, fmt.Errorf("resolve client %q: %w", name, err)
		}
		return c, nil
	}
	return nil, nil
}

func tagNotes(notes string, templateID int64) string {
	tag := domain.TemplateNoteTag(templateID)
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return tag
	}
	return notes + "\n" + tag
}
