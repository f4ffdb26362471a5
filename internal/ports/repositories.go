package ports

import (
	"context"
	"time"

	"github.com/Sinatabuu/bahati/internal/domain"
)

// Repository ports over the external data store. All queries are
// company-scoped and exclude soft-deleted rows.
//
// FindBy* lookups return (nil, nil) when no row matches: a failed name
// lookup during materialization leaves the field unassigned, it is not an
// error.

type DriverRepository interface {
	// ListActive returns active drivers ordered by name.
	ListActive(ctx context.Context, companyID int64) ([]*domain.Driver, error)
	FindByName(ctx context.Context, companyID int64, name string) (*domain.Driver, error)
}

type ClientRepository interface {
	FindByID(ctx context.Context, companyID, id int64) (*domain.Client, error)
	FindByName(ctx context.Context, companyID int64, name string) (*domain.Client, error)
}

type VehicleRepository interface {
	FindByName(ctx context.Context, companyID int64, name string) (*domain.Vehicle, error)
}

type JobRepository interface {
	// ListPendingForDay returns pending jobs for the date with their client
	// records attached, ordered by (window_start, priority); jobs with no
	// window sort last.
	ListPendingForDay(ctx context.Context, companyID int64, day time.Time) ([]*domain.Job, error)
}

type TemplateRepository interface {
	// ListActiveForWeekday returns active templates with entries attached,
	// entries in template-defined order.
	ListActiveForWeekday(ctx context.Context, companyID int64, weekday time.Weekday) ([]*domain.Template, error)
}

type ScheduleRepository interface {
	// GetOrCreate returns the schedule for (company, date), creating it when
	// absent. The second result reports whether a row was created.
	GetOrCreate(ctx context.Context, companyID int64, day time.Time) (*domain.Schedule, bool, error)

	// ListEntriesForDay returns the day's entries ordered by start_time, id.
	ListEntriesForDay(ctx context.Context, companyID int64, day time.Time) ([]*domain.ScheduleEntry, error)

	// CommitDayAssignments persists a generation run in one transaction:
	// optionally deletes the schedule's existing entries, bulk-inserts the
	// new ones, and flips the placed jobs to scheduled. On error nothing is
	// written.
	CommitDayAssignments(ctx context.Context, companyID, scheduleID int64, entries []*domain.ScheduleEntry, jobIDs []int64, overwrite bool) (int, error)

	// ReplaceEntries deletes the entries owned by (company, schedule) and
	// inserts the given ones in a single transaction.
	ReplaceEntries(ctx context.Context, companyID, scheduleID int64, entries []*domain.ScheduleEntry) (int, error)
}
