package services

import (
	"context"
	"strings"
	"time"

	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/ports"
)

// flatEstimator charges the same drive time for every leg, including
// zero-length ones. Good enough for tests that only care about feasibility
// and tie-breaking.
type flatEstimator struct{ seconds int }

func (f flatEstimator) Estimate(context.Context, domain.Coordinates, domain.Coordinates, time.Time) (ports.LegEstimate, error) {
	return ports.LegEstimate{DurationSeconds: f.seconds, DistanceMeters: f.seconds * 8}, nil
}

type fakeDriverRepo struct {
	drivers []*domain.Driver
}

func (f *fakeDriverRepo) ListActive(context.Context, int64) ([]*domain.Driver, error) {
	return f.drivers, nil
}

func (f *fakeDriverRepo) FindByName(_ context.Context, _ int64, name string) (*domain.Driver, error) {
	for _, d := range f.drivers {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return nil, nil
}

type fakeJobRepo struct {
	jobs []*domain.Job
}

func (f *fakeJobRepo) ListPendingForDay(context.Context, int64, time.Time) ([]*domain.Job, error) {
	return f.jobs, nil
}

type fakeClientRepo struct {
	clients []*domain.Client
}

func (f *fakeClientRepo) FindByID(_ context.Context, _ int64, id int64) (*domain.Client, error) {
	for _, c := range f.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeClientRepo) FindByName(_ context.Context, _ int64, name string) (*domain.Client, error) {
	for _, c := range f.clients {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

type fakeVehicleRepo struct {
	vehicles []*domain.Vehicle
}

func (f *fakeVehicleRepo) FindByName(_ context.Context, _ int64, name string) (*domain.Vehicle, error) {
	for _, v := range f.vehicles {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return nil, nil
}

type fakeTemplateRepo struct {
	templates []*domain.Template
}

func (f *fakeTemplateRepo) ListActiveForWeekday(context.Context, int64, time.Weekday) ([]*domain.Template, error) {
	return f.templates, nil
}

type fakeScheduleRepo struct {
	schedule *domain.Schedule
	created  bool

	commitCalls      int
	committedEntries []*domain.ScheduleEntry
	committedJobIDs  []int64
	overwrite        bool

	replaceCalls    int
	replacedEntries []*domain.ScheduleEntry
}

func (f *fakeScheduleRepo) GetOrCreate(context.Context, int64, time.Time) (*domain.Schedule, bool, error) {
	return f.schedule, f.created, nil
}

func (f *fakeScheduleRepo) ListEntriesForDay(context.Context, int64, time.Time) ([]*domain.ScheduleEntry, error) {
	return f.committedEntries, nil
}

func (f *fakeScheduleRepo) CommitDayAssignments(_ context.Context, _, _ int64, entries []*domain.ScheduleEntry, jobIDs []int64, overwrite bool) (int, error) {
	f.commitCalls++
	f.committedEntries = entries
	f.committedJobIDs = jobIDs
	f.overwrite = overwrite
	return len(entries), nil
}

func (f *fakeScheduleRepo) ReplaceEntries(_ context.Context, _, _ int64, entries []*domain.ScheduleEntry) (int, error) {
	f.replaceCalls++
	f.replacedEntries = entries
	return len(entries), nil
}

func tod(s string) *domain.TimeOfDay {
	t, err := domain.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func coords(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}

func testClient(id int64, name string, pickup, dropoff *domain.Coordinates) *domain.Client {
	return &domain.Client{
		ID:        id,
		CompanyID: 1,
		Name:      name,
		Pickup:    domain.Location{Address: name + " home", City: "Lowell", Coords: pickup},
		Dropoff:   domain.Location{Address: name + " program", City: "Chelmsford", Coords: dropoff},
	}
}

func testJob(id int64, client *domain.Client, winStart, winEnd string, durMin int) *domain.Job {
	j := &domain.Job{
		ID:              id,
		CompanyID:       1,
		ClientID:        client.ID,
		Client:          client,
		DurationMinutes: durMin,
		Priority:        100,
		Status:          domain.JobPending,
	}
	if winStart != "" {
		j.WindowStart = tod(winStart)
	}
	if winEnd != "" {
		j.WindowEnd = tod(winEnd)
	}
	return j
}
