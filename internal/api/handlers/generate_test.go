package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sinatabuu/bahati/internal/api/dto"
	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/services"
)

type stubDrivers struct{}

func (stubDrivers) ListActive(context.Context, int64) ([]*domain.Driver, error) { return nil, nil }
func (stubDrivers) FindByName(context.Context, int64, string) (*domain.Driver, error) {
	return nil, nil
}

type stubJobs struct{}

func (stubJobs) ListPendingForDay(context.Context, int64, time.Time) ([]*domain.Job, error) {
	return nil, nil
}

type stubClients struct{}

func (stubClients) FindByID(context.Context, int64, int64) (*domain.Client, error) {
	return nil, nil
}
func (stubClients) FindByName(context.Context, int64, string) (*domain.Client, error) {
	return nil, nil
}

type stubVehicles struct{}

func (stubVehicles) FindByName(context.Context, int64, string) (*domain.Vehicle, error) {
	return nil, nil
}

type stubTemplates struct{}

func (stubTemplates) ListActiveForWeekday(context.Context, int64, time.Weekday) ([]*domain.Template, error) {
	return nil, nil
}

type stubSchedules struct{}

func (stubSchedules) GetOrCreate(context.Context, int64, time.Time) (*domain.Schedule, bool, error) {
	return &domain.Schedule{ID: 1}, true, nil
}
func (stubSchedules) ListEntriesForDay(context.Context, int64, time.Time) ([]*domain.ScheduleEntry, error) {
	return nil, nil
}
func (stubSchedules) CommitDayAssignments(_ context.Context, _, _ int64, entries []*domain.ScheduleEntry, _ []int64, _ bool) (int, error) {
	return len(entries), nil
}
func (stubSchedules) ReplaceEntries(_ context.Context, _, _ int64, entries []*domain.ScheduleEntry) (int, error) {
	return len(entries), nil
}

func newGenerateHandler() *GenerateHandler {
	return &GenerateHandler{
		Generator: services.GeneratorDeps{
			Drivers:   stubDrivers{},
			Jobs:      stubJobs{},
			Schedules: stubSchedules{},
		},
		Materializer: services.MaterializerDeps{
			Templates: stubTemplates{},
			Schedules: stubSchedules{},
			Clients:   stubClients{},
			Drivers:   stubDrivers{},
			Vehicles:  stubVehicles{},
		},
		CompanyID:   1,
		ServiceOpen: domain.TimeOfDay{Hour: 6},
		Location:    time.UTC,
	}
}

func postGenerate(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	newGenerateHandler().Generate(rec, req)
	return rec
}

func TestGenerateHeuristicEchoesDate(t *testing.T) {
	rec := postGenerate(t, `{"date":"2026-08-31"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "2026-08-31", res.Date)
	require.NotEmpty(t, res.RunID)
	require.Zero(t, res.Created)
}

func TestGenerateTemplatesEchoesDate(t *testing.T) {
	// A Saturday: materialization reports the no-op rather than erroring.
	rec := postGenerate(t, `{"date":"2026-08-29","mode":"templates"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.MaterializeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.False(t, res.OK)
	require.Equal(t, "2026-08-29", res.Date)
	require.Contains(t, res.Message, "Saturday")
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name, body string
	}{
		{"missing date", `{}`},
		{"malformed date", `{"date":"08/31/2026"}`},
		{"unknown mode", `{"date":"2026-08-31","mode":"magic"}`},
		{"unknown field", `{"date":"2026-08-31","bogus":true}`},
		{"trailing object", `{"date":"2026-08-31"}{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postGenerate(t, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGenerateRejectsNonPost(t *testing.T) {
	rec := httptest.NewRecorder()
	newGenerateHandler().Generate(rec, httptest.NewRequest(http.MethodGet, "/generate", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}
