package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sinatabuu/bahati/internal/api/dto"
	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/platform/obs"
	"github.com/Sinatabuu/bahati/internal/ports"
)

// ScheduleHandler exposes the read-only day view.
type ScheduleHandler struct {
	Schedules ports.ScheduleRepository
	CompanyID int64
	Location  *time.Location
}

func (h *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	loc := h.Location
	if loc == nil {
		loc = time.Local
	}

	day := time.Now().In(loc)
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be formatted as 2006-01-02")
			return
		}
		day = parsed
	}

	entries, err := h.Schedules.ListEntriesForDay(r.Context(), h.CompanyID, day)
	if err != nil {
		log.Error().Err(err).Str("req_id", obs.RequestID(r.Context())).Msg("list day entries failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.DayScheduleResponse{
		Date:    day.Format("2006-01-02"),
		Entries: make([]dto.ScheduleEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		res.Entries = append(res.Entries, entryResponse(e))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func entryResponse(e *domain.ScheduleEntry) dto.ScheduleEntryResponse {
	out := dto.ScheduleEntryResponse{
		ID:             e.ID,
		JobID:          e.JobID,
		DriverID:       e.DriverID,
		VehicleID:      e.VehicleID,
		ClientID:       e.ClientID,
		ClientName:     e.ClientName,
		PickupAddress:  e.PickupAddress,
		PickupCity:     e.PickupCity,
		DropoffAddress: e.DropoffAddress,
		DropoffCity:    e.DropoffCity,
		Status:         string(e.Status),
		Notes:          e.Notes,
	}
	if e.StartTime != nil {
		s := e.StartTime.String()
		out.StartTime = &s
	}
	if e.EndTime != nil {
		s := e.EndTime.String()
		out.EndTime = &s
	}
	if e.PickupCoords != nil {
		out.PickupLat = &e.PickupCoords.Lat
		out.PickupLng = &e.PickupCoords.Lng
	}
	if e.DropoffCoords != nil {
		out.DropoffLat = &e.DropoffCoords.Lat
		out.DropoffLng = &e.DropoffCoords.Lng
	}
	return out
}
