package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sinatabuu/bahati/internal/api/dto"
	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/platform/obs"
	"github.com/Sinatabuu/bahati/internal/services"
)

// GenerateHandler triggers schedule generation for a single day. It
// coordinates the two planners behind one endpoint: the insertion heuristic
// over pending jobs and the weekday template materializer.
type GenerateHandler struct {
	Generator    services.GeneratorDeps
	Materializer services.MaterializerDeps

	CompanyID      int64
	ServiceOpen    domain.TimeOfDay
	MaxLatenessMin int
	AssumeHomeBase bool
	Location       *time.Location
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.GenerateRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if strings.TrimSpace(req.Date) == "" {
		writeError(w, r, http.StatusBadRequest, "date is required")
		return
	}
	day, err := time.ParseInLocation("2006-01-02", req.Date, h.loc())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be formatted as 2006-01-02")
		return
	}

	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = "heuristic"
	}

	switch mode {
	case "heuristic":
		h.generateHeuristic(w, r, day, req.Overwrite)
	case "templates":
		h.generateFromTemplates(w, r, day, req.Force)
	default:
		writeError(w, r, http.StatusBadRequest, "mode must be heuristic or templates")
	}
}

func (h *GenerateHandler) generateHeuristic(w http.ResponseWriter, r *http.Request, day time.Time, overwrite bool) {
	opts := services.GenerateOptions{
		Overwrite:      overwrite,
		MaxLatenessMin: h.MaxLatenessMin,
		AssumeHomeBase: h.AssumeHomeBase,
		ServiceOpen:    h.ServiceOpen,
		Location:       h.loc(),
	}

	res, err := services.GenerateForDay(r.Context(), h.Generator, h.CompanyID, day, opts)
	if err != nil {
		log.Error().Err(err).Str("req_id", obs.RequestID(r.Context())).Msg("day generation failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	out := dto.GenerateResponse{
		RunID:       res.RunID,
		Date:        day.Format("2006-01-02"),
		ScheduleID:  res.ScheduleID,
		Created:     res.Created,
		Unscheduled: make([]dto.UnscheduledJobResponse, 0, len(res.Unscheduled)),
		Metrics: dto.GenerationMetricsResponse{
			LateMinutes: res.Metrics.LateMinutes,
			DriversUsed: res.Metrics.DriversUsed,
		},
	}
	for _, u := range res.Unscheduled {
		out.Unscheduled = append(out.Unscheduled, dto.UnscheduledJobResponse{JobID: u.JobID, Reason: u.Reason})
	}

	writeJSON(w, r, http.StatusOK, out)
}

func (h *GenerateHandler) generateFromTemplates(w http.ResponseWriter, r *http.Request, day time.Time, force bool) {
	res, err := services.MaterializeForDate(r.Context(), h.Materializer, h.CompanyID, day, services.MaterializeOptions{Force: force})
	if err != nil {
		log.Error().Err(err).Str("req_id", obs.RequestID(r.Context())).Msg("template materialization failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.MaterializeResponse{
		OK:         res.OK,
		Date:       day.Format("2006-01-02"),
		ScheduleID: res.ScheduleID,
		Created:    res.Created,
		Message:    res.Message,
	})
}

func (h *GenerateHandler) loc() *time.Location {
	if h.Location != nil {
		return h.Location
	}
	return time.Local
}
