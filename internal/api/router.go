package api

import (
	"net/http"
	"time"

	"github.com/Sinatabuu/bahati/internal/api/handlers"
	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/ports"
	"github.com/Sinatabuu/bahati/internal/services"
)

// RouterDeps carries everything the HTTP surface needs. Handlers stay
// unaware of concrete adapters.
type RouterDeps struct {
	Drivers   ports.DriverRepository
	Clients   ports.ClientRepository
	Vehicles  ports.VehicleRepository
	Jobs      ports.JobRepository
	Templates ports.TemplateRepository
	Schedules ports.ScheduleRepository
	Estimator ports.LegEstimator

	CompanyID      int64
	ServiceOpen    domain.TimeOfDay
	MaxLatenessMin int
	AssumeHomeBase bool
	Location       *time.Location
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	genHandler := &handlers.GenerateHandler{
		Generator: services.GeneratorDeps{
			Drivers:   deps.Drivers,
			Jobs:      deps.Jobs,
			Schedules: deps.Schedules,
			Estimator: deps.Estimator,
		},
		Materializer: services.MaterializerDeps{
			Templates: deps.Templates,
			Schedules: deps.Schedules,
			Clients:   deps.Clients,
			Drivers:   deps.Drivers,
			Vehicles:  deps.Vehicles,
		},
		CompanyID:      deps.CompanyID,
		ServiceOpen:    deps.ServiceOpen,
		MaxLatenessMin: deps.MaxLatenessMin,
		AssumeHomeBase: deps.AssumeHomeBase,
		Location:       deps.Location,
	}
	schedHandler := &handlers.ScheduleHandler{
		Schedules: deps.Schedules,
		CompanyID: deps.CompanyID,
		Location:  deps.Location,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/generate", genHandler.Generate)
	mux.HandleFunc("/schedule", schedHandler.Day)

	return loggingMiddleware(mux)
}
