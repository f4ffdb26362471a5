package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Sinatabuu/bahati/internal/adapters/cache"
	"github.com/Sinatabuu/bahati/internal/adapters/distance"
	"github.com/Sinatabuu/bahati/internal/adapters/repositories"
	"github.com/Sinatabuu/bahati/internal/api"
	"github.com/Sinatabuu/bahati/internal/config"
	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/platform/db"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, cached estimator) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("cannot load timezone")
	}

	serviceOpen, err := domain.ParseTimeOfDay(cfg.ServiceOpen)
	if err != nil {
		log.Fatal().Err(err).Str("service_open", cfg.ServiceOpen).Msg("cannot parse SERVICE_OPEN")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer conn.Close()

	if err := repositories.InitSchema(conn); err != nil {
		log.Fatal().Err(err).Msg("cannot initialize schema")
	}

	estimator := distance.NewCachedEstimator(cache.NewSQLDistanceCache(conn))

	router := api.NewRouter(api.RouterDeps{
		Drivers:        repositories.NewSQLDriverRepository(conn),
		Clients:        repositories.NewSQLClientRepository(conn),
		Vehicles:       repositories.NewSQLVehicleRepository(conn),
		Jobs:           repositories.NewSQLJobRepository(conn),
		Templates:      repositories.NewSQLTemplateRepository(conn),
		Schedules:      repositories.NewSQLScheduleRepository(conn),
		Estimator:      estimator,
		CompanyID:      cfg.CompanyID,
		ServiceOpen:    serviceOpen,
		MaxLatenessMin: cfg.MaxLatenessMin,
		AssumeHomeBase: cfg.AssumeHomeBase,
		Location:       loc,
	})

	log.Info().Str("addr", cfg.HTTPServerAddress).Msg("server listening")
	srv := &http.Server{
		Addr:              cfg.HTTPServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
