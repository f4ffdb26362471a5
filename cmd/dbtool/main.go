package main

import (
	"context"
	"database/sql"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Sinatabuu/bahati/internal/adapters/repositories"
	"github.com/Sinatabuu/bahati/internal/config"
	"github.com/Sinatabuu/bahati/internal/platform/db"
)

// dbtool initializes the schema and loads the seed fixture. Safe to rerun:
// the schema is idempotent and seeds upsert.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	conn, err := db.Open(context.Background(), cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer conn.Close()

	if err := initAndSeed(conn, cfg.SeedPath); err != nil {
		log.Fatal().Err(err).Msg("init and seed failed")
	}
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(conn); err != nil {
		return err
	}

	log.Info().Str("path", seedPath).Msg("seeding database")
	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return err
	}

	log.Info().Msg("seeding complete")
	return nil
}
