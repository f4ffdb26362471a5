package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the Postgres schema when absent. Statements are
// idempotent so the server can run it on every boot.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			slug TEXT NOT NULL UNIQUE,
			timezone TEXT NOT NULL DEFAULT 'America/New_York'
		);`,

		`CREATE TABLE IF NOT EXISTS clients (
			id BIGSERIAL PRIMARY KEY,
			company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			pickup_address TEXT NOT NULL DEFAULT '',
			pickup_city TEXT NOT NULL DEFAULT '',
			pickup_lat DOUBLE PRECISION,
			pickup_lng DOUBLE PRECISION,
			dropoff_address TEXT NOT NULL DEFAULT '',
			dropoff_city TEXT NOT NULL DEFAULT '',
			dropoff_lat DOUBLE PRECISION,
			dropoff_lng DOUBLE PRECISION,
			notes TEXT NOT NULL DEFAULT '',
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (company_id, slug)
		);`,

		`CREATE TABLE IF NOT EXISTS drivers (
			id BIGSERIAL PRIMARY KEY,
			company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			home_base_address TEXT NOT NULL DEFAULT '',
			home_base_lat DOUBLE PRECISION,
			home_base_lng DOUBLE PRECISION,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (company_id, slug)
		);`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGSERIAL PRIMARY KEY,
			company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			plate TEXT NOT NULL DEFAULT '',
			capacity INTEGER NOT NULL DEFAULT 4,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (company_id, slug)
		);`,

		`CREATE TABLE IF NOT EXISTS jobs (
			id BIGSERIAL PRIMARY KEY,
			company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			client_id BIGINT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			window_start TIME,
			window_end TIME,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			priority INTEGER NOT NULL DEFAULT 100,
			status TEXT NOT NULL DEFAULT 'pending'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_company_date_status
		ON jobs (company_id, date, status);`,

		`CREATE TABLE IF NOT EXISTS schedules (
			id BIGSERIAL PRIMARY KEY,
			company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			UNIQUE (company_id, date)
		);`,

		`CREATE TABLE IF NOT EXISTS schedule_entries (
			id BIGSERIAL PRIMARY KEY,
			schedule_id BIGINT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
			company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			job_id BIGINT REFERENCES jobs(id) ON DELETE SET NULL,
			driver_id BIGINT REFERENCES drivers(id) ON DELETE SET NULL,
			vehicle_id BIGINT REFERENCES vehicles(id) ON DELETE SET NULL,
			client_id BIGINT REFERENCES clients(id) ON DELETE SET NULL,
			client_name TEXT NOT NULL DEFAULT '',
			start_time TIME,
			end_time TIME,
			pickup_address TEXT NOT NULL DEFAULT '',
			pickup_city TEXT NOT NULL DEFAULT '',
			pickup_lat DOUBLE PRECISION,
			pickup_lng DOUBLE PRECISION,
			dropoff_address TEXT NOT NULL DEFAULT '',
			dropoff_city TEXT NOT NULL DEFAULT '',
			dropoff_lat DOUBLE PRECISION,
			dropoff_lng DOUBLE PRECISION,
			status TEXT NOT NULL DEFAULT 'scheduled',
			notes TEXT NOT NULL DEFAULT '',
			deleted BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_company_schedule_start
		ON schedule_entries (company_id, schedule_id, start_time);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_company_driver_start
		ON schedule_entries (company_id, driver_id, start_time);`,

		`CREATE TABLE IF NOT EXISTS schedule_templates (
			id BIGSERIAL PRIMARY KEY,
			company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			weekday INTEGER NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			notes TEXT NOT NULL DEFAULT '',
			UNIQUE (company_id, weekday, name)
		);`,

		`CREATE TABLE IF NOT EXISTS schedule_template_entries (
			id BIGSERIAL PRIMARY KEY,
			template_id BIGINT NOT NULL REFERENCES schedule_templates(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			client_id BIGINT REFERENCES clients(id) ON DELETE SET NULL,
			driver_id BIGINT REFERENCES drivers(id) ON DELETE SET NULL,
			vehicle_id BIGINT REFERENCES vehicles(id) ON DELETE SET NULL,
			client_name TEXT NOT NULL DEFAULT '',
			driver_name TEXT NOT NULL DEFAULT '',
			vehicle_name TEXT NOT NULL DEFAULT '',
			start_time TIME,
			pickup_address TEXT NOT NULL DEFAULT '',
			pickup_city TEXT NOT NULL DEFAULT '',
			dropoff_address TEXT NOT NULL DEFAULT '',
			dropoff_city TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_template_entries_template_position
		ON schedule_template_entries (template_id, position);`,

		`CREATE TABLE IF NOT EXISTS distance_cache (
			origin TEXT NOT NULL,
			dest TEXT NOT NULL,
			bucket TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL,
			distance_meters INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (origin, dest, bucket)
		);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
