package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type CompanySeed struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Timezone string `json:"timezone"`
}

type ClientSeed struct {
	Slug           string   `json:"slug"`
	Name           string   `json:"name"`
	PickupAddress  string   `json:"pickup_address"`
	PickupCity     string   `json:"pickup_city"`
	PickupLat      *float64 `json:"pickup_lat"`
	PickupLng      *float64 `json:"pickup_lng"`
	DropoffAddress string   `json:"dropoff_address"`
	DropoffCity    string   `json:"dropoff_city"`
	DropoffLat     *float64 `json:"dropoff_lat"`
	DropoffLng     *float64 `json:"dropoff_lng"`
	Notes          string   `json:"notes"`
}

type DriverSeed struct {
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Phone           string   `json:"phone"`
	Active          *bool    `json:"active"`
	HomeBaseAddress string   `json:"home_base_address"`
	HomeBaseLat     *float64 `json:"home_base_lat"`
	HomeBaseLng     *float64 `json:"home_base_lng"`
}

type VehicleSeed struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Plate    string `json:"plate"`
	Capacity int    `json:"capacity"`
}

type TemplateEntrySeed struct {
	Position       int    `json:"position"`
	Client         string `json:"client"`
	Driver         string `json:"driver"`
	Vehicle        string `json:"vehicle"`
	StartTime      string `json:"start_time"`
	PickupAddress  string `json:"pickup_address"`
	PickupCity     string `json:"pickup_city"`
	DropoffAddress string `json:"dropoff_address"`
	DropoffCity    string `json:"dropoff_city"`
	Notes          string `json:"notes"`
}

type TemplateSeed struct {
	Name string `json:"name"`
	// Weekday uses Monday=0 through Sunday=6.
	Weekday int `json:"weekday"`
	Active  *bool               `json:"active"`
	Notes   string              `json:"notes"`
	Entries []TemplateEntrySeed `json:"entries"`
}

type JobSeed struct {
	Client          string `json:"client"`
	Date            string `json:"date"`
	WindowStart     string `json:"window_start"`
	WindowEnd       string `json:"window_end"`
	DurationMinutes int    `json:"duration_minutes"`
	Priority        int    `json:"priority"`
}

type SeedFile struct {
	Company   CompanySeed    `json:"company"`
	Clients   []ClientSeed   `json:"clients"`
	Drivers   []DriverSeed   `json:"drivers"`
	Vehicles  []VehicleSeed  `json:"vehicles"`
	Templates []TemplateSeed `json:"templates"`
	Jobs      []JobSeed      `json:"jobs"`
}

// SeedFromJSON populates the database from a JSON fixture. Companies,
// clients, drivers, vehicles and templates are upserted on their slugs so
// reseeding is safe; jobs are only inserted when no matching row exists.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	if db == nil {
		return errors.New("seed: DB is nil")
	}

	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}
	if strings.TrimSpace(data.Company.Slug) == "" || strings.TrimSpace(data.Company.Name) == "" {
		return errors.New("seed: company name and slug are required")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	companyID, err := seedCompany(tx, data.Company)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedClients(tx, companyID, data.Clients); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedDrivers(tx, companyID, data.Drivers); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedVehicles(tx, companyID, data.Vehicles); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedTemplates(tx, companyID, data.Templates); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := seedJobs(tx, companyID, data.Jobs); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}

func seedCompany(tx *sql.Tx, c CompanySeed) (int64, error) {
	tz := c.Timezone
	if tz == "" {
		tz = "America/New_York"
	}
	q := `
	INSERT INTO companies (name, slug, timezone)
	VALUES ($1, $2, $3)
	ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, timezone = EXCLUDED.timezone
	RETURNING id;
	`
	var id int64
	if err := tx.QueryRow(q, c.Name, c.Slug, tz).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert company %q: %w", c.Slug, err)
	}
	return id, nil
}

func seedClients(tx *sql.Tx, companyID int64, clients []ClientSeed) error {
	q := `
	INSERT INTO clients (
		company_id, slug, name,
		pickup_address, pickup_city, pickup_lat, pickup_lng,
		dropoff_address, dropoff_city, dropoff_lat, dropoff_lng,
		notes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (company_id, slug) DO UPDATE SET
		name = EXCLUDED.name,
		pickup_address = EXCLUDED.pickup_address,
		pickup_city = EXCLUDED.pickup_city,
		pickup_lat = EXCLUDED.pickup_lat,
		pickup_lng = EXCLUDED.pickup_lng,
		dropoff_address = EXCLUDED.dropoff_address,
		dropoff_city = EXCLUDED.dropoff_city,
		dropoff_lat = EXCLUDED.dropoff_lat,
		dropoff_lng = EXCLUDED.dropoff_lng,
		notes = EXCLUDED.notes,
		deleted = FALSE;
	`
	stmt, err := tx.Prepare(q)
	if err != nil {
		return fmt.Errorf("prepare client upsert: %w", err)
	}
	defer stmt.Close()

	for i, c := range clients {
		if strings.TrimSpace(c.Slug) == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("client at index %d: slug and name are required", i+1)
		}
		_, err := stmt.Exec(
			companyID, c.Slug, c.Name,
			c.PickupAddress, c.PickupCity, c.PickupLat, c.PickupLng,
			c.DropoffAddress, c.DropoffCity, c.DropoffLat, c.DropoffLng,
			c.Notes,
		)
		if err != nil {
			return fmt.Errorf("upsert client %q: %w", c.Slug, err)
		}
	}
	return nil
}

func seedDrivers(tx *sql.Tx, companyID int64, drivers []DriverSeed) error {
	q := `
	INSERT INTO drivers (
		company_id, slug, name, phone, active,
		home_base_address, home_base_lat, home_base_lng
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (company_id, slug) DO UPDATE SET
		name = EXCLUDED.name,
		phone = EXCLUDED.phone,
		active = EXCLUDED.active,
		home_base_address = EXCLUDED.home_base_address,
		home_base_lat = EXCLUDED.home_base_lat,
		home_base_lng = EXCLUDED.home_base_lng,
		deleted = FALSE;
	`
	stmt, err := tx.Prepare(q)
	if err != nil {
		return fmt.Errorf("prepare driver upsert: %w", err)
	}
	defer stmt.Close()

	for i, d := range drivers {
		if strings.TrimSpace(d.Slug) == "" || strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("driver at index %d: slug and name are required", i+1)
		}
		active := true
		if d.Active != nil {
			active = *d.Active
		}
		_, err := stmt.Exec(
			companyID, d.Slug, d.Name, d.Phone, active,
			d.HomeBaseAddress, d.HomeBaseLat, d.HomeBaseLng,
		)
		if err != nil {
			return fmt.Errorf("upsert driver %q: %w", d.Slug, err)
		}
	}
	return nil
}

func seedVehicles(tx *sql.Tx, companyID int64, vehicles []VehicleSeed) error {
	q := `
	INSERT INTO vehicles (company_id, slug, name, plate, capacity)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (company_id, slug) DO UPDATE SET
		name = EXCLUDED.name,
		plate = EXCLUDED.plate,
		capacity = EXCLUDED.capacity,
		deleted = FALSE;
	`
	stmt, err := tx.Prepare(q)
	if err != nil {
		return fmt.Errorf("prepare vehicle upsert: %w", err)
	}
	defer stmt.Close()

	for i, v := range vehicles {
		if strings.TrimSpace(v.Slug) == "" || strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("vehicle at index %d: slug and name are required", i+1)
		}
		capacity := v.Capacity
		if capacity <= 0 {
			capacity = 4
		}
		if _, err := stmt.Exec(companyID, v.Slug, v.Name, v.Plate, capacity); err != nil {
			return fmt.Errorf("upsert vehicle %q: %w", v.Slug, err)
		}
	}
	return nil
}

func seedTemplates(tx *sql.Tx, companyID int64, templates []TemplateSeed) error {
	upsert := `
	INSERT INTO schedule_templates (company_id, name, weekday, active, notes)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (company_id, weekday, name) DO UPDATE SET
		active = EXCLUDED.active,
		notes = EXCLUDED.notes
	RETURNING id;
	`
	insertEntry := `
	INSERT INTO schedule_template_entries (
		template_id, position,
		client_id, driver_id, vehicle_id,
		client_name, driver_name, vehicle_name,
		start_time,
		pickup_address, pickup_city, dropoff_address, dropoff_city,
		notes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`

	for i, t := range templates {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("template at index %d: name is required", i+1)
		}
		if t.Weekday < 0 || t.Weekday > 6 {
			return fmt.Errorf("template %q: weekday %d out of range", t.Name, t.Weekday)
		}
		active := true
		if t.Active != nil {
			active = *t.Active
		}

		var templateID int64
		err := tx.QueryRow(upsert, companyID, t.Name, t.Weekday, active, t.Notes).Scan(&templateID)
		if err != nil {
			return fmt.Errorf("upsert template %q: %w", t.Name, err)
		}

		// Reseeding replaces the entry list wholesale.
		if _, err := tx.Exec(`DELETE FROM schedule_template_entries WHERE template_id = $1;`, templateID); err != nil {
			return fmt.Errorf("template %q: clear entries: %w", t.Name, err)
		}

		for j, e := range t.Entries {
			clientID, err := lookupBySlugOrName(tx, "clients", companyID, e.Client)
			if err != nil {
				return fmt.Errorf("template %q entry %d: %w", t.Name, j+1, err)
			}
			driverID, err := lookupBySlugOrName(tx, "drivers", companyID, e.Driver)
			if err != nil {
				return fmt.Errorf("template %q entry %d: %w", t.Name, j+1, err)
			}
			vehicleID, err := lookupBySlugOrName(tx, "vehicles", companyID, e.Vehicle)
			if err != nil {
				return fmt.Errorf("template %q entry %d: %w", t.Name, j+1, err)
			}

			position := e.Position
			if position == 0 {
				position = j + 1
			}
			_, err = tx.Exec(insertEntry,
				templateID, position,
				clientID, driverID, vehicleID,
				e.Client, e.Driver, e.Vehicle,
				nullableTime(e.StartTime),
				e.PickupAddress, e.PickupCity, e.DropoffAddress, e.DropoffCity,
				e.Notes,
			)
			if err != nil {
				return fmt.Errorf("template %q entry %d: insert: %w", t.Name, j+1, err)
			}
		}
	}
	return nil
}

func seedJobs(tx *sql.Tx, companyID int64, jobs []JobSeed) error {
	insert := `
	INSERT INTO jobs (company_id, client_id, date, window_start, window_end, duration_minutes, priority)
	SELECT $1, $2, $3, $4, $5, $6, $7
	WHERE NOT EXISTS (
		SELECT 1 FROM jobs
		WHERE company_id = $1 AND client_id = $2 AND date = $3
		AND window_start IS NOT DISTINCT FROM $4
	);
	`
	for i, j := range jobs {
		if strings.TrimSpace(j.Client) == "" || strings.TrimSpace(j.Date) == "" {
			return fmt.Errorf("job at index %d: client and date are required", i+1)
		}
		clientID, err := lookupBySlugOrName(tx, "clients", companyID, j.Client)
		if err != nil {
			return fmt.Errorf("job at index %d: %w", i+1, err)
		}
		if clientID == nil {
			return fmt.Errorf("job at index %d: unknown client %q", i+1, j.Client)
		}
		priority := j.Priority
		if priority == 0 {
			priority = 100
		}
		_, err = tx.Exec(insert,
			companyID, *clientID, j.Date,
			nullableTime(j.WindowStart), nullableTime(j.WindowEnd),
			j.DurationMinutes, priority,
		)
		if err != nil {
			return fmt.Errorf("job at index %d: insert: %w", i+1, err)
		}
	}
	return nil
}

// lookupBySlugOrName resolves a seed reference against slug first, then
// name. Blank references resolve to nil, which seeds a name-only entry.
func lookupBySlugOrName(tx *sql.Tx, table string, companyID int64, ref string) (*int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	q := `
	SELECT id FROM ` + table + `
	WHERE company_id = $1 AND (slug = $2 OR lower(name) = lower($2)) AND NOT deleted
	ORDER BY id
	LIMIT 1;
	`
	var id int64
	err := tx.QueryRow(q, companyID, ref).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s %q: %w", table, ref, err)
	}
	return &id, nil
}

func nullableTime(v string) any {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return v
}
