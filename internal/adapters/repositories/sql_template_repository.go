package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sinatabuu/bahati/internal/domain"
)

// Postgres-backed implementation of the TemplateRepository port.
type SQLTemplateRepository struct{ DB *sql.DB }

func NewSQLTemplateRepository(db *sql.DB) *SQLTemplateRepository {
	return &SQLTemplateRepository{DB: db}
}

// weekdayColumn maps time.Weekday (Sunday=0) onto the stored convention
// (Monday=0, as the templates were imported).
func weekdayColumn(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func (s *SQLTemplateRepository) ListActiveForWeekday(ctx context.Context, companyID int64, weekday time.Weekday) ([]*domain.Template, error) {
	if s.DB == nil {
		return nil, errors.New("template repository: DB is nil")
	}

	q := `
	SELECT id, company_id, name, weekday, active, notes
	FROM schedule_templates
	WHERE company_id = $1 AND weekday = $2 AND active
	ORDER BY name, id;
	`
	rows, err := s.DB.QueryContext(ctx, q, companyID, weekdayColumn(weekday))
	if err != nil {
		return nil, fmt.Errorf("list templates: query schedule_templates table: %w", err)
	}
	defer rows.Close()

	templates := make([]*domain.Template, 0, 8)
	for rows.Next() {
		var t domain.Template
		var wd int
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &wd, &t.Active, &t.Notes); err != nil {
			return nil, fmt.Errorf("list templates: scan row: %w", err)
		}
		t.Weekday = weekday
		templates = append(templates, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: row iteration: %w", err)
	}

	for _, t := range templates {
		entries, err := s.listEntries(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("list templates: template %d: %w", t.ID, err)
		}
		t.Entries = entries
	}

	return templates, nil
}

func (s *SQLTemplateRepository) listEntries(ctx context.Context, templateID int64) ([]*domain.TemplateEntry, error) {
	q := `
	SELECT
		id, template_id, position,
		client_id, driver_id, vehicle_id,
		client_name, driver_name, vehicle_name,
		start_time,
		pickup_address, pickup_city, dropoff_address, dropoff_city,
		notes
	FROM schedule_template_entries
	WHERE template_id = $1
	ORDER BY position, id;
	`
	rows, err := s.DB.QueryContext(ctx, q, templateID)
	if err != nil {
		return nil, fmt.Errorf("query schedule_template_entries table: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.TemplateEntry, 0, 32)
	for rows.Next() {
		var e domain.TemplateEntry
		var clientID, driverID, vehicleID sql.NullInt64
		var startTime sql.NullString

		err := rows.Scan(
			&e.ID, &e.TemplateID, &e.Position,
			&clientID, &driverID, &vehicleID,
			&e.ClientName, &e.DriverName, &e.VehicleName,
			&startTime,
			&e.PickupAddress, &e.PickupCity, &e.DropoffAddress, &e.DropoffCity,
			&e.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if clientID.Valid {
			e.ClientID = &clientID.Int64
		}
		if driverID.Valid {
			e.DriverID = &driverID.Int64
		}
		if vehicleID.Valid {
			e.VehicleID = &vehicleID.Int64
		}
		if e.StartTime, err = timeOfDayFrom(startTime); err != nil {
			return nil, fmt.Errorf("entry %d start_time: %w", e.ID, err)
		}

		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return entries, nil
}
