package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sinatabuu/bahati/internal/domain"
)

// Postgres-backed implementation of the JobRepository port.
type SQLJobRepository struct{ DB *sql.DB }

func NewSQLJobRepository(db *sql.DB) *SQLJobRepository {
	return &SQLJobRepository{DB: db}
}

// ListPendingForDay returns the day's pending jobs with client records
// attached. Earlier windows first, then priority (lower sorts first);
// windowless jobs go last since any slot suits them.
func (s *SQLJobRepository) ListPendingForDay(ctx context.Context, companyID int64, day time.Time) ([]*domain.Job, error) {
	if s.DB == nil {
		return nil, errors.New("job repository: DB is nil")
	}

	q := `
	SELECT
		j.id, j.company_id, j.client_id, j.date,
		j.window_start, j.window_end, j.duration_minutes, j.priority, j.status,
		c.id, c.company_id, c.slug, c.name,
		c.pickup_address, c.pickup_city, c.pickup_lat, c.pickup_lng,
		c.dropoff_address, c.dropoff_city, c.dropoff_lat, c.dropoff_lng,
		c.notes
	FROM jobs j
	JOIN clients c ON c.id = j.client_id
	WHERE j.company_id = $1 AND j.date = $2 AND j.status = 'pending' AND NOT c.deleted
	ORDER BY j.window_start ASC NULLS LAST, j.priority ASC, j.id ASC;
	`
	rows, err := s.DB.QueryContext(ctx, q, companyID, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list pending jobs: query jobs table: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0, 64)
	for rows.Next() {
		var j domain.Job
		var c domain.Client
		var winStart, winEnd sql.NullString
		var pLat, pLng, dLat, dLng sql.NullFloat64

		err := rows.Scan(
			&j.ID, &j.CompanyID, &j.ClientID, &j.Date,
			&winStart, &winEnd, &j.DurationMinutes, &j.Priority, &j.Status,
			&c.ID, &c.CompanyID, &c.Slug, &c.Name,
			&c.Pickup.Address, &c.Pickup.City, &pLat, &pLng,
			&c.Dropoff.Address, &c.Dropoff.City, &dLat, &dLng,
			&c.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("list pending jobs: scan row: %w", err)
		}

		if j.WindowStart, err = timeOfDayFrom(winStart); err != nil {
			return nil, fmt.Errorf("list pending jobs: job %d window_start: %w", j.ID, err)
		}
		if j.WindowEnd, err = timeOfDayFrom(winEnd); err != nil {
			return nil, fmt.Errorf("list pending jobs: job %d window_end: %w", j.ID, err)
		}
		c.Pickup.Coords = coordsFrom(pLat, pLng)
		c.Dropoff.Coords = coordsFrom(dLat, dLng)
		j.Client = &c

		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending jobs: row iteration: %w", err)
	}

	return jobs, nil
}
