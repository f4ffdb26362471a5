package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sinatabuu/bahati/internal/domain"
)

// Postgres-backed implementation of the ScheduleRepository port.
type SQLScheduleRepository struct{ DB *sql.DB }

func NewSQLScheduleRepository(db *sql.DB) *SQLScheduleRepository {
	return &SQLScheduleRepository{DB: db}
}

// GetOrCreate relies on the UNIQUE (company_id, date) constraint: the
// insert is a no-op when the row already exists, and the follow-up select
// reads whichever row won.
func (s *SQLScheduleRepository) GetOrCreate(ctx context.Context, companyID int64, day time.Time) (*domain.Schedule, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("schedule repository: DB is nil")
	}

	date := day.Format("2006-01-02")

	ins := `
	INSERT INTO schedules (company_id, date)
	VALUES ($1, $2)
	ON CONFLICT (company_id, date) DO NOTHING;
	`
	res, err := s.DB.ExecContext(ctx, ins, companyID, date)
	if err != nil {
		return nil, false, fmt.Errorf("get or create schedule: insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("get or create schedule: rows affected: %w", err)
	}
	created := n > 0

	sel := `
	SELECT id, company_id, date
	FROM schedules
	WHERE company_id = $1 AND date = $2;
	`
	var sched domain.Schedule
	err = s.DB.QueryRowContext(ctx, sel, companyID, date).Scan(&sched.ID, &sched.CompanyID, &sched.Date)
	if err != nil {
		return nil, false, fmt.Errorf("get or create schedule: select: %w", err)
	}

	return &sched, created, nil
}

const entryColumns = `
	e.id, e.schedule_id, e.company_id,
	e.job_id, e.driver_id, e.vehicle_id, e.client_id,
	e.client_name, e.start_time, e.end_time,
	e.pickup_address, e.pickup_city, e.pickup_lat, e.pickup_lng,
	e.dropoff_address, e.dropoff_city, e.dropoff_lat, e.dropoff_lng,
	e.status, e.notes
`

func (s *SQLScheduleRepository) ListEntriesForDay(ctx context.Context, companyID int64, day time.Time) ([]*domain.ScheduleEntry, error) {
	if s.DB == nil {
		return nil, errors.New("schedule repository: DB is nil")
	}

	q := `
	SELECT ` + entryColumns + `
	FROM schedule_entries e
	JOIN schedules s ON s.id = e.schedule_id
	WHERE e.company_id = $1 AND s.date = $2 AND NOT e.deleted
	ORDER BY e.start_time ASC NULLS LAST, e.id ASC;
	`
	rows, err := s.DB.QueryContext(ctx, q, companyID, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list entries: query schedule_entries table: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.ScheduleEntry, 0, 64)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: row iteration: %w", err)
	}

	return entries, nil
}

func (s *SQLScheduleRepository) CommitDayAssignments(ctx context.Context, companyID, scheduleID int64, entries []*domain.ScheduleEntry, jobIDs []int64, overwrite bool) (int, error) {
	if s.DB == nil {
		return 0, errors.New("schedule repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("commit assignments: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if overwrite {
		del := `DELETE FROM schedule_entries WHERE company_id = $1 AND schedule_id = $2;`
		if _, err := tx.ExecContext(ctx, del, companyID, scheduleID); err != nil {
			return 0, fmt.Errorf("commit assignments: clear existing entries: %w", err)
		}
	}

	created, err := insertEntries(ctx, tx, companyID, scheduleID, entries)
	if err != nil {
		return 0, fmt.Errorf("commit assignments: %w", err)
	}

	if len(jobIDs) > 0 {
		upd := `UPDATE jobs SET status = 'scheduled' WHERE company_id = $1 AND id = ANY($2);`
		if _, err := tx.ExecContext(ctx, upd, companyID, jobIDs); err != nil {
			return 0, fmt.Errorf("commit assignments: mark jobs scheduled: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit assignments: commit tx: %w", err)
	}

	return created, nil
}

func (s *SQLScheduleRepository) ReplaceEntries(ctx context.Context, companyID, scheduleID int64, entries []*domain.ScheduleEntry) (int, error) {
	if s.DB == nil {
		return 0, errors.New("schedule repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("replace entries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	del := `DELETE FROM schedule_entries WHERE company_id = $1 AND schedule_id = $2;`
	if _, err := tx.ExecContext(ctx, del, companyID, scheduleID); err != nil {
		return 0, fmt.Errorf("replace entries: clear existing entries: %w", err)
	}

	created, err := insertEntries(ctx, tx, companyID, scheduleID, entries)
	if err != nil {
		return 0, fmt.Errorf("replace entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("replace entries: commit tx: %w", err)
	}

	return created, nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, companyID, scheduleID int64, entries []*domain.ScheduleEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	ins := `
	INSERT INTO schedule_entries (
		schedule_id, company_id,
		job_id, driver_id, vehicle_id, client_id,
		client_name, start_time, end_time,
		pickup_address, pickup_city, pickup_lat, pickup_lng,
		dropoff_address, dropoff_city, dropoff_lat, dropoff_lng,
		status, notes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	stmt, err := tx.PrepareContext(ctx, ins)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	created := 0
	for _, e := range entries {
		pLat, pLng := coordColumns(e.PickupCoords)
		dLat, dLng := coordColumns(e.DropoffCoords)

		_, err := stmt.ExecContext(ctx,
			scheduleID, companyID,
			idColumn(e.JobID), idColumn(e.DriverID), idColumn(e.VehicleID), idColumn(e.ClientID),
			e.ClientName, timeColumn(e.StartTime), timeColumn(e.EndTime),
			e.PickupAddress, e.PickupCity, pLat, pLng,
			e.DropoffAddress, e.DropoffCity, dLat, dLng,
			string(e.Status), e.Notes,
		)
		if err != nil {
			return 0, fmt.Errorf("insert entry for client %q: %w", e.ClientName, err)
		}
		created++
	}

	return created, nil
}

func scanEntry(row rowScanner) (*domain.ScheduleEntry, error) {
	var e domain.ScheduleEntry
	var jobID, driverID, vehicleID, clientID sql.NullInt64
	var startTime, endTime sql.NullString
	var pLat, pLng, dLat, dLng sql.NullFloat64

	err := row.Scan(
		&e.ID, &e.ScheduleID, &e.CompanyID,
		&jobID, &driverID, &vehicleID, &clientID,
		&e.ClientName, &startTime, &endTime,
		&e.PickupAddress, &e.PickupCity, &pLat, &pLng,
		&e.DropoffAddress, &e.DropoffCity, &dLat, &dLng,
		&e.Status, &e.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if jobID.Valid {
		e.JobID = &jobID.Int64
	}
	if driverID.Valid {
		e.DriverID = &driverID.Int64
	}
	if vehicleID.Valid {
		e.VehicleID = &vehicleID.Int64
	}
	if clientID.Valid {
		e.ClientID = &clientID.Int64
	}
	if e.StartTime, err = timeOfDayFrom(startTime); err != nil {
		return nil, fmt.Errorf("entry %d start_time: %w", e.ID, err)
	}
	if e.EndTime, err = timeOfDayFrom(endTime); err != nil {
		return nil, fmt.Errorf("entry %d end_time: %w", e.ID, err)
	}
	e.PickupCoords = coordsFrom(pLat, pLng)
	e.DropoffCoords = coordsFrom(dLat, dLng)

	return &e, nil
}
