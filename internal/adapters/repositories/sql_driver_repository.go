package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Sinatabuu/bahati/internal/domain"
)

// Postgres-backed implementation of the DriverRepository port.
type SQLDriverRepository struct{ DB *sql.DB }

func NewSQLDriverRepository(db *sql.DB) *SQLDriverRepository {
	return &SQLDriverRepository{DB: db}
}

const driverColumns = `
	id, company_id, slug, name, phone, active,
	home_base_address, home_base_lat, home_base_lng
`

func (s *SQLDriverRepository) ListActive(ctx context.Context, companyID int64) ([]*domain.Driver, error) {
	if s.DB == nil {
		return nil, errors.New("driver repository: DB is nil")
	}

	q := `
	SELECT ` + driverColumns + `
	FROM drivers
	WHERE company_id = $1 AND active AND NOT deleted
	ORDER BY name, id;
	`
	rows, err := s.DB.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, fmt.Errorf("list active drivers: query drivers table: %w", err)
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0, 16)
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("list active drivers: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active drivers: row iteration: %w", err)
	}

	return drivers, nil
}

func (s *SQLDriverRepository) FindByName(ctx context.Context, companyID int64, name string) (*domain.Driver, error) {
	if s.DB == nil {
		return nil, errors.New("driver repository: DB is nil")
	}

	q := `
	SELECT ` + driverColumns + `
	FROM drivers
	WHERE company_id = $1 AND lower(name) = lower($2) AND NOT deleted
	ORDER BY id
	LIMIT 1;
	`
	d, err := scanDriver(s.DB.QueryRowContext(ctx, q, companyID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find driver by name %q: %w", name, err)
	}
	return d, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var d domain.Driver
	var lat, lng sql.NullFloat64
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.Slug, &d.Name, &d.Phone, &d.Active,
		&d.HomeBaseAddress, &lat, &lng,
	)
	if err != nil {
		return nil, err
	}
	d.HomeBase = coordsFrom(lat, lng)
	return &d, nil
}
