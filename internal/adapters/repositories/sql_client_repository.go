package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Sinatabuu/bahati/internal/domain"
)

// Postgres-backed implementation of the ClientRepository port.
type SQLClientRepository struct{ DB *sql.DB }

func NewSQLClientRepository(db *sql.DB) *SQLClientRepository {
	return &SQLClientRepository{DB: db}
}

const clientColumns = `
	id, company_id, slug, name,
	pickup_address, pickup_city, pickup_lat, pickup_lng,
	dropoff_address, dropoff_city, dropoff_lat, dropoff_lng,
	notes
`

func (s *SQLClientRepository) FindByID(ctx context.Context, companyID, id int64) (*domain.Client, error) {
	if s.DB == nil {
		return nil, errors.New("client repository: DB is nil")
	}

	q := `
	SELECT ` + clientColumns + `
	FROM clients
	WHERE company_id = $1 AND id = $2 AND NOT deleted;
	`
	c, err := scanClient(s.DB.QueryRowContext(ctx, q, companyID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client %d: %w", id, err)
	}
	return c, nil
}

func (s *SQLClientRepository) FindByName(ctx context.Context, companyID int64, name string) (*domain.Client, error) {
	if s.DB == nil {
		return nil, errors.New("client repository: DB is nil")
	}

	q := `
	SELECT ` + clientColumns + `
	FROM clients
	WHERE company_id = $1 AND lower(name) = lower($2) AND NOT deleted
	ORDER BY id
	LIMIT 1;
	`
	c, err := scanClient(s.DB.QueryRowContext(ctx, q, companyID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client by name %q: %w", name, err)
	}
	return c, nil
}

func scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var pLat, pLng, dLat, dLng sql.NullFloat64
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Slug, &c.Name,
		&c.Pickup.Address, &c.Pickup.City, &pLat, &pLng,
		&c.Dropoff.Address, &c.Dropoff.City, &dLat, &dLng,
		&c.Notes,
	)
	if err != nil {
		return nil, err
	}
	c.Pickup.Coords = coordsFrom(pLat, pLng)
	c.Dropoff.Coords = coordsFrom(dLat, dLng)
	return &c, nil
}
