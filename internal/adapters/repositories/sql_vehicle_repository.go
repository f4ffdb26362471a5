package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Sinatabuu/bahati/internal/domain"
)

// Postgres-backed implementation of the VehicleRepository port.
type SQLVehicleRepository struct{ DB *sql.DB }

func NewSQLVehicleRepository(db *sql.DB) *SQLVehicleRepository {
	return &SQLVehicleRepository{DB: db}
}

func (s *SQLVehicleRepository) FindByName(ctx context.Context, companyID int64, name string) (*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("vehicle repository: DB is nil")
	}

	q := `
	SELECT id, company_id, slug, name, plate, capacity
	FROM vehicles
	WHERE company_id = $1 AND lower(name) = lower($2) AND NOT deleted
	ORDER BY id
	LIMIT 1;
	`
	var v domain.Vehicle
	err := s.DB.QueryRowContext(ctx, q, companyID, name).Scan(
		&v.ID, &v.CompanyID, &v.Slug, &v.Name, &v.Plate, &v.Capacity,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vehicle by name %q: %w", name, err)
	}
	return &v, nil
}
