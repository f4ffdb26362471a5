package repositories

import (
	"database/sql"
	"fmt"

	"github.com/Sinatabuu/bahati/internal/domain"
)

// coordsFrom pairs two nullable columns into coordinates; either missing
// leaves the point nil.
func coordsFrom(lat, lng sql.NullFloat64) *domain.Coordinates {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
}

// timeOfDayFrom parses a nullable TIME column ("08:00:00").
func timeOfDayFrom(v sql.NullString) (*domain.TimeOfDay, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := domain.ParseTimeOfDay(v.String)
	if err != nil {
		return nil, fmt.Errorf("scan time column: %w", err)
	}
	return &t, nil
}

// timeColumn renders a TimeOfDay for a TIME parameter, nil for NULL.
func timeColumn(t *domain.TimeOfDay) any {
	if t == nil {
		return nil
	}
	return t.String()
}

// idColumn renders an optional foreign key, nil for NULL.
func idColumn(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// coordColumns splits optional coordinates into two nullable parameters.
func coordColumns(c *domain.Coordinates) (any, any) {
	if c == nil {
		return nil, nil
	}
	return c.Lat, c.Lng
}
