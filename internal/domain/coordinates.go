package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate reports a latitude/longitude pair that cannot be used
// for distance estimation: absent, non-finite, or outside WGS84 bounds.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Geographic point in decimal degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Valid reports whether both components are finite and within range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return false
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Key renders the point as a cache key with 6-decimal rounding.
// Six decimals bound cache cardinality while staying effectively exact for
// street-level addresses.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}
