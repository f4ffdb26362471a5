package distance

import (
	"math"

	"github.com/Sinatabuu/bahati/internal/domain"
)

const (
	earthRadiusMeters = 6371000.0

	// Constant 30 km/h average: 120 seconds per kilometer.
	secondsPerKilometer = 120

	// Short hops still cost at least a minute door to door.
	minLegSeconds = 60
)

// haversineMeters returns the great-circle distance between two points.
func haversineMeters(origin, dest domain.Coordinates) int {
	lat1 := toRadians(origin.Lat)
	lat2 := toRadians(dest.Lat)
	deltaLat := toRadians(dest.Lat - origin.Lat)
	deltaLng := toRadians(dest.Lng - origin.Lng)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(earthRadiusMeters * c)
}

// constantSpeedSeconds converts straight-line meters into drive seconds at
// the constant average speed, floored at minLegSeconds.
func constantSpeedSeconds(meters int) int {
	seconds := int(float64(meters) / 1000.0 * secondsPerKilometer)
	if seconds < minLegSeconds {
		return minLegSeconds
	}
	return seconds
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
