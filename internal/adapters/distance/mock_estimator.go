package distance

import (
	"context"
	"fmt"
	"time"

	"github.com/Sinatabuu/bahati/internal/domain"
	"github.com/Sinatabuu/bahati/internal/ports"
)

type MockLeg struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// MockEstimator serves fixed legs keyed by coordinate pair, ignoring the
// departure time. Tests use it to pin travel times exactly.
type MockEstimator struct {
	m map[string]ports.LegEstimate
}

func NewMockEstimator(legs []MockLeg) *MockEstimator {
	m := make(map[string]ports.LegEstimate, len(legs))
	for _, l := range legs {
		m[l.From.Key()+"|"+l.To.Key()] = ports.LegEstimate{DistanceMeters: l.Meters, DurationSeconds: l.Seconds}
	}
	return &MockEstimator{m: m}
}

func (e *MockEstimator) Estimate(_ context.Context, origin, dest domain.Coordinates, _ time.Time) (ports.LegEstimate, error) {
	leg, ok := e.m[origin.Key()+"|"+dest.Key()]
	if !ok {
		return ports.LegEstimate{}, fmt.Errorf("missing leg %s -> %s", origin.Key(), dest.Key())
	}
	return leg, nil
}
