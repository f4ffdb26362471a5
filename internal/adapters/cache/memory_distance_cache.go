package cache

import (
	"context"
	"sync"

	"github.com/Sinatabuu/bahati/internal/ports"
)

// MemoryDistanceCache keeps estimates in process memory. Used by tests and
// by cache-less local runs; safe for concurrent use.
type MemoryDistanceCache struct {
	mu sync.RWMutex
	m  map[string]ports.LegEstimate
}

func NewMemoryDistanceCache() *MemoryDistanceCache {
	return &MemoryDistanceCache{m: make(map[string]ports.LegEstimate)}
}

func (c *MemoryDistanceCache) Get(_ context.Context, origin, dest, bucket string) (ports.LegEstimate, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	leg, ok := c.m[origin+"|"+dest+"|"+bucket]
	return leg, ok, nil
}

func (c *MemoryDistanceCache) Put(_ context.Context, origin, dest, bucket string, leg ports.LegEstimate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[origin+"|"+dest+"|"+bucket] = leg
	return nil
}

// Len reports the number of cached keys.
func (c *MemoryDistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
