// Package narrative caches AI-generated matchup analysis bundles keyed by
// team pair, with in-flight tracking to de-duplicate generation requests.
package narrative

import (
	"context"
	"fmt"
	"sync"

	"github.com/rotobot/bracketbuilder/internal/domain/inflight"
	"github.com/rotobot/bracketbuilder/internal/domain/model"
)

// PairKey forms the cache key for two team ids in request order. The key is
// deliberately order-sensitive ("a_vs_b" != "b_vs_a"): the upstream server
// caches the same way, and callers consistently pass the bracket-slot order,
// so normalizing here would silently change cache-hit behavior.
func PairKey(team1ID, team2ID string) string {
	return fmt.Sprintf("%s_vs_%s", team1ID, team2ID)
}

// Cache stores narrative bundles for the lifetime of the process. No TTL
// and no eviction: the population is bounded by pairs actually visited.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]model.Narrative
	inFlight inflight.Registry
}

// NewCache creates an empty cache with its own in-flight registry.
func NewCache() *Cache {
	return &Cache{
		entries:  make(map[string]model.Narrative),
		inFlight: inflight.NewInMemoryRegistry(),
	}
}

// Get returns the cached narrative for a pair, in request order.
func (c *Cache) Get(team1ID, team2ID string) (model.Narrative, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.entries[PairKey(team1ID, team2ID)]
	return n, ok
}

// Put stores a generated narrative under the pair key.
func (c *Cache) Put(team1ID, team2ID string, n model.Narrative) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[PairKey(team1ID, team2ID)] = n
}

// Has reports whether a narrative exists for the pair without copying it.
func (c *Cache) Has(team1ID, team2ID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[PairKey(team1ID, team2ID)]
	return ok
}

// Len returns the number of cached bundles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Loading reports whether generation for the pair is in flight.
func (c *Cache) Loading(ctx context.Context, team1ID, team2ID string) bool {
	return c.inFlight.Active(ctx, PairKey(team1ID, team2ID))
}

// BeginGeneration atomically claims the pair for generation. It returns
// false when the pair is already cached or already being generated; the
// caller starts work only on true.
func (c *Cache) BeginGeneration(ctx context.Context, team1ID, team2ID string) bool {
	if c.Has(team1ID, team2ID) {
		return false
	}
	return c.inFlight.Begin(ctx, PairKey(team1ID, team2ID))
}

// EndGeneration releases the in-flight claim. Call on success and failure
// alike; a failure leaves the key absent and eligible for retry.
func (c *Cache) EndGeneration(ctx context.Context, team1ID, team2ID string) {
	c.inFlight.End(ctx, PairKey(team1ID, team2ID))
}

// InFlight returns the number of pairs currently being generated.
func (c *Cache) InFlight() int64 {
	return c.inFlight.Size()
}
