package cache

import (
	"context"
	"sync"
	"time"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/monitoring"
)

// MemoryNutritionCache is a thread-safe in-process nutrition cache with TTL
// expiry. It backs single-instance deployments without Redis and tests.
// Values are stored by copy so in-flight resolutions never share state with
// cached entries.
type MemoryNutritionCache struct {
	items map[string]memoryItem
	mu    sync.RWMutex
}

type memoryItem struct {
	res       nutrition.IngredientResolution
	expiresAt time.Time
}

// NewMemoryNutritionCache creates an in-memory nutrition cache.
func NewMemoryNutritionCache() *MemoryNutritionCache {
	return &MemoryNutritionCache{items: make(map[string]memoryItem)}
}

// Get returns the cached resolution for the triple, or a miss.
func (c *MemoryNutritionCache) Get(_ context.Context, name string, quantity float64, unit string) (*nutrition.IngredientResolution, bool) {
	key := Key(name, quantity, unit)

	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		monitoring.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry since the read lock was dropped.
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && time.Now().After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		monitoring.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}

	monitoring.CacheOps.WithLabelValues("hit").Inc()
	res := item.res
	return &res, true
}

// Put stores a copy of the resolution under the triple key. Last write wins
// on concurrent puts for the same key.
func (c *MemoryNutritionCache) Put(_ context.Context, name string, quantity float64, unit string, res *nutrition.IngredientResolution, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	c.items[Key(name, quantity, unit)] = memoryItem{
		res:       *res,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}
