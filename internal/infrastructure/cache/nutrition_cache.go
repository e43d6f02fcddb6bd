package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/monitoring"
	apperrors "github.com/alchemorsel/nutrition/pkg/errors"
	"go.uber.org/zap"
)

// DefaultTTL is how long resolved ingredient results stay cached.
const DefaultTTL = 24 * time.Hour

// Key builds the cache key from the exact request triple. Quantity and unit
// are part of the key: different quantities of the same ingredient cache
// independently because cached entries hold already-scaled records.
func Key(name string, quantity float64, unit string) string {
	return fmt.Sprintf("nutrition:%s:%g:%s", name, quantity, unit)
}

// RedisNutritionCache stores ingredient resolutions in Redis as JSON.
type RedisNutritionCache struct {
	client *RedisClient
	logger *zap.Logger
}

// NewRedisNutritionCache creates a Redis-backed nutrition cache.
func NewRedisNutritionCache(client *RedisClient, logger *zap.Logger) *RedisNutritionCache {
	return &RedisNutritionCache{
		client: client,
		logger: logger.Named("nutrition-cache"),
	}
}

// Get returns the cached resolution for the triple, or a miss. Backend or
// decode errors are logged and reported as misses so resolution proceeds.
func (c *RedisNutritionCache) Get(ctx context.Context, name string, quantity float64, unit string) (*nutrition.IngredientResolution, bool) {
	data, err := c.client.Get(ctx, Key(name, quantity, unit))
	if err == ErrKeyNotFound {
		monitoring.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		monitoring.CacheOps.WithLabelValues("error").Inc()
		c.logger.Warn("cache read failed, treating as miss",
			zap.String("ingredient", name),
			zap.Error(apperrors.NewCacheError("get", err)))
		return nil, false
	}

	var res nutrition.IngredientResolution
	if err := json.Unmarshal(data, &res); err != nil {
		monitoring.CacheOps.WithLabelValues("error").Inc()
		c.logger.Warn("cache entry corrupt, treating as miss",
			zap.String("ingredient", name),
			zap.Error(err))
		return nil, false
	}

	monitoring.CacheOps.WithLabelValues("hit").Inc()
	return &res, true
}

// Put stores the resolution under the triple key.
func (c *RedisNutritionCache) Put(ctx context.Context, name string, quantity float64, unit string, res *nutrition.IngredientResolution, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(res)
	if err != nil {
		return apperrors.NewCacheError("marshal", err)
	}
	if err := c.client.Set(ctx, Key(name, quantity, unit), data, ttl); err != nil {
		return apperrors.NewCacheError("set", err)
	}
	return nil
}
