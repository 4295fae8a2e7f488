package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"pricing-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// DefaultTTL bounds how long a cached formula can go stale after an admin
// edit on another instance. Formulas change rarely, so a short window of
// staleness is acceptable.
const DefaultTTL = 5 * time.Minute

// FormulaCache is a redis-backed cache of active pricing formulas keyed by
// product type. Cache failures are never fatal: a broken cache degrades to
// repository reads.
type FormulaCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFormulaCache creates a new FormulaCache. A ttl of 0 means DefaultTTL.
func NewFormulaCache(rdb *redis.Client, ttl time.Duration) *FormulaCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FormulaCache{rdb: rdb, ttl: ttl}
}

func formulaKey(productType string) string {
	return fmt.Sprintf("pricing_formula:%s", productType)
}

// Get returns the cached active formula for productType, or false on a miss.
func (c *FormulaCache) Get(ctx context.Context, productType string) (*entity.PricingFormula, bool) {
	data, err := c.rdb.Get(ctx, formulaKey(productType)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting formula for product type %s from cache", productType)
		}
		return nil, false
	}

	var f entity.PricingFormula
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		logger.Error().Err(err).Msgf("Error unmarshalling cached formula for product type %s", productType)
		return nil, false
	}
	return &f, true
}

// Set stores the active formula for its product type.
func (c *FormulaCache) Set(ctx context.Context, f *entity.PricingFormula) {
	data, err := json.Marshal(f)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling formula %d for cache", f.ID)
		return
	}

	if err := c.rdb.Set(ctx, formulaKey(f.ProductType), data, c.ttl).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting formula for product type %s in cache", f.ProductType)
	}
}

// Invalidate drops the cached formula for productType. Called after admin
// writes and from the formula event consumer.
func (c *FormulaCache) Invalidate(ctx context.Context, productType string) error {
	return c.rdb.Del(ctx, formulaKey(productType)).Err()
}
