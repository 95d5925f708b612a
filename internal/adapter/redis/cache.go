package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	wrap "github.com/Temutjin2k/fare-predictor/pkg/logger/wrapper"
)

const DefaultTTL = 10 * time.Minute

// FareCache keeps predicted fares keyed by model version and feature row.
type FareCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFareCache(client *redis.Client, ttl time.Duration) *FareCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FareCache{client: client, ttl: ttl}
}

// Get returns the cached fare. A miss is (0, false, nil).
func (c *FareCache) Get(ctx context.Context, key string) (float64, bool, error) {
	const op = "FareCache.Get"

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	fare, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, wrap.Error(ctx, fmt.Errorf("%s: corrupt cache entry %q: %w", op, raw, err))
	}
	return fare, true, nil
}

func (c *FareCache) Set(ctx context.Context, key string, fare float64) error {
	const op = "FareCache.Set"

	value := strconv.FormatFloat(fare, 'g', -1, 64)
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
