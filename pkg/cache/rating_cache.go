package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RatingStats is the public review summary for a restaurant or delivery partner.
type RatingStats struct {
	AvgRating    decimal.Decimal `json:"avg_rating"`
	TotalReviews int64           `json:"total_reviews"`
}

type RatingCache interface {
	Get(ctx context.Context, key string) (*RatingStats, bool, error)
	Set(ctx context.Context, key string, stats RatingStats) error
	Invalidate(ctx context.Context, keys ...string) error
}

func RestaurantKey(id uint) string {
	return "rating:restaurant:" + strconv.FormatUint(uint64(id), 10)
}

func PartnerKey(id uint) string {
	return "rating:partner:" + strconv.FormatUint(uint64(id), 10)
}

type RedisRatingCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRatingCache(client *redis.Client, ttl time.Duration) *RedisRatingCache {
	return &RedisRatingCache{Client: client, TTL: ttl}
}

func (c *RedisRatingCache) Get(ctx context.Context, key string) (*RatingStats, bool, error) {
	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var st RatingStats
	if err := json.Unmarshal(raw, &st); err != nil {
		// treat a corrupt entry as a miss; the next Set overwrites it
		return nil, false, nil
	}
	return &st, true, nil
}

func (c *RedisRatingCache) Set(ctx context.Context, key string, stats RatingStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, raw, c.TTL).Err()
}

func (c *RedisRatingCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

// Nop never hits; used when no Redis address is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) (*RatingStats, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, RatingStats) error          { return nil }
func (Nop) Invalidate(context.Context, ...string) error             { return nil }
