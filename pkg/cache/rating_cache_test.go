package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisRatingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRatingCache(client, time.Minute), mr
}

func TestRedisRatingCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := RestaurantKey(9)

	_, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, key, RatingStats{AvgRating: decimal.RequireFromString("4.3"), TotalReviews: 12}))
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	st, hit, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, hit)
	assert.True(t, st.AvgRating.Equal(decimal.RequireFromString("4.3")))
	assert.Equal(t, int64(12), st.TotalReviews)

	require.NoError(t, c.Invalidate(ctx, key, PartnerKey(1)))
	_, hit, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisRatingCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, PartnerKey(2), RatingStats{TotalReviews: 1}))
	mr.FastForward(2 * time.Minute)

	_, hit, err := c.Get(ctx, PartnerKey(2))
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisRatingCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(RestaurantKey(5), "{not json"))

	_, hit, err := c.Get(context.Background(), RestaurantKey(5))
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisRatingCacheUnavailable(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), RestaurantKey(1))
	assert.Error(t, err)
}
