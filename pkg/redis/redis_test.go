package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/arena/pkg/config"
)

func setupMiniredis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := New(&config.Config{
		Redis: config.RedisConfig{
			Host:    mr.Host(),
			Port:    mr.Port(),
			Enabled: true,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestNewClient_Disabled(t *testing.T) {
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := New(&config.Config{Redis: config.RedisConfig{
		Host:    "127.0.0.1",
		Port:    "1",
		Enabled: true,
	}})
	assert.Error(t, err)
}

func TestRateLimiter_Disabled(t *testing.T) {
	client, _ := New(&config.Config{})
	limiter := NewRateLimiter(client, "test")

	cfg := ClientRateLimit("10.0.0.1", 5)
	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, cfg.Limit, remaining)
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	client, _ := setupMiniredis(t)
	limiter := NewRateLimiter(client, "arena")
	cfg := ClientRateLimit("10.0.0.1", 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, err := limiter.Allow(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, remaining, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	// other clients keep their own window
	allowed, _, err = limiter.Allow(ctx, ClientRateLimit("10.0.0.2", 3))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCache_Disabled(t *testing.T) {
	client, _ := New(&config.Config{})
	cache := NewCache(client, "test")
	ctx := context.Background()

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(ctx, "key", "value", time.Minute))
}

type feed struct {
	Data        []string `json:"data"`
	LastUpdated string   `json:"lastUpdated"`
}

func TestCache_SetGetExpire(t *testing.T) {
	client, mr := setupMiniredis(t)
	cache := NewCache(client, "arena")
	ctx := context.Background()

	in := feed{Data: []string{"a", "b"}, LastUpdated: "2026-10-14T00:00:00Z"}
	require.NoError(t, cache.Set(ctx, PerformanceFeedKey(), in, time.Minute))
	assert.True(t, mr.Exists("arena:cache:feed:performance"))

	var out feed
	found, err := cache.Get(ctx, PerformanceFeedKey(), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	mr.FastForward(2 * time.Minute)
	found, err = cache.Get(ctx, PerformanceFeedKey(), &out)
	require.NoError(t, err)
	assert.False(t, found, "entry should expire after ttl")
}

func TestCache_GetOrSet(t *testing.T) {
	client, _ := setupMiniredis(t)
	cache := NewCache(client, "arena")
	ctx := context.Background()

	calls := 0
	fill := func(dest *feed) func() error {
		return func() error {
			calls++
			dest.Data = []string{"x"}
			return nil
		}
	}

	var first feed
	hit, err := cache.GetOrSet(ctx, "feed", &first, time.Minute, fill(&first))
	require.NoError(t, err)
	assert.False(t, hit)

	var second feed
	hit, err = cache.GetOrSet(ctx, "feed", &second, time.Minute, fill(&second))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"x"}, second.Data)
	assert.Equal(t, 1, calls)

	var third feed
	_, err = cache.GetOrSet(ctx, "other", &third, time.Minute, func() error {
		return errors.New("upstream down")
	})
	assert.EqualError(t, err, "upstream down")
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "feed:performance", PerformanceFeedKey())
	assert.Equal(t, "feed:invocations:30", InvocationsFeedKey(30))
}
