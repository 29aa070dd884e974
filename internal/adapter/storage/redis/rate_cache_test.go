package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestRateCache_GetMiss(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRateCache(client)

	_, found, err := cache.Get(context.Background(), "XRP:usd")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRateCache_SetAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	cache := NewRateCache(client)
	ctx := context.Background()

	rate := decimal.RequireFromString("0.5123")
	require.NoError(t, cache.Set(ctx, "XRP:usd", rate, time.Minute))

	got, found, err := cache.Get(ctx, "XRP:usd")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, rate.Equal(got))
}

func TestRateCache_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRateCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "SOL:usd", decimal.NewFromInt(150), 30*time.Second))

	mr.FastForward(31 * time.Second)

	_, found, err := cache.Get(ctx, "SOL:usd")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRateCache_CorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRateCache(client)

	mr.Set("rate:XRP:usd", "not-a-number")

	_, _, err := cache.Get(context.Background(), "XRP:usd")
	assert.Error(t, err)
}
