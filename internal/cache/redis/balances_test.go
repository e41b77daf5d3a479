package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhardh4356/slipwise/internal/cache"
	"github.com/siddhardh4356/slipwise/pkg/api"
)

func newTestCache(t *testing.T, ttl time.Duration) (*BalanceCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := New(context.Background(), ClientConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewBalanceCache(client, ttl), mr
}

func sampleBalances(groupID string) *api.GetGroupBalancesResponse {
	return &api.GetGroupBalancesResponse{
		GroupID:   groupID,
		GroupName: "Trip",
		Balances: []*api.Balance{
			{FromUserID: "b", FromUserName: "Bob", ToUserID: "a", ToUserName: "Alice", Amount: 25.5},
		},
		Members: []*api.MemberBalance{
			{UserID: "a", Name: "Alice", Paid: 51, Share: 25.5, Net: 25.5},
			{UserID: "b", Name: "Bob", Paid: 0, Share: 25.5, Net: -25.5},
		},
		TotalSpent: 51,
	}
}

func TestBalancesKey(t *testing.T) {
	assert.Equal(t, "slipwise:balances:g-1", balancesKey("g-1"))
	assert.Equal(t, "slipwise:balances:gen:g-1", generationKey("g-1"))
}

func TestBalanceCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	bc, mr := newTestCache(t, time.Minute)

	_, err := bc.GetGroupBalances(ctx, "g1")
	assert.ErrorIs(t, err, cache.ErrMiss)

	gen, err := bc.Generation(ctx, "g1")
	require.NoError(t, err)
	assert.Zero(t, gen)

	want := sampleBalances("g1")
	require.NoError(t, bc.SetGroupBalances(ctx, "g1", gen, want))

	got, err := bc.GetGroupBalances(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, time.Minute, mr.TTL(balancesKey("g1")))

	require.NoError(t, bc.InvalidateGroup(ctx, "g1"))
	_, err = bc.GetGroupBalances(ctx, "g1")
	assert.ErrorIs(t, err, cache.ErrMiss)

	gen, err = bc.Generation(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestBalanceCacheExpires(t *testing.T) {
	ctx := context.Background()
	bc, mr := newTestCache(t, time.Minute)

	require.NoError(t, bc.SetGroupBalances(ctx, "g1", 0, sampleBalances("g1")))
	mr.FastForward(2 * time.Minute)

	_, err := bc.GetGroupBalances(ctx, "g1")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestBalanceCacheDropsStaleWrite(t *testing.T) {
	ctx := context.Background()
	bc, _ := newTestCache(t, time.Minute)

	before, err := bc.Generation(ctx, "g1")
	require.NoError(t, err)
	require.NoError(t, bc.InvalidateGroup(ctx, "g1"))

	require.NoError(t, bc.SetGroupBalances(ctx, "g1", before, sampleBalances("g1")))
	_, err = bc.GetGroupBalances(ctx, "g1")
	assert.ErrorIs(t, err, cache.ErrMiss, "result computed before the invalidation must not be stored")

	after, err := bc.Generation(ctx, "g1")
	require.NoError(t, err)
	require.NoError(t, bc.SetGroupBalances(ctx, "g1", after, sampleBalances("g1")))
	_, err = bc.GetGroupBalances(ctx, "g1")
	assert.NoError(t, err)
}

func TestUnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, ClientConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: ping")

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	bc := NewBalanceCache(NewFromRedis(rdb), time.Minute)
	defer rdb.Close()

	_, err = bc.GetGroupBalances(ctx, "g1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: get balances g1")

	_, err = bc.Generation(ctx, "g1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: get generation g1")
}
