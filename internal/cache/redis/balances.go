package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/siddhardh4356/slipwise/internal/cache"
	"github.com/siddhardh4356/slipwise/pkg/api"
)

// BalanceCache stores group balances as JSON strings.
//
// Key schema:
//
//	slipwise:balances:{groupID}     - JSON-encoded api.GetGroupBalancesResponse
//	slipwise:balances:gen:{groupID} - invalidation counter, never expires
type BalanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ cache.BalanceCache = (*BalanceCache)(nil)

// setIfGeneration writes KEYS[1] only while KEYS[2] still equals ARGV[1].
// A missing counter reads as generation 0.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// NewBalanceCache creates a BalanceCache whose entries expire after ttl.
func NewBalanceCache(c *Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{rdb: c.rdb, ttl: ttl}
}

func balancesKey(groupID string) string   { return "slipwise:balances:" + groupID }
func generationKey(groupID string) string { return "slipwise:balances:gen:" + groupID }

func (bc *BalanceCache) Generation(ctx context.Context, groupID string) (int64, error) {
	gen, err := bc.rdb.Get(ctx, generationKey(groupID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis: get generation %s: %w", groupID, err)
	}
	return gen, nil
}

// GetGroupBalances returns cache.ErrMiss when the key does not exist.
func (bc *BalanceCache) GetGroupBalances(ctx context.Context, groupID string) (*api.GetGroupBalancesResponse, error) {
	data, err := bc.rdb.Get(ctx, balancesKey(groupID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrMiss
		}
		return nil, fmt.Errorf("redis: get balances %s: %w", groupID, err)
	}

	var balances api.GetGroupBalancesResponse
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, fmt.Errorf("redis: unmarshal balances %s: %w", groupID, err)
	}
	return &balances, nil
}

func (bc *BalanceCache) SetGroupBalances(ctx context.Context, groupID string, gen int64, balances *api.GetGroupBalancesResponse) error {
	data, err := json.Marshal(balances)
	if err != nil {
		return fmt.Errorf("redis: marshal balances %s: %w", groupID, err)
	}

	keys := []string{balancesKey(groupID), generationKey(groupID)}
	err = setIfGeneration.Run(ctx, bc.rdb, keys, gen, data, bc.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("redis: set balances %s: %w", groupID, err)
	}
	return nil
}

func (bc *BalanceCache) InvalidateGroup(ctx context.Context, groupID string) error {
	_, err := bc.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(groupID))
		pipe.Del(ctx, balancesKey(groupID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: invalidate balances %s: %w", groupID, err)
	}
	return nil
}
