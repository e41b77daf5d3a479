package cache

import (
	"context"
	"sync"
	"time"

	"github.com/siddhardh4356/slipwise/pkg/api"
)

// Memory is an in-process BalanceCache.
type Memory struct {
	lru *LRUCache[*api.GetGroupBalancesResponse]

	mu          sync.Mutex
	generations map[string]int64
}

var _ BalanceCache = (*Memory)(nil)

// NewMemory creates a Memory cache with room for size groups.
func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{
		lru:         NewLRUCache[*api.GetGroupBalancesResponse](size, ttl),
		generations: make(map[string]int64),
	}
}

func (m *Memory) Generation(_ context.Context, groupID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[groupID], nil
}

func (m *Memory) GetGroupBalances(_ context.Context, groupID string) (*api.GetGroupBalancesResponse, error) {
	if v, ok := m.lru.Get(groupID); ok {
		return v, nil
	}
	return nil, ErrMiss
}

func (m *Memory) SetGroupBalances(_ context.Context, groupID string, gen int64, balances *api.GetGroupBalancesResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generations[groupID] != gen {
		return nil
	}
	m.lru.Set(groupID, balances)
	return nil
}

func (m *Memory) InvalidateGroup(_ context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations[groupID]++
	m.lru.Delete(groupID)
	return nil
}
