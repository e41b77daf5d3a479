// Package cache stores computed group balances between writes.
//
// Balances are always recomputed from a fresh snapshot on a miss; the cache
// only saves repeat work for read-heavy groups. Every write to a group's
// expenses, settlements or membership must call InvalidateGroup.
//
// Readers take the group's Generation before loading the snapshot and pass it
// to SetGroupBalances. An invalidation in between bumps the generation and the
// late write is dropped, so a result computed from an old snapshot is never
// stored after the write that made it stale.
package cache

import (
	"context"
	"errors"

	"github.com/siddhardh4356/slipwise/pkg/api"
)

// ErrMiss is returned by Get when no fresh entry exists.
var ErrMiss = errors.New("cache miss")

// BalanceCache caches GetGroupBalances responses by group ID.
type BalanceCache interface {
	// Generation returns a counter that InvalidateGroup increments.
	Generation(ctx context.Context, groupID string) (int64, error)
	GetGroupBalances(ctx context.Context, groupID string) (*api.GetGroupBalancesResponse, error)

	// SetGroupBalances stores balances only while the group is still at gen.
	SetGroupBalances(ctx context.Context, groupID string, gen int64, balances *api.GetGroupBalancesResponse) error
	InvalidateGroup(ctx context.Context, groupID string) error
}
