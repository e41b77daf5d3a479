package calculator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhardh4356/slipwise/internal/money"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func TestSummarizeSpending(t *testing.T) {
	now := day(2026, time.March, 15)
	entries := []SpendingEntry{
		{GroupName: "Trip", Category: "food", Amount: 1000, CreatedAt: day(2026, time.March, 2)},
		{GroupName: "Home", Category: "rent", Amount: 5000, CreatedAt: day(2026, time.January, 10)},
		{GroupName: "Trip", Category: "", Amount: 300, CreatedAt: day(2025, time.October, 1)},
		{GroupName: "Old", Category: "food", Amount: 9999, CreatedAt: day(2025, time.September, 1)},
	}

	stats := SummarizeSpending(entries, now)

	assert.Equal(t, []NamedAmount{
		{Name: "Oct", Value: 300},
		{Name: "Nov", Value: 0},
		{Name: "Dec", Value: 0},
		{Name: "Jan", Value: 5000},
		{Name: "Feb", Value: 0},
		{Name: "Mar", Value: 1000},
	}, stats.Monthly)
	assert.Equal(t, []NamedAmount{
		{Name: "Home", Value: 5000},
		{Name: "Trip", Value: 1300},
	}, stats.ByGroup)
	assert.Equal(t, []NamedAmount{
		{Name: "rent", Value: 5000},
		{Name: "food", Value: 1000},
		{Name: "other", Value: 300},
	}, stats.ByCategory)
}

func TestSummarizeSpendingTopGroups(t *testing.T) {
	now := day(2026, time.March, 15)
	var entries []SpendingEntry
	for i := range 7 {
		entries = append(entries, SpendingEntry{
			GroupName: fmt.Sprintf("g%d", i),
			Amount:    money.Cents(100 * (i + 1)),
			CreatedAt: now,
		})
	}

	stats := SummarizeSpending(entries, now)

	require.Len(t, stats.ByGroup, 5)
	assert.Equal(t, "g6", stats.ByGroup[0].Name)
	assert.Equal(t, "g2", stats.ByGroup[4].Name)
	assert.Len(t, stats.ByCategory, 1)
}

func TestSummarizeSpendingEmpty(t *testing.T) {
	stats := SummarizeSpending(nil, day(2026, time.March, 15))

	assert.Len(t, stats.Monthly, 6)
	assert.Empty(t, stats.ByGroup)
	assert.Empty(t, stats.ByCategory)
}
