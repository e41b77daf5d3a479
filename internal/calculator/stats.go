package calculator

import (
	"cmp"
	"slices"
	"time"

	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/money"
)

const (
	statsMonths    = 6
	statsTopGroups = 5
)

// SpendingEntry is one of a user's splits, joined with its expense.
type SpendingEntry struct {
	GroupName string
	Category  string
	Amount    money.Cents
	CreatedAt time.Time
}

// NamedAmount is a labelled total.
type NamedAmount struct {
	Name  string
	Value money.Cents
}

// SpendingStats is a user's share of spending over recent months.
type SpendingStats struct {
	Monthly    []NamedAmount // Oldest month first, short month names
	ByGroup    []NamedAmount // Top groups, largest first
	ByCategory []NamedAmount // All categories, largest first
}

// StatsWindowStart returns the earliest time included by SummarizeSpending.
func StatsWindowStart(now time.Time) time.Time {
	return now.AddDate(0, -statsMonths, 0)
}

// SummarizeSpending groups entries from the last six months by calendar
// month, by group and by category. Entries outside the window are skipped.
func SummarizeSpending(entries []SpendingEntry, now time.Time) SpendingStats {
	since := StatsWindowStart(now)

	type monthKey struct {
		year  int
		month time.Month
	}
	monthly := make(map[monthKey]money.Cents)
	groups := make(map[string]money.Cents)
	categories := make(map[string]money.Cents)

	for _, e := range entries {
		if e.CreatedAt.Before(since) {
			continue
		}
		t := e.CreatedAt.In(now.Location())
		monthly[monthKey{t.Year(), t.Month()}] += e.Amount

		group := e.GroupName
		if group == "" {
			group = "Unknown"
		}
		groups[group] += e.Amount

		category := e.Category
		if category == "" {
			category = models.DefaultCategory
		}
		categories[category] += e.Amount
	}

	stats := SpendingStats{Monthly: make([]NamedAmount, 0, statsMonths)}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := statsMonths - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		stats.Monthly = append(stats.Monthly, NamedAmount{
			Name:  m.Format("Jan"),
			Value: monthly[monthKey{m.Year(), m.Month()}],
		})
	}

	stats.ByGroup = rank(groups)
	if len(stats.ByGroup) > statsTopGroups {
		stats.ByGroup = stats.ByGroup[:statsTopGroups]
	}
	stats.ByCategory = rank(categories)

	return stats
}

func rank(totals map[string]money.Cents) []NamedAmount {
	out := make([]NamedAmount, 0, len(totals))
	for name, v := range totals {
		out = append(out, NamedAmount{Name: name, Value: v})
	}
	slices.SortFunc(out, func(a, b NamedAmount) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
