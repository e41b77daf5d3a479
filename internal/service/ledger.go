package service

import (
	"context"
	"fmt"

	"github.com/siddhardh4356/slipwise/internal/calculator"
	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/storage"
)

// snapshot is everything recorded for one group at the time it was loaded.
type snapshot struct {
	group       *models.Group
	expenses    []*models.Expense
	settlements []*models.Settlement
}

func loadSnapshot(ctx context.Context, store storage.Store, group *models.Group) (*snapshot, error) {
	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settlements: %w", err)
	}

	return &snapshot{group: group, expenses: expenses, settlements: settlements}, nil
}

// ledger converts the snapshot into calculator input.
func (s *snapshot) ledger() calculator.GroupLedger {
	ledger := calculator.GroupLedger{
		GroupID:     s.group.ID,
		Members:     s.group.Members,
		Expenses:    make([]calculator.ExpenseForBalance, 0, len(s.expenses)),
		Splits:      make(map[string][]calculator.SplitForBalance, len(s.expenses)),
		Settlements: make([]calculator.SettlementForBalance, 0, len(s.settlements)),
	}

	for _, e := range s.expenses {
		ledger.Expenses = append(ledger.Expenses, calculator.ExpenseForBalance{
			ID:       e.ID,
			PaidByID: e.PaidByID,
			Amount:   e.Amount,
		})
		splits := make([]calculator.SplitForBalance, len(e.Splits))
		for i, split := range e.Splits {
			splits[i] = calculator.SplitForBalance{UserID: split.UserID, Amount: split.Amount}
		}
		ledger.Splits[e.ID] = splits
	}
	for _, st := range s.settlements {
		ledger.Settlements = append(ledger.Settlements, calculator.SettlementForBalance{
			FromUserID: st.FromUserID,
			ToUserID:   st.ToUserID,
			Amount:     st.Amount,
		})
	}

	return ledger
}

// userIDs returns every user referenced by the snapshot, members first.
func (s *snapshot) userIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, id := range s.group.Members {
		add(id)
	}
	for _, e := range s.expenses {
		add(e.PaidByID)
		for _, split := range e.Splits {
			add(split.UserID)
		}
	}
	for _, st := range s.settlements {
		add(st.FromUserID)
		add(st.ToUserID)
	}

	return ids
}
