package calculator

import (
	"cmp"
	"slices"

	"github.com/siddhardh4356/slipwise/internal/money"
)

// GroupLedger is a snapshot of one group's records, as needed to compute
// balances. Members is optional; listed members appear in the result even
// when they have no activity.
type GroupLedger struct {
	GroupID     string
	Members     []string
	Expenses    []ExpenseForBalance
	Splits      map[string][]SplitForBalance
	Settlements []SettlementForBalance
}

// MemberBalance summarizes one member's position in a group.
type MemberBalance struct {
	UserID string
	Paid   money.Cents // Total of expenses this member paid
	Share  money.Cents // Total of this member's own splits
	Net    money.Cents // Positive = owed money, negative = owes money, after settlements
}

// GroupBalances is the result of CalculateGroupBalances.
type GroupBalances struct {
	Members   []MemberBalance
	Debts     Debts
	Transfers []Transfer
}

// CalculateGroupBalances aggregates a group's expenses, applies its
// settlements and simplifies the remaining debts. Members are sorted by
// user id.
func CalculateGroupBalances(ledger GroupLedger) GroupBalances {
	debts := ApplySettlements(BuildPairwiseDebts(ledger.Expenses, ledger.Splits), ledger.Settlements)
	net := NetPositions(debts)

	balances := make(map[string]*MemberBalance)
	member := func(id string) *MemberBalance {
		if b, ok := balances[id]; ok {
			return b
		}
		b := &MemberBalance{UserID: id}
		balances[id] = b
		return b
	}

	for _, id := range ledger.Members {
		member(id)
	}
	for _, e := range ledger.Expenses {
		if e.PaidByID == "" {
			continue
		}
		member(e.PaidByID).Paid += e.Amount
		for _, s := range ledger.Splits[e.ID] {
			member(s.UserID).Share += s.Amount
		}
	}
	for id := range net {
		member(id)
	}

	members := make([]MemberBalance, 0, len(balances))
	for id, b := range balances {
		b.Net = net[id]
		members = append(members, *b)
	}
	slices.SortFunc(members, func(a, b MemberBalance) int {
		return cmp.Compare(a.UserID, b.UserID)
	})

	return GroupBalances{
		Members:   members,
		Debts:     debts,
		Transfers: Simplify(debts),
	}
}
