package calculator

import (
	"maps"

	"github.com/siddhardh4356/slipwise/internal/money"
)

// Pair identifies a directed debt: Debtor owes Creditor.
type Pair struct {
	Debtor   string
	Creditor string
}

// Reverse returns the pair in the opposite direction.
func (p Pair) Reverse() Pair {
	return Pair{Debtor: p.Creditor, Creditor: p.Debtor}
}

// Debts maps each directed pair to a positive amount. At most one direction
// is present for any two users.
type Debts map[Pair]money.Cents

// ExpenseForBalance holds the expense fields needed for balance calculations.
type ExpenseForBalance struct {
	ID       string
	PaidByID string
	Amount   money.Cents
}

// SplitForBalance is one participant's share of an expense.
type SplitForBalance struct {
	UserID string
	Amount money.Cents
}

// SettlementForBalance is a payment of Amount from FromUserID to ToUserID.
type SettlementForBalance struct {
	FromUserID string
	ToUserID   string
	Amount     money.Cents
}

// Add records that debtor owes creditor amount, netting it against any
// existing debt in the other direction.
func (d Debts) Add(debtor, creditor string, amount money.Cents) {
	if amount <= 0 || debtor == creditor {
		return
	}
	pair := Pair{Debtor: debtor, Creditor: creditor}
	rev := pair.Reverse()

	existing, ok := d[rev]
	if !ok {
		d[pair] += amount
		return
	}

	switch {
	case existing > amount:
		d[rev] = existing - amount
	case existing < amount:
		delete(d, rev)
		d[pair] = amount - existing
	default:
		delete(d, rev)
	}
}

// Between returns the signed amount between a and b: positive when a owes b,
// negative when b owes a.
func (d Debts) Between(a, b string) money.Cents {
	if amt, ok := d[Pair{Debtor: a, Creditor: b}]; ok {
		return amt
	}
	return -d[Pair{Debtor: b, Creditor: a}]
}

// BuildPairwiseDebts aggregates expense splits into pairwise debts. Each split
// owed by someone other than the payer becomes a debt to the payer. Splits of
// expenses missing from expenses are ignored.
func BuildPairwiseDebts(expenses []ExpenseForBalance, splitsByExpense map[string][]SplitForBalance) Debts {
	debts := make(Debts)
	for _, e := range expenses {
		if e.PaidByID == "" {
			continue
		}
		for _, s := range splitsByExpense[e.ID] {
			if s.UserID == e.PaidByID {
				continue
			}
			debts.Add(s.UserID, e.PaidByID, s.Amount)
		}
	}
	return debts
}

// ApplySettlements folds payments into debts and returns the result. The
// input map is not modified.
//
// A payment from F to T is recorded as T owing F the paid amount. That
// reduces an existing debt of F to T, clears it when equal, flips it on
// over-payment, and otherwise leaves T owing F.
func ApplySettlements(debts Debts, settlements []SettlementForBalance) Debts {
	out := maps.Clone(debts)
	if out == nil {
		out = make(Debts)
	}
	for _, s := range settlements {
		out.Add(s.ToUserID, s.FromUserID, s.Amount)
	}
	return out
}
