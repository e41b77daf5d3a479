package calculator

import (
	"cmp"
	"slices"

	"github.com/siddhardh4356/slipwise/internal/money"
)

// Transfer is one payment in a simplified settle-up plan.
type Transfer struct {
	From   string
	To     string
	Amount money.Cents
}

// NetPositions collapses debts into one signed amount per user.
// Positive means the user is owed money.
func NetPositions(debts Debts) map[string]money.Cents {
	net := make(map[string]money.Cents)
	for pair, amount := range debts {
		if amount <= 0 {
			continue
		}
		net[pair.Debtor] -= amount
		net[pair.Creditor] += amount
	}
	return net
}

type party struct {
	userID    string
	remaining money.Cents
}

// byRemaining orders parties by amount descending, then user id ascending.
func byRemaining(a, b party) int {
	if c := cmp.Compare(b.remaining, a.remaining); c != 0 {
		return c
	}
	return cmp.Compare(a.userID, b.userID)
}

// Simplify reduces debts to at most n-1 transfers that leave every user at
// the same net position. Largest debtors are matched with largest creditors
// first. The result is deterministic for a given input.
func Simplify(debts Debts) []Transfer {
	var creditors, debtors []party
	for userID, net := range NetPositions(debts) {
		switch {
		case net > 0:
			creditors = append(creditors, party{userID: userID, remaining: net})
		case net < 0:
			debtors = append(debtors, party{userID: userID, remaining: -net})
		}
	}
	slices.SortFunc(creditors, byRemaining)
	slices.SortFunc(debtors, byRemaining)

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := min(debtor.remaining, creditor.remaining)
		transfers = append(transfers, Transfer{
			From:   debtor.userID,
			To:     creditor.userID,
			Amount: amount,
		})

		debtor.remaining -= amount
		creditor.remaining -= amount
		if debtor.remaining == 0 {
			i++
		}
		if creditor.remaining == 0 {
			j++
		}
	}

	return transfers
}
