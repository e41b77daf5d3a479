package calculator

import "github.com/siddhardh4356/slipwise/internal/money"

// UserSummary is a user's position across all of their groups.
type UserSummary struct {
	TotalOwes  money.Cents
	TotalOwed  money.Cents
	NetBalance money.Cents
}

// SummarizeUser totals what userID owes and is owed across groups.
//
// Per group, what others owe the user is reduced by settlements the user
// received, and what the user owes is reduced by settlements the user paid.
// Receiving more than owed turns the excess into a debt, and paying more than
// owed turns the excess into a credit, the same way ApplySettlements treats
// over-payment.
func SummarizeUser(userID string, groups []GroupLedger) UserSummary {
	var sum UserSummary
	for _, g := range groups {
		var rawOwed, rawOwes, settledIn, settledOut money.Cents

		for _, e := range g.Expenses {
			if e.PaidByID == "" {
				continue
			}
			for _, s := range g.Splits[e.ID] {
				switch {
				case s.UserID == e.PaidByID:
				case e.PaidByID == userID:
					rawOwed += s.Amount
				case s.UserID == userID:
					rawOwes += s.Amount
				}
			}
		}
		for _, s := range g.Settlements {
			if s.FromUserID == s.ToUserID {
				continue
			}
			if s.ToUserID == userID {
				settledIn += s.Amount
			}
			if s.FromUserID == userID {
				settledOut += s.Amount
			}
		}

		netOwed := rawOwed - settledIn
		netOwes := rawOwes - settledOut
		if netOwed >= 0 {
			sum.TotalOwed += netOwed
		} else {
			sum.TotalOwes += -netOwed
		}
		if netOwes >= 0 {
			sum.TotalOwes += netOwes
		} else {
			sum.TotalOwed += -netOwes
		}
	}

	sum.NetBalance = sum.TotalOwed - sum.TotalOwes
	return sum
}
