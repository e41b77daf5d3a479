package models

import "github.com/siddhardh4356/slipwise/internal/money"

// SplitPolicy selects how an expense amount is divided among participants.
type SplitPolicy string

const (
	// SplitEqual divides the amount evenly.
	SplitEqual SplitPolicy = "EQUAL"
	// SplitExact uses caller-supplied amounts per participant.
	SplitExact SplitPolicy = "EXACT"
	// SplitPercentage uses caller-supplied percentages per participant.
	SplitPercentage SplitPolicy = "PERCENTAGE"
)

// DefaultCategory is used when an expense is recorded without a category.
const DefaultCategory = "other"

// Valid reports whether p is one of the known policies.
func (p SplitPolicy) Valid() bool {
	switch p {
	case SplitEqual, SplitExact, SplitPercentage:
		return true
	}
	return false
}

// Expense is a single payment made by one member on behalf of several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	GroupID     string
	Description string

	// Amount is the total paid by PaidByID.
	Amount money.Cents

	SplitPolicy SplitPolicy

	// PaidByID is the user ID of the member who paid.
	PaidByID string

	// Category is a free-form label used for spending statistics.
	Category string

	CreatedBy string
	CreatedAt int64

	// Splits are the per-participant shares. They sum to Amount.
	Splits []ExpenseSplit
}

// ExpenseSplit is one participant's share of an expense.
type ExpenseSplit struct {
	ID        string
	ExpenseID string
	UserID    string
	Amount    money.Cents

	// Percentage is set only for PERCENTAGE splits.
	Percentage *float64
}
