package models

import "github.com/siddhardh4356/slipwise/internal/money"

// Settlement records a direct payment between two group members.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUserID is the member who paid.
	FromUserID string

	// ToUserID is the member who received the payment.
	ToUserID string

	// Amount is the payment amount. Always positive.
	Amount money.Cents

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// Note is an optional description for the settlement.
	Note string
}
