package models

import (
	"crypto/rand"
	"slices"
)

// JoinCodeLength is the number of characters in a group join code.
const JoinCodeLength = 8

// Group is a set of users who share expenses and settle up with each other.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Members holds the user IDs of everyone in the group.
	Members []string

	// CreatedBy is the user ID of the creator, who is always a member and
	// approves join requests.
	CreatedBy string

	// JoinCode lets other users ask to join. Unique across groups.
	JoinCode string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}

// NewJoinCode returns a random upper-case base32 join code.
func NewJoinCode() string {
	return rand.Text()[:JoinCodeLength]
}
