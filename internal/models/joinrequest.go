package models

// JoinStatus is the state of a JoinRequest.
type JoinStatus string

const (
	JoinPending  JoinStatus = "PENDING"
	JoinApproved JoinStatus = "APPROVED"
	JoinRejected JoinStatus = "REJECTED"
)

// JoinRequest is a user's request to join a group by its join code. A user
// has at most one pending request per group.
type JoinRequest struct {
	ID      string
	GroupID string
	UserID  string
	Status  JoinStatus

	CreatedAt int64

	// ResolvedBy and ResolvedAt are set once the request is approved or rejected.
	ResolvedBy string
	ResolvedAt int64
}
