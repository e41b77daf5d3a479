package api

const (
	JoinStatusPending  = "PENDING"
	JoinStatusApproved = "APPROVED"
	JoinStatusRejected = "REJECTED"
)

const (
	JoinActionApprove = "APPROVE"
	JoinActionReject  = "REJECT"
)

// JoinRequest is a user's pending or resolved request to join a group.
type JoinRequest struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// JoinGroupRequest asks to join the group with the given join code. Codes
// are matched case-insensitively.
type JoinGroupRequest struct {
	JoinCode string `json:"join_code"`
}

type JoinGroupResponse struct {
	Request *JoinRequest `json:"request"`
	// Created is false when the caller already had a pending request.
	Created bool `json:"created"`
}

type ListJoinRequestsRequest struct {
	GroupID string `json:"group_id"`
}

type ListJoinRequestsResponse struct {
	Requests []*JoinRequest `json:"requests"`
}

// ListPendingRequestsRequest lists pending requests for every group the
// caller created.
type ListPendingRequestsRequest struct{}

type ListPendingRequestsResponse struct {
	Count    int            `json:"count"`
	Requests []*JoinRequest `json:"requests"`
}

type ResolveJoinRequestRequest struct {
	RequestID string `json:"request_id"`
	// Action is JoinActionApprove or JoinActionReject.
	Action string `json:"action"`
}

type ResolveJoinRequestResponse struct {
	Request *JoinRequest `json:"request"`
}
