package api

// Member is a group member with a resolved display name.
type Member struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []*Member `json:"members"`
	CreatedBy string    `json:"created_by"`
	JoinCode  string    `json:"join_code"`
	CreatedAt int64     `json:"created_at"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
	// MemberIDs are added alongside the caller, who is always a member.
	MemberIDs []string `json:"member_ids,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddGroupMembersRequest struct {
	GroupID string   `json:"group_id"`
	UserIDs []string `json:"user_ids"`
}

type AddGroupMembersResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

// Balance is one simplified settle-up payment.
type Balance struct {
	FromUserID   string  `json:"from_user_id"`
	FromUserName string  `json:"from_user_name"`
	ToUserID     string  `json:"to_user_id"`
	ToUserName   string  `json:"to_user_name"`
	Amount       float64 `json:"amount"`
}

// MemberBalance is a member's position in a group. Net > 0 means the member is owed.
type MemberBalance struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Paid   float64 `json:"paid"`
	Share  float64 `json:"share"`
	Net    float64 `json:"net"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	GroupID    string           `json:"group_id"`
	GroupName  string           `json:"group_name"`
	Balances   []*Balance       `json:"balances"`
	Members    []*MemberBalance `json:"members"`
	TotalSpent float64          `json:"total_spent"`
}

const (
	TransactionExpense    = "expense"
	TransactionSettlement = "settlement"
)

// Transaction is an entry in a group's activity feed.
type Transaction struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	FromUserID  string  `json:"from_user_id"`
	FromName    string  `json:"from_name"`
	ToUserID    string  `json:"to_user_id,omitempty"`
	ToName      string  `json:"to_name,omitempty"`
	Category    string  `json:"category,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

type ListGroupTransactionsRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}
