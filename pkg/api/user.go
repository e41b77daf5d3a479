package api

// GetUserBalanceRequest asks for a user's totals across all groups.
// UserID defaults to the caller; other users are not visible.
type GetUserBalanceRequest struct {
	UserID string `json:"user_id,omitempty"`
}

type GetUserBalanceResponse struct {
	UserID     string  `json:"user_id"`
	TotalOwes  float64 `json:"total_owes"`
	TotalOwed  float64 `json:"total_owed"`
	NetBalance float64 `json:"net_balance"`
}

type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type GetUserStatsRequest struct{}

type GetUserStatsResponse struct {
	Monthly    []*NamedValue `json:"monthly"`
	ByGroup    []*NamedValue `json:"by_group"`
	ByCategory []*NamedValue `json:"by_category"`
}

const (
	SearchResultGroup   = "group"
	SearchResultUser    = "user"
	SearchResultExpense = "expense"
)

// SearchResult is one match of a quick search. GroupID is set for groups
// and expenses.
type SearchResult struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	GroupID  string `json:"group_id,omitempty"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SearchResponse struct {
	Results []*SearchResult `json:"results"`
}
