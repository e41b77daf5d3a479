package api

// SplitInput is a participant of a new expense. Amount is used by EXACT
// splits and Percentage by PERCENTAGE splits.
type SplitInput struct {
	UserID     string  `json:"user_id"`
	Amount     float64 `json:"amount,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
}

type Split struct {
	UserID     string   `json:"user_id"`
	UserName   string   `json:"user_name,omitempty"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
}

type Expense struct {
	ID          string   `json:"id"`
	GroupID     string   `json:"group_id"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	SplitPolicy string   `json:"split_policy"`
	PaidByID    string   `json:"paid_by_id"`
	PaidByName  string   `json:"paid_by_name,omitempty"`
	Category    string   `json:"category"`
	CreatedBy   string   `json:"created_by"`
	CreatedAt   int64    `json:"created_at"`
	Splits      []*Split `json:"splits"`
}

type CalculateSplitRequest struct {
	Amount       float64       `json:"amount"`
	SplitPolicy  string        `json:"split_policy"`
	Participants []*SplitInput `json:"participants"`
}

type CalculateSplitResponse struct {
	Splits []*Split `json:"splits"`
}

type CreateExpenseRequest struct {
	GroupID     string  `json:"group_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	SplitPolicy string  `json:"split_policy"`
	// PaidByID defaults to the caller.
	PaidByID     string        `json:"paid_by_id,omitempty"`
	Category     string        `json:"category,omitempty"`
	Participants []*SplitInput `json:"participants"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesByGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesByGroupResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}
