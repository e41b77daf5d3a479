package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/siddhardh4356/slipwise/internal/cache"
	"github.com/siddhardh4356/slipwise/internal/calculator"
	"github.com/siddhardh4356/slipwise/internal/metrics"
	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/money"
	"github.com/siddhardh4356/slipwise/internal/storage"
	"github.com/siddhardh4356/slipwise/pkg/api"
	"github.com/siddhardh4356/slipwise/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store    storage.Store
	balances cache.BalanceCache
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewExpenseService creates an ExpenseService. balances and m may be nil.
func NewExpenseService(store storage.Store, balances cache.BalanceCache, m *metrics.Metrics, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, balances: balances, metrics: m, logger: logger}
}

// split runs the split calculator on request values.
func (s *ExpenseService) split(amount float64, policy string, participants []*api.SplitInput) ([]calculator.SplitResult, error) {
	inputs := make([]calculator.SplitInput, 0, len(participants))
	for _, p := range participants {
		if p == nil {
			continue
		}
		inputs = append(inputs, calculator.SplitInput{
			UserID:     p.UserID,
			Amount:     money.FromFloat(p.Amount),
			Percentage: p.Percentage,
		})
	}

	results, err := calculator.CalculateSplit(money.FromFloat(amount), models.SplitPolicy(strings.ToUpper(policy)), inputs)
	if err != nil {
		var invalid *calculator.InvalidSplitError
		if errors.As(err, &invalid) {
			s.metrics.SplitRejected(string(invalid.Policy))
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return results, nil
}

// CalculateSplit previews a split without recording anything.
func (s *ExpenseService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	s.logger.Info("CalculateSplit request received",
		"amount", req.Msg.Amount,
		"split_policy", req.Msg.SplitPolicy,
		"participants_count", len(req.Msg.Participants),
	)

	results, err := s.split(req.Msg.Amount, req.Msg.SplitPolicy, req.Msg.Participants)
	if err != nil {
		s.logger.Warn("CalculateSplit rejected", "error", err)
		return nil, err
	}

	splits := make([]*api.Split, len(results))
	for i, r := range results {
		splits[i] = &api.Split{UserID: r.UserID, Amount: r.Amount.Float64(), Percentage: r.Percentage}
	}

	return connect.NewResponse(&api.CalculateSplitResponse{Splits: splits}), nil
}

// CreateExpense records an expense and its splits. Participants who are not
// yet members of the group are added to it.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	s.logger.Info("CreateExpense request received",
		"group_id", msg.GroupID,
		"amount", msg.Amount,
		"split_policy", msg.SplitPolicy,
	)

	group, err := memberGroup(ctx, s.store, msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(msg.Description)
	if description == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("description required"))
	}
	payer := msg.PaidByID
	if payer == "" {
		payer = userID
	}
	if !group.HasMember(payer) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("payer is not a member of the group"))
	}

	results, err := s.split(msg.Amount, msg.SplitPolicy, msg.Participants)
	if err != nil {
		s.logger.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, err
	}

	var newMembers []string
	for _, r := range results {
		if !group.HasMember(r.UserID) {
			newMembers = append(newMembers, r.UserID)
		}
	}
	if err := knownUsers(ctx, s.store, newMembers); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: description,
		Amount:      money.FromFloat(msg.Amount),
		SplitPolicy: models.SplitPolicy(strings.ToUpper(msg.SplitPolicy)),
		PaidByID:    payer,
		Category:    strings.ToLower(strings.TrimSpace(msg.Category)),
		CreatedBy:   userID,
		Splits:      make([]models.ExpenseSplit, len(results)),
	}
	for i, r := range results {
		expense.Splits[i] = models.ExpenseSplit{UserID: r.UserID, Amount: r.Amount, Percentage: r.Percentage}
	}

	if err := s.store.CreateExpense(ctx, expense, newMembers...); err != nil {
		s.logger.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}
	if len(newMembers) > 0 {
		s.logger.Info("Participants added to group", "group_id", group.ID, "added", len(newMembers))
	}
	invalidate(ctx, s.balances, s.logger, group.ID)

	names, err := userNames(ctx, s.store, expenseUserIDs(expense)...)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense, names)}), nil
}

func expenseUserIDs(e *models.Expense) []string {
	ids := []string{e.PaidByID}
	for _, split := range e.Splits {
		ids = append(ids, split.UserID)
	}
	return ids
}

// expenseForMember loads an expense and checks the caller belongs to its group.
func (s *ExpenseService) expenseForMember(ctx context.Context, expenseID, userID string) (*models.Expense, error) {
	if expenseID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("expense_id required"))
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, storageError(err)
	}
	if _, err := memberGroup(ctx, s.store, expense.GroupID, userID); err != nil {
		return nil, err
	}

	return expense, nil
}

// GetExpense retrieves an expense with its splits.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.expenseForMember(ctx, req.Msg.ExpenseID, userID)
	if err != nil {
		s.logger.Warn("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, err
	}
	names, err := userNames(ctx, s.store, expenseUserIDs(expense)...)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense, names)}), nil
}

// ListExpensesByGroup lists a group's expenses, newest first.
func (s *ExpenseService) ListExpensesByGroup(ctx context.Context, req *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListExpensesByGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	var ids []string
	for _, e := range expenses {
		ids = append(ids, expenseUserIDs(e)...)
	}
	names, err := userNames(ctx, s.store, ids...)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e, names)
	}

	s.logger.Info("ListExpensesByGroup successful", "group_id", req.Msg.GroupID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesByGroupResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.expenseForMember(ctx, req.Msg.ExpenseID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storageError(err)
	}
	invalidate(ctx, s.balances, s.logger, expense.GroupID)

	s.logger.Info("Expense deleted", "expense_id", expense.ID, "group_id", expense.GroupID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
