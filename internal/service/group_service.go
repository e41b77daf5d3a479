package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
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

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store    storage.Store
	balances cache.BalanceCache
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewGroupService creates a GroupService. balances and m may be nil.
func NewGroupService(store storage.Store, balances cache.BalanceCache, m *metrics.Metrics, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, balances: balances, metrics: m, logger: logger}
}

// knownUsers returns an InvalidArgument error if any of ids has no account.
func knownUsers(ctx context.Context, users storage.UserStore, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return storageError(err)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown user %q", id))
		}
	}
	return nil
}

func (s *GroupService) groupResponse(ctx context.Context, group *models.Group) (*api.Group, error) {
	names, err := userNames(ctx, s.store, group.Members...)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return toAPIGroup(group, names), nil
}

// CreateGroup creates a new group. The caller is always its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateGroup request received", "name", req.Msg.Name, "members_count", len(req.Msg.MemberIDs))

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("group name required"))
	}

	members := []string{userID}
	for _, id := range req.Msg.MemberIDs {
		if id != "" && !slices.Contains(members, id) {
			members = append(members, id)
		}
	}
	if err := knownUsers(ctx, s.store, members[1:]); err != nil {
		return nil, err
	}

	group := &models.Group{Name: name, Members: members, CreatedBy: userID}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, storageError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID)

	resp, err := s.groupResponse(ctx, group)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.CreateGroupResponse{Group: resp}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		s.logger.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, err
	}

	resp, err := s.groupResponse(ctx, group)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: resp}), nil
}

// ListGroups retrieves the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		s.logger.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	var ids []string
	for _, g := range groups {
		ids = append(ids, g.Members...)
	}
	names, err := userNames(ctx, s.store, ids...)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g, names)
	}

	s.logger.Info("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddGroupMembers adds existing users to a group.
func (s *GroupService) AddGroupMembers(ctx context.Context, req *connect.Request[api.AddGroupMembersRequest]) (*connect.Response[api.AddGroupMembersResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}
	if len(req.Msg.UserIDs) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("user_ids required"))
	}
	if err := knownUsers(ctx, s.store, req.Msg.UserIDs); err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMembers(ctx, req.Msg.GroupID, req.Msg.UserIDs); err != nil {
		s.logger.Error("AddGroupMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}
	invalidate(ctx, s.balances, s.logger, req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storageError(err)
	}
	resp, err := s.groupResponse(ctx, group)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Group members added", "group_id", group.ID, "added", len(req.Msg.UserIDs))
	return connect.NewResponse(&api.AddGroupMembersResponse{Group: resp}), nil
}

// DeleteGroup removes a group with all of its expenses and settlements.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}
	invalidate(ctx, s.balances, s.logger, req.Msg.GroupID)

	s.logger.Info("Group deleted", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// GetGroupBalances returns the simplified settle-up payments of a group and
// every member's net position.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID
	s.logger.Info("GetGroupBalances request received", "group_id", groupID)

	group, err := memberGroup(ctx, s.store, groupID, userID)
	if err != nil {
		return nil, err
	}

	// gen is taken before the snapshot so a write landing in between makes the
	// cache drop this result instead of storing it.
	gen, cacheable := int64(0), false
	if s.balances != nil {
		gen, err = s.balances.Generation(ctx, groupID)
		if err != nil {
			s.logger.Warn("Balance cache generation lookup failed", "group_id", groupID, "error", err)
		} else {
			cacheable = true
		}
	}

	if cacheable {
		cached, err := s.balances.GetGroupBalances(ctx, groupID)
		switch {
		case err == nil:
			s.metrics.CacheLookup(true)
			return connect.NewResponse(cached), nil
		case errors.Is(err, cache.ErrMiss):
			s.metrics.CacheLookup(false)
		default:
			s.logger.Warn("Balance cache lookup failed", "group_id", groupID, "error", err)
		}
	}

	snap, err := loadSnapshot(ctx, s.store, group)
	if err != nil {
		s.logger.Error("GetGroupBalances failed", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}
	names, err := userNames(ctx, s.store, snap.userIDs()...)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	result := calculator.CalculateGroupBalances(snap.ledger())
	s.metrics.BalanceComputed("group")

	resp := &api.GetGroupBalancesResponse{
		GroupID:   group.ID,
		GroupName: group.Name,
		Balances:  make([]*api.Balance, len(result.Transfers)),
		Members:   make([]*api.MemberBalance, len(result.Members)),
	}
	for i, t := range result.Transfers {
		resp.Balances[i] = &api.Balance{
			FromUserID:   t.From,
			FromUserName: nameOr(names, t.From),
			ToUserID:     t.To,
			ToUserName:   nameOr(names, t.To),
			Amount:       t.Amount.Float64(),
		}
	}
	for i, m := range result.Members {
		resp.Members[i] = &api.MemberBalance{
			UserID: m.UserID,
			Name:   nameOr(names, m.UserID),
			Paid:   m.Paid.Float64(),
			Share:  m.Share.Float64(),
			Net:    m.Net.Float64(),
		}
	}
	var total money.Cents
	for _, e := range snap.expenses {
		total += e.Amount
	}
	resp.TotalSpent = total.Float64()

	if cacheable {
		if err := s.balances.SetGroupBalances(ctx, groupID, gen, resp); err != nil {
			s.logger.Warn("Failed to cache balances", "group_id", groupID, "error", err)
		}
	}

	s.logger.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(snap.expenses),
		"settlements_count", len(snap.settlements),
		"transfers_count", len(resp.Balances),
	)
	return connect.NewResponse(resp), nil
}

// ListGroupTransactions merges a group's expenses and settlements into one
// feed, newest first.
func (s *GroupService) ListGroupTransactions(ctx context.Context, req *connect.Request[api.ListGroupTransactionsRequest]) (*connect.Response[api.ListGroupTransactionsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}
	snap, err := loadSnapshot(ctx, s.store, group)
	if err != nil {
		s.logger.Error("ListGroupTransactions failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}
	names, err := userNames(ctx, s.store, snap.userIDs()...)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	txs := make([]*api.Transaction, 0, len(snap.expenses)+len(snap.settlements))
	for _, e := range snap.expenses {
		txs = append(txs, &api.Transaction{
			ID:          e.ID,
			Type:        api.TransactionExpense,
			Description: e.Description,
			Amount:      e.Amount.Float64(),
			FromUserID:  e.PaidByID,
			FromName:    nameOr(names, e.PaidByID),
			Category:    e.Category,
			CreatedAt:   e.CreatedAt,
		})
	}
	for _, st := range snap.settlements {
		from, to := nameOr(names, st.FromUserID), nameOr(names, st.ToUserID)
		txs = append(txs, &api.Transaction{
			ID:          st.ID,
			Type:        api.TransactionSettlement,
			Description: from + " paid " + to,
			Amount:      st.Amount.Float64(),
			FromUserID:  st.FromUserID,
			FromName:    from,
			ToUserID:    st.ToUserID,
			ToName:      to,
			CreatedAt:   st.CreatedAt,
		})
	}
	slices.SortStableFunc(txs, func(a, b *api.Transaction) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})

	return connect.NewResponse(&api.ListGroupTransactionsResponse{Transactions: txs}), nil
}
