package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/siddhardh4356/slipwise/internal/cache"
	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/money"
	"github.com/siddhardh4356/slipwise/internal/storage"
	"github.com/siddhardh4356/slipwise/pkg/api"
	"github.com/siddhardh4356/slipwise/pkg/api/apiconnect"
)

var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	store    storage.Store
	balances cache.BalanceCache
	logger   *slog.Logger
}

// NewSettlementService creates a SettlementService. balances may be nil.
func NewSettlementService(store storage.Store, balances cache.BalanceCache, logger *slog.Logger) *SettlementService {
	return &SettlementService{store: store, balances: balances, logger: logger}
}

// CreateSettlement records a direct payment between two group members.
func (s *SettlementService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	s.logger.Info("CreateSettlement request received",
		"group_id", msg.GroupID,
		"from_user_id", msg.FromUserID,
		"to_user_id", msg.ToUserID,
		"amount", msg.Amount,
	)

	if msg.FromUserID == "" || msg.ToUserID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("from_user_id and to_user_id are required"))
	}
	amount := money.FromFloat(msg.Amount)
	if amount <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("amount must be positive"))
	}
	if msg.FromUserID == msg.ToUserID {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("cannot settle with yourself"))
	}

	group, err := memberGroup(ctx, s.store, msg.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(msg.FromUserID) || !group.HasMember(msg.ToUserID) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("both users must be members of the group"))
	}

	settlement := &models.Settlement{
		GroupID:    group.ID,
		FromUserID: msg.FromUserID,
		ToUserID:   msg.ToUserID,
		Amount:     amount,
		Note:       strings.TrimSpace(msg.Note),
		CreatedBy:  userID,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("CreateSettlement failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}
	invalidate(ctx, s.balances, s.logger, group.ID)

	s.logger.Info("Settlement created", "settlement_id", settlement.ID, "group_id", group.ID)
	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlementsByGroup lists a group's settlements, newest first.
func (s *SettlementService) ListSettlementsByGroup(ctx context.Context, req *connect.Request[api.ListSettlementsByGroupRequest]) (*connect.Response[api.ListSettlementsByGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListSettlementsByGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}

	return connect.NewResponse(&api.ListSettlementsByGroupResponse{Settlements: out}), nil
}

// DeleteSettlement removes a settlement. Any group member may delete it.
func (s *SettlementService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.SettlementID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("settlement_id required"))
	}

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		return nil, storageError(err)
	}
	if _, err := memberGroup(ctx, s.store, settlement.GroupID, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		s.logger.Error("DeleteSettlement failed", "settlement_id", settlement.ID, "error", err)
		return nil, storageError(err)
	}
	invalidate(ctx, s.balances, s.logger, settlement.GroupID)

	s.logger.Info("Settlement deleted", "settlement_id", settlement.ID, "group_id", settlement.GroupID)
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
