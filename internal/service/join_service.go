package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"connectrpc.com/connect"

	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/pkg/api"
)

var errNotCreator = errors.New("only the group creator can resolve join requests")

// JoinGroup asks to join the group behind a join code. The group's creator
// approves or rejects the request. Asking again while a request is pending
// returns the existing request.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Msg.JoinCode))
	if len(code) != models.JoinCodeLength {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("join_code must be %d characters", models.JoinCodeLength))
	}

	group, err := s.store.GetGroupByJoinCode(ctx, code)
	if err != nil {
		s.logger.Warn("JoinGroup failed", "join_code", code, "error", err)
		return nil, storageError(err)
	}
	if group.HasMember(userID) {
		return nil, connect.NewError(connect.CodeAlreadyExists, errors.New("already a member of this group"))
	}

	r := &models.JoinRequest{GroupID: group.ID, UserID: userID}
	created, err := s.store.CreateJoinRequest(ctx, r)
	if err != nil {
		s.logger.Error("JoinGroup failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}

	views, err := s.joinRequestViews(ctx, []*models.JoinRequest{r}, map[string]string{group.ID: group.Name})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Join request filed", "group_id", group.ID, "request_id", r.ID, "created", created)
	return connect.NewResponse(&api.JoinGroupResponse{Request: views[0], Created: created}), nil
}

// ListJoinRequests returns a group's pending requests to any of its members.
func (s *GroupService) ListJoinRequests(ctx context.Context, req *connect.Request[api.ListJoinRequestsRequest]) (*connect.Response[api.ListJoinRequestsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	requests, err := s.store.ListJoinRequests(ctx, group.ID, models.JoinPending)
	if err != nil {
		s.logger.Error("ListJoinRequests failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}
	views, err := s.joinRequestViews(ctx, requests, map[string]string{group.ID: group.Name})
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.ListJoinRequestsResponse{Requests: views}), nil
}

// ListPendingRequests returns the pending requests across every group the
// caller created.
func (s *GroupService) ListPendingRequests(ctx context.Context, req *connect.Request[api.ListPendingRequestsRequest]) (*connect.Response[api.ListPendingRequestsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.store.ListPendingRequestsByCreator(ctx, userID)
	if err != nil {
		s.logger.Error("ListPendingRequests failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}
	views, err := s.joinRequestViews(ctx, requests, nil)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.ListPendingRequestsResponse{Count: len(views), Requests: views}), nil
}

// ResolveJoinRequest approves or rejects a pending request. Only the group's
// creator may resolve; approval makes the requester a member.
func (s *GroupService) ResolveJoinRequest(ctx context.Context, req *connect.Request[api.ResolveJoinRequestRequest]) (*connect.Response[api.ResolveJoinRequestResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var status models.JoinStatus
	switch strings.ToUpper(req.Msg.Action) {
	case api.JoinActionApprove:
		status = models.JoinApproved
	case api.JoinActionReject:
		status = models.JoinRejected
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown action %q", req.Msg.Action))
	}
	if req.Msg.RequestID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("request_id required"))
	}

	pending, err := s.store.GetJoinRequest(ctx, req.Msg.RequestID)
	if err != nil {
		return nil, storageError(err)
	}
	group, err := s.store.GetGroup(ctx, pending.GroupID)
	if err != nil {
		return nil, storageError(err)
	}
	if group.CreatedBy != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotCreator)
	}

	resolved, err := s.store.ResolveJoinRequest(ctx, pending.ID, status, userID)
	if err != nil {
		s.logger.Warn("ResolveJoinRequest failed", "request_id", pending.ID, "error", err)
		return nil, storageError(err)
	}
	if status == models.JoinApproved {
		invalidate(ctx, s.balances, s.logger, group.ID)
	}

	views, err := s.joinRequestViews(ctx, []*models.JoinRequest{resolved}, map[string]string{group.ID: group.Name})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Join request resolved", "group_id", group.ID, "request_id", resolved.ID, "status", resolved.Status)
	return connect.NewResponse(&api.ResolveJoinRequestResponse{Request: views[0]}), nil
}

// joinRequestViews resolves requester and group names. groupNames may be nil
// or partial; missing groups are loaded.
func (s *GroupService) joinRequestViews(ctx context.Context, requests []*models.JoinRequest, groupNames map[string]string) ([]*api.JoinRequest, error) {
	if groupNames == nil {
		groupNames = make(map[string]string)
	}
	userIDs := make([]string, 0, len(requests))
	for _, r := range requests {
		userIDs = append(userIDs, r.UserID)
		if _, ok := groupNames[r.GroupID]; ok {
			continue
		}
		group, err := s.store.GetGroup(ctx, r.GroupID)
		if err != nil {
			return nil, storageError(err)
		}
		groupNames[r.GroupID] = group.Name
	}

	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, storageError(err)
	}

	out := make([]*api.JoinRequest, len(requests))
	for i, r := range requests {
		view := &api.JoinRequest{
			ID:        r.ID,
			GroupID:   r.GroupID,
			GroupName: groupNames[r.GroupID],
			UserID:    r.UserID,
			UserName:  unknownName,
			Status:    string(r.Status),
			CreatedAt: r.CreatedAt,
		}
		if u, ok := users[r.UserID]; ok {
			view.UserName = u.Name
			view.UserEmail = u.Email
		}
		out[i] = view
	}
	return out, nil
}
