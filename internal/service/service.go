// Package service implements the Connect handlers declared in pkg/api/apiconnect.
//
// Handlers load a fresh snapshot of the records they need from storage, hand
// it to the calculator and translate the result back to api messages. Every
// handler except Register, Login and the two password reset calls requires an
// authenticated caller, and group-scoped handlers require the caller to be a
// member of the group.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/siddhardh4356/slipwise/internal/cache"
	"github.com/siddhardh4356/slipwise/internal/middleware"
	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/storage"
)

// unknownName is shown for user IDs that no longer resolve to an account.
const unknownName = "Unknown"

var (
	errNotMember     = errors.New("caller is not a member of this group")
	errGroupRequired = errors.New("group_id required")
)

// callerID returns the authenticated user, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	return userID, nil
}

// storageError maps a repository error to a Connect error.
func storageError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// memberGroup loads a group and checks that userID belongs to it.
func memberGroup(ctx context.Context, groups storage.GroupStore, groupID, userID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupRequired)
	}

	group, err := groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storageError(err)
	}
	if !group.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}

	return group, nil
}

// userNames resolves display names for ids. IDs without an account map to
// unknownName.
func userNames(ctx context.Context, users storage.UserStore, ids ...string) (map[string]string, error) {
	found, err := users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user names: %w", err)
	}

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := found[id]; ok {
			names[id] = u.Name
		} else {
			names[id] = unknownName
		}
	}
	return names, nil
}

// invalidate drops a group's cached balances. Failures are logged only;
// cache entries also expire on their own.
func invalidate(ctx context.Context, balances cache.BalanceCache, logger *slog.Logger, groupID string) {
	if balances == nil {
		return
	}
	if err := balances.InvalidateGroup(ctx, groupID); err != nil {
		logger.Warn("Failed to invalidate cached balances", "group_id", groupID, "error", err)
	}
}
