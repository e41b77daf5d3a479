// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/siddhardh4356/slipwise/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned (wrapped) when a record is not in the state the
	// write requires, such as resolving a join request twice.
	ErrConflict = errors.New("conflict")
)

// Store defines the persistence operations used by the services.
// Implementations return ErrNotFound, wrapped with context, for missing records.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	SettlementStore
	JoinRequestStore
	PasswordResetStore
	SearchStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID. Unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup assigns ID and CreatedAt when unset.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupByJoinCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByMember returns every group userID belongs to, newest first.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMembers adds users to a group. Existing members are ignored.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// DeleteGroup removes a group with its expenses and settlements.
	DeleteGroup(ctx context.Context, groupID string) error
}

// ExpenseStore persists expenses together with their splits.
type ExpenseStore interface {
	// CreateExpense stores the expense and all of its splits atomically.
	// newMembers are added to the expense's group in the same transaction.
	CreateExpense(ctx context.Context, expense *models.Expense, newMembers ...string) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses with splits, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error
}

// SettlementStore persists settlements.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
	DeleteSettlement(ctx context.Context, settlementID string) error
}

// JoinRequestStore persists requests to join a group by its join code.
type JoinRequestStore interface {
	// CreateJoinRequest stores r unless the user already has a pending request
	// for the group. In that case r is overwritten with the existing request
	// and created is false.
	CreateJoinRequest(ctx context.Context, r *models.JoinRequest) (created bool, err error)
	GetJoinRequest(ctx context.Context, requestID string) (*models.JoinRequest, error)

	// ListJoinRequests returns a group's requests in status, newest first.
	ListJoinRequests(ctx context.Context, groupID string, status models.JoinStatus) ([]*models.JoinRequest, error)

	// ListPendingRequestsByCreator returns pending requests for every group
	// created by creatorID, newest first.
	ListPendingRequestsByCreator(ctx context.Context, creatorID string) ([]*models.JoinRequest, error)

	// ResolveJoinRequest moves a pending request to status. Approving adds the
	// user to the group in the same transaction. A request that is no longer
	// pending yields ErrConflict.
	ResolveJoinRequest(ctx context.Context, requestID string, status models.JoinStatus, resolvedBy string) (*models.JoinRequest, error)
}

// PasswordResetStore persists single-use password reset tokens. Only token
// hashes are stored.
type PasswordResetStore interface {
	// CreatePasswordReset replaces any outstanding tokens of userID.
	CreatePasswordReset(ctx context.Context, userID, tokenHash string, expiresAt int64) error

	// ResetPassword consumes the token and sets the user's password hash in
	// one transaction. Unknown or expired tokens yield ErrNotFound.
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, now int64) (userID string, err error)
}

// SearchStore matches records by case-insensitive substring.
type SearchStore interface {
	// SearchGroups matches name or join code among memberID's groups.
	// Members are not loaded.
	SearchGroups(ctx context.Context, memberID, query string, limit int) ([]*models.Group, error)

	// SearchUsers matches name or email across all users.
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error)

	// SearchExpenses matches descriptions in memberID's groups, newest first.
	// Splits are not loaded.
	SearchExpenses(ctx context.Context, memberID, query string, limit int) ([]*models.Expense, error)
}
