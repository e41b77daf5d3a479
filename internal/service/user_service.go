package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/siddhardh4356/slipwise/internal/calculator"
	"github.com/siddhardh4356/slipwise/internal/metrics"
	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/storage"
	"github.com/siddhardh4356/slipwise/pkg/api"
	"github.com/siddhardh4356/slipwise/pkg/api/apiconnect"
)

var _ apiconnect.UserServiceHandler = (*UserService)(nil)

// snapshotConcurrency bounds the groups loaded at once for one user.
const snapshotConcurrency = 8

const (
	minSearchQuery = 2
	searchLimit    = 5
)

// UserService implements the Connect UserService.
type UserService struct {
	store   storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewUserService creates a UserService. m may be nil.
func NewUserService(store storage.Store, m *metrics.Metrics, logger *slog.Logger) *UserService {
	return &UserService{store: store, metrics: m, logger: logger, now: time.Now}
}

// userSnapshots loads a snapshot of every group userID belongs to.
func (s *UserService) userSnapshots(ctx context.Context, userID string) ([]*snapshot, error) {
	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	snaps := make([]*snapshot, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotConcurrency)
	for i, group := range groups {
		g.Go(func() error {
			snap, err := loadSnapshot(gctx, s.store, group)
			if err != nil {
				return err
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snaps, nil
}

// GetUserBalance totals what the caller owes and is owed across all groups.
func (s *UserService) GetUserBalance(ctx context.Context, req *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID != "" && req.Msg.UserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("cannot read another user's balance"))
	}

	snaps, err := s.userSnapshots(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserBalance failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	ledgers := make([]calculator.GroupLedger, len(snaps))
	for i, snap := range snaps {
		ledgers[i] = snap.ledger()
	}
	summary := calculator.SummarizeUser(userID, ledgers)
	s.metrics.BalanceComputed("user")

	s.logger.Info("GetUserBalance successful", "user_id", userID, "groups_count", len(snaps))
	return connect.NewResponse(&api.GetUserBalanceResponse{
		UserID:     userID,
		TotalOwes:  summary.TotalOwes.Float64(),
		TotalOwed:  summary.TotalOwed.Float64(),
		NetBalance: summary.NetBalance.Float64(),
	}), nil
}

// GetUserStats reports the caller's share of spending over recent months.
func (s *UserService) GetUserStats(ctx context.Context, req *connect.Request[api.GetUserStatsRequest]) (*connect.Response[api.GetUserStatsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	snaps, err := s.userSnapshots(ctx, userID)
	if err != nil {
		s.logger.Error("GetUserStats failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	var entries []calculator.SpendingEntry
	for _, snap := range snaps {
		for _, e := range snap.expenses {
			for _, split := range e.Splits {
				if split.UserID != userID {
					continue
				}
				entries = append(entries, calculator.SpendingEntry{
					GroupName: snap.group.Name,
					Category:  e.Category,
					Amount:    split.Amount,
					CreatedAt: time.Unix(e.CreatedAt, 0),
				})
			}
		}
	}

	stats := calculator.SummarizeSpending(entries, s.now())
	return connect.NewResponse(&api.GetUserStatsResponse{
		Monthly:    namedValues(stats.Monthly),
		ByGroup:    namedValues(stats.ByGroup),
		ByCategory: namedValues(stats.ByCategory),
	}), nil
}

func namedValues(in []calculator.NamedAmount) []*api.NamedValue {
	out := make([]*api.NamedValue, len(in))
	for i, v := range in {
		out[i] = &api.NamedValue{Name: v.Name, Value: v.Value.Float64()}
	}
	return out
}

// Search matches the caller's groups and their expenses plus every user by
// name. Queries shorter than two characters return nothing.
func (s *UserService) Search(ctx context.Context, req *connect.Request[api.SearchRequest]) (*connect.Response[api.SearchResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(req.Msg.Query)
	if utf8.RuneCountInString(query) < minSearchQuery {
		return connect.NewResponse(&api.SearchResponse{Results: []*api.SearchResult{}}), nil
	}

	var (
		groups   []*models.Group
		users    []*models.User
		expenses []*models.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		groups, err = s.store.SearchGroups(gctx, userID, query, searchLimit)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.store.SearchUsers(gctx, query, searchLimit)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.store.SearchExpenses(gctx, userID, query, searchLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Search failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	results := make([]*api.SearchResult, 0, len(groups)+len(users)+len(expenses))
	for _, group := range groups {
		results = append(results, &api.SearchResult{
			Type:     api.SearchResultGroup,
			ID:       group.ID,
			Title:    group.Name,
			Subtitle: group.JoinCode,
			GroupID:  group.ID,
		})
	}
	for _, u := range users {
		results = append(results, &api.SearchResult{
			Type:     api.SearchResultUser,
			ID:       u.ID,
			Title:    u.Name,
			Subtitle: u.Email,
		})
	}
	for _, e := range expenses {
		results = append(results, &api.SearchResult{
			Type:     api.SearchResultExpense,
			ID:       e.ID,
			Title:    e.Description,
			Subtitle: e.Amount.String(),
			GroupID:  e.GroupID,
		})
	}

	s.logger.Debug("Search successful", "user_id", userID, "results", len(results))
	return connect.NewResponse(&api.SearchResponse{Results: results}), nil
}
