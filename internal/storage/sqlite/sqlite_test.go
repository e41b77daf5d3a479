package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })

	return store
}

func TestNewIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := New(path)
	require.NoError(t, err)
	require.NoError(t, first.CreateUser(context.Background(), models.NewUser("a@example.com", "A", "hash")))
	require.NoError(t, first.Close())

	second, err := New(path)
	require.NoError(t, err, "migrations must be re-runnable")
	defer second.Close()

	_, err = second.GetUserByEmail(context.Background(), "a@example.com")
	assert.NoError(t, err)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NotEmpty(t, alice.ID)

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice, got)
	})

	t.Run("GetUserByID missing", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash"))
		assert.Error(t, err)
	})

	t.Run("GetUsersByIDs omits unknown", func(t *testing.T) {
		bob := models.NewUser("bob@example.com", "Bob", "hash")
		require.NoError(t, store.CreateUser(ctx, bob))

		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, bob.ID, "ghost"})
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "Bob", users[bob.ID].Name)

		empty, err := store.GetUsersByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Roommates", Members: []string{"u1", "u2"}, CreatedBy: "u1"}
	require.NoError(t, store.CreateGroup(ctx, group))
	require.NotEmpty(t, group.ID)
	require.NotZero(t, group.CreatedAt)

	t.Run("GetGroup", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Roommates", got.Name)
		assert.Equal(t, []string{"u1", "u2"}, got.Members)
		assert.Equal(t, "u1", got.CreatedBy)
	})

	t.Run("AddGroupMembers skips existing", func(t *testing.T) {
		require.NoError(t, store.AddGroupMembers(ctx, group.ID, []string{"u2", "u3"}))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"u1", "u2", "u3"}, got.Members)
	})

	t.Run("AddGroupMembers missing group", func(t *testing.T) {
		err := store.AddGroupMembers(ctx, "nope", []string{"u1"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListGroupsByMember", func(t *testing.T) {
		other := &models.Group{Name: "Trip", Members: []string{"u3"}, CreatedAt: group.CreatedAt + 10}
		require.NoError(t, store.CreateGroup(ctx, other))

		groups, err := store.ListGroupsByMember(ctx, "u3")
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "Trip", groups[0].Name)
		assert.Equal(t, []string{"u3"}, groups[0].Members)

		groups, err = store.ListGroupsByMember(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, groups, 1)
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		doomed := &models.Group{Name: "Doomed", Members: []string{"u1", "u2"}}
		require.NoError(t, store.CreateGroup(ctx, doomed))
		require.NoError(t, store.CreateExpense(ctx, &models.Expense{
			GroupID: doomed.ID, Description: "x", Amount: 100, SplitPolicy: models.SplitEqual, PaidByID: "u1",
			Splits: []models.ExpenseSplit{{UserID: "u2", Amount: 100}},
		}))
		require.NoError(t, store.CreateSettlement(ctx, &models.Settlement{
			GroupID: doomed.ID, FromUserID: "u2", ToUserID: "u1", Amount: 100,
		}))

		require.NoError(t, store.DeleteGroup(ctx, doomed.ID))

		_, err := store.GetGroup(ctx, doomed.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		expenses, err := store.ListExpensesByGroup(ctx, doomed.ID)
		require.NoError(t, err)
		assert.Empty(t, expenses)
		settlements, err := store.ListSettlementsByGroup(ctx, doomed.ID)
		require.NoError(t, err)
		assert.Empty(t, settlements)

		assert.ErrorIs(t, store.DeleteGroup(ctx, doomed.ID), storage.ErrNotFound)
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Members: []string{"a", "b"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	half := 50.0
	expense := &models.Expense{
		GroupID:     group.ID,
		Description: "Hotel",
		Amount:      20000,
		SplitPolicy: models.SplitPercentage,
		PaidByID:    "a",
		CreatedBy:   "a",
		CreatedAt:   1000,
		Splits: []models.ExpenseSplit{
			{UserID: "a", Amount: 10000, Percentage: &half},
			{UserID: "b", Amount: 10000, Percentage: &half},
		},
	}
	require.NoError(t, store.CreateExpense(ctx, expense))
	require.NotEmpty(t, expense.ID)
	assert.Equal(t, models.DefaultCategory, expense.Category)

	t.Run("GetExpense round trip", func(t *testing.T) {
		got, err := store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, expense, got)
	})

	t.Run("ListExpensesByGroup newest first", func(t *testing.T) {
		later := &models.Expense{
			GroupID: group.ID, Description: "Taxi", Amount: 3000, SplitPolicy: models.SplitEqual,
			PaidByID: "b", Category: "transport", CreatedAt: 2000,
			Splits: []models.ExpenseSplit{{UserID: "a", Amount: 1500}, {UserID: "b", Amount: 1500}},
		}
		require.NoError(t, store.CreateExpense(ctx, later))

		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, "Taxi", expenses[0].Description)
		assert.Len(t, expenses[0].Splits, 2)
		assert.Nil(t, expenses[0].Splits[0].Percentage)
		assert.Equal(t, "Hotel", expenses[1].Description)
	})

	t.Run("duplicate split user rolls back", func(t *testing.T) {
		bad := &models.Expense{
			GroupID: group.ID, Description: "Bad", Amount: 100, SplitPolicy: models.SplitEqual, PaidByID: "a",
			Splits: []models.ExpenseSplit{{UserID: "a", Amount: 50}, {UserID: "a", Amount: 50}},
		}
		require.Error(t, store.CreateExpense(ctx, bad))

		_, err := store.GetExpense(ctx, bad.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("new members join with the expense", func(t *testing.T) {
		withGuest := &models.Expense{
			GroupID: group.ID, Description: "Museum", Amount: 900, SplitPolicy: models.SplitEqual, PaidByID: "a",
			Splits: []models.ExpenseSplit{{UserID: "a", Amount: 300}, {UserID: "b", Amount: 300}, {UserID: "c", Amount: 300}},
		}
		require.NoError(t, store.CreateExpense(ctx, withGuest, "c"))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, got.Members)
	})

	t.Run("failed expense does not add members", func(t *testing.T) {
		bad := &models.Expense{
			GroupID: group.ID, Description: "Bad", Amount: 100, SplitPolicy: models.SplitEqual, PaidByID: "a",
			Splits: []models.ExpenseSplit{{UserID: "d", Amount: 50}, {UserID: "d", Amount: 50}},
		}
		require.Error(t, store.CreateExpense(ctx, bad, "d"))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.NotContains(t, got.Members, "d")
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		require.NoError(t, store.DeleteExpense(ctx, expense.ID))
		_, err := store.GetExpense(ctx, expense.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteExpense(ctx, expense.ID), storage.ErrNotFound)
	})
}

func TestSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Members: []string{"a", "b"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	withNote := &models.Settlement{GroupID: group.ID, FromUserID: "b", ToUserID: "a", Amount: 2500, Note: "cash", CreatedAt: 10}
	withoutNote := &models.Settlement{GroupID: group.ID, FromUserID: "a", ToUserID: "b", Amount: 100, CreatedAt: 20}
	require.NoError(t, store.CreateSettlement(ctx, withNote))
	require.NoError(t, store.CreateSettlement(ctx, withoutNote))

	got, err := store.GetSettlement(ctx, withNote.ID)
	require.NoError(t, err)
	assert.Equal(t, withNote, got)

	list, err := store.ListSettlementsByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, withoutNote.ID, list[0].ID)
	assert.Empty(t, list[0].Note)

	require.NoError(t, store.DeleteSettlement(ctx, withNote.ID))
	_, err = store.GetSettlement(ctx, withNote.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	t.Run("rejects non-positive amount", func(t *testing.T) {
		err := store.CreateSettlement(ctx, &models.Settlement{GroupID: group.ID, FromUserID: "a", ToUserID: "b", Amount: 0})
		assert.Error(t, err)
	})

	t.Run("rejects unknown group", func(t *testing.T) {
		err := store.CreateSettlement(ctx, &models.Settlement{GroupID: "nope", FromUserID: "a", ToUserID: "b", Amount: 10})
		assert.Error(t, err)
	})
}

func TestJoinCodes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"u1"}, CreatedBy: "u1"}
	require.NoError(t, store.CreateGroup(ctx, group))
	require.Len(t, group.JoinCode, models.JoinCodeLength)

	got, err := store.GetGroupByJoinCode(ctx, group.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)
	assert.Equal(t, []string{"u1"}, got.Members)

	_, err = store.GetGroupByJoinCode(ctx, "NOPE0000")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	dup := &models.Group{Name: "Copy", Members: []string{"u2"}, JoinCode: group.JoinCode}
	assert.Error(t, store.CreateGroup(ctx, dup), "join codes are unique")
}

func TestJoinRequests(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"owner"}, CreatedBy: "owner"}
	require.NoError(t, store.CreateGroup(ctx, group))
	other := &models.Group{Name: "Other", Members: []string{"someone"}, CreatedBy: "someone"}
	require.NoError(t, store.CreateGroup(ctx, other))

	first := &models.JoinRequest{GroupID: group.ID, UserID: "guest", CreatedAt: 100}
	created, err := store.CreateJoinRequest(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.JoinPending, first.Status)

	t.Run("second pending request returns the first", func(t *testing.T) {
		again := &models.JoinRequest{GroupID: group.ID, UserID: "guest", CreatedAt: 200}
		created, err := store.CreateJoinRequest(ctx, again)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, int64(100), again.CreatedAt)
	})

	second := &models.JoinRequest{GroupID: group.ID, UserID: "late", CreatedAt: 300}
	_, err = store.CreateJoinRequest(ctx, second)
	require.NoError(t, err)
	_, err = store.CreateJoinRequest(ctx, &models.JoinRequest{GroupID: other.ID, UserID: "guest"})
	require.NoError(t, err)

	t.Run("list by group newest first", func(t *testing.T) {
		pending, err := store.ListJoinRequests(ctx, group.ID, models.JoinPending)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, second.ID, pending[0].ID)
		assert.Equal(t, first.ID, pending[1].ID)
	})

	t.Run("list by creator", func(t *testing.T) {
		pending, err := store.ListPendingRequestsByCreator(ctx, "owner")
		require.NoError(t, err)
		assert.Len(t, pending, 2)

		none, err := store.ListPendingRequestsByCreator(ctx, "guest")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("approve adds member", func(t *testing.T) {
		resolved, err := store.ResolveJoinRequest(ctx, first.ID, models.JoinApproved, "owner")
		require.NoError(t, err)
		assert.Equal(t, models.JoinApproved, resolved.Status)
		assert.Equal(t, "owner", resolved.ResolvedBy)
		assert.NotZero(t, resolved.ResolvedAt)

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"owner", "guest"}, got.Members)

		stored, err := store.GetJoinRequest(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, resolved, stored)
	})

	t.Run("resolving twice conflicts", func(t *testing.T) {
		_, err := store.ResolveJoinRequest(ctx, first.ID, models.JoinRejected, "owner")
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("reject leaves members alone", func(t *testing.T) {
		_, err := store.ResolveJoinRequest(ctx, second.ID, models.JoinRejected, "owner")
		require.NoError(t, err)

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.NotContains(t, got.Members, "late")

		rejected, err := store.ListJoinRequests(ctx, group.ID, models.JoinRejected)
		require.NoError(t, err)
		require.Len(t, rejected, 1)
		assert.Equal(t, second.ID, rejected[0].ID)
	})

	t.Run("a resolved request allows a new one", func(t *testing.T) {
		retry := &models.JoinRequest{GroupID: group.ID, UserID: "late"}
		created, err := store.CreateJoinRequest(ctx, retry)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, second.ID, retry.ID)
	})

	t.Run("missing request", func(t *testing.T) {
		_, err := store.ResolveJoinRequest(ctx, "nope", models.JoinApproved, "owner")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetJoinRequest(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("deleting the group removes its requests", func(t *testing.T) {
		require.NoError(t, store.DeleteGroup(ctx, other.ID))
		pending, err := store.ListPendingRequestsByCreator(ctx, "someone")
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestPasswordResets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("reset@example.com", "Reset", "old-hash")
	require.NoError(t, store.CreateUser(ctx, user))

	require.NoError(t, store.CreatePasswordReset(ctx, user.ID, "stale", 1000))
	require.NoError(t, store.CreatePasswordReset(ctx, user.ID, "fresh", 1000))

	_, err := store.ResetPassword(ctx, "stale", "new-hash", 500)
	assert.ErrorIs(t, err, storage.ErrNotFound, "a newer token replaces older ones")

	_, err = store.ResetPassword(ctx, "fresh", "new-hash", 1000)
	assert.ErrorIs(t, err, storage.ErrNotFound, "expired at expires_at")

	userID, err := store.ResetPassword(ctx, "fresh", "new-hash", 999)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	got, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Equal(t, int64(999), got.UpdatedAt)

	_, err = store.ResetPassword(ctx, "fresh", "again", 999)
	assert.ErrorIs(t, err, storage.ErrNotFound, "tokens are single use")
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.NewUser("alice@example.com", "Alice Smith", "hash")
	bob := models.NewUser("bob@example.com", "Bob", "hash")
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NoError(t, store.CreateUser(ctx, bob))

	trip := &models.Group{Name: "Goa Trip", Members: []string{alice.ID, bob.ID}, JoinCode: "TRIP2026"}
	private := &models.Group{Name: "Bob's trip", Members: []string{bob.ID}}
	require.NoError(t, store.CreateGroup(ctx, trip))
	require.NoError(t, store.CreateGroup(ctx, private))

	for _, e := range []*models.Expense{
		{GroupID: trip.ID, Description: "Beach shack dinner", Amount: 100, CreatedAt: 1},
		{GroupID: trip.ID, Description: "100% juice", Amount: 100, CreatedAt: 2},
		{GroupID: private.ID, Description: "Dinner alone", Amount: 100, CreatedAt: 3},
	} {
		e.SplitPolicy, e.PaidByID = models.SplitEqual, bob.ID
		e.Splits = []models.ExpenseSplit{{UserID: bob.ID, Amount: 100}}
		require.NoError(t, store.CreateExpense(ctx, e))
	}

	t.Run("groups are limited to the member's own", func(t *testing.T) {
		groups, err := store.SearchGroups(ctx, alice.ID, "TRIP", 5)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, trip.ID, groups[0].ID)

		groups, err = store.SearchGroups(ctx, bob.ID, "trip", 5)
		require.NoError(t, err)
		assert.Len(t, groups, 2)
	})

	t.Run("join code matches", func(t *testing.T) {
		groups, err := store.SearchGroups(ctx, alice.ID, "p202", 5)
		require.NoError(t, err)
		assert.Len(t, groups, 1)
	})

	t.Run("users by name or email", func(t *testing.T) {
		users, err := store.SearchUsers(ctx, "smith", 5)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, alice.ID, users[0].ID)

		users, err = store.SearchUsers(ctx, "example.com", 1)
		require.NoError(t, err)
		assert.Len(t, users, 1, "limit applies")
	})

	t.Run("expenses in the member's groups", func(t *testing.T) {
		expenses, err := store.SearchExpenses(ctx, alice.ID, "dinner", 5)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "Beach shack dinner", expenses[0].Description)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		expenses, err := store.SearchExpenses(ctx, bob.ID, "0%", 5)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "100% juice", expenses[0].Description)

		users, err := store.SearchUsers(ctx, "_", 5)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
}
