package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/siddhardh4356/slipwise/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching query anywhere. SQLite's
// LIKE is case-insensitive for ASCII.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

// SearchGroups matches group name or join code among memberID's groups.
func (s *SQLiteStore) SearchGroups(ctx context.Context, memberID, query string, limit int) ([]*models.Group, error) {
	pattern := containsPattern(query)
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.created_by, g.created_at, g.join_code
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ? AND (g.name LIKE ? ESCAPE '\' OR g.join_code LIKE ? ESCAPE '\')
		 ORDER BY g.created_at DESC, g.id
		 LIMIT ?`,
		memberID, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// SearchUsers matches user name or email.
func (s *SQLiteStore) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	pattern := containsPattern(query)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\'
		 ORDER BY name, id
		 LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// SearchExpenses matches expense descriptions in memberID's groups, newest first.
func (s *SQLiteStore) SearchExpenses(ctx context.Context, memberID, query string, limit int) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.group_id, e.description, e.amount, e.split_policy, e.paid_by, e.category, e.created_by, e.created_at
		 FROM expenses e
		 JOIN group_members m ON m.group_id = e.group_id
		 WHERE m.user_id = ? AND e.description LIKE ? ESCAPE '\'
		 ORDER BY e.created_at DESC, e.id
		 LIMIT ?`,
		memberID, containsPattern(query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}
