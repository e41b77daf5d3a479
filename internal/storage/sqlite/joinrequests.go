package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/storage"
)

const joinRequestColumns = `id, group_id, user_id, status, created_at, resolved_by, resolved_at`

func scanJoinRequest(row scanner) (*models.JoinRequest, error) {
	r := &models.JoinRequest{}
	var resolvedBy sql.NullString
	var resolvedAt sql.NullInt64

	err := row.Scan(&r.ID, &r.GroupID, &r.UserID, &r.Status, &r.CreatedAt, &resolvedBy, &resolvedAt)
	r.ResolvedBy = resolvedBy.String
	r.ResolvedAt = resolvedAt.Int64
	return r, err
}

// CreateJoinRequest stores a pending request, or loads the user's existing
// pending request for the group into r.
func (s *SQLiteStore) CreateJoinRequest(ctx context.Context, r *models.JoinRequest) (bool, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}
	r.Status = models.JoinPending

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO group_requests (id, group_id, user_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (group_id, user_id) WHERE status = 'PENDING' DO NOTHING`,
		r.ID, r.GroupID, r.UserID, r.Status, r.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert join request: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check inserted rows: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	existing, err := scanJoinRequest(s.db.QueryRowContext(ctx,
		`SELECT `+joinRequestColumns+` FROM group_requests
		 WHERE group_id = ? AND user_id = ? AND status = 'PENDING'`,
		r.GroupID, r.UserID,
	))
	if err != nil {
		return false, fmt.Errorf("failed to load pending join request: %w", err)
	}
	*r = *existing
	return false, nil
}

// GetJoinRequest retrieves a join request by ID.
func (s *SQLiteStore) GetJoinRequest(ctx context.Context, requestID string) (*models.JoinRequest, error) {
	r, err := scanJoinRequest(s.db.QueryRowContext(ctx,
		`SELECT `+joinRequestColumns+` FROM group_requests WHERE id = ?`, requestID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("join request", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return r, nil
}

// ListJoinRequests retrieves a group's requests in the given status, newest first.
func (s *SQLiteStore) ListJoinRequests(ctx context.Context, groupID string, status models.JoinStatus) ([]*models.JoinRequest, error) {
	return s.queryJoinRequests(ctx,
		`SELECT `+joinRequestColumns+` FROM group_requests
		 WHERE group_id = ? AND status = ?
		 ORDER BY created_at DESC, id`,
		groupID, status,
	)
}

// ListPendingRequestsByCreator retrieves pending requests for the groups
// creatorID created, newest first.
func (s *SQLiteStore) ListPendingRequestsByCreator(ctx context.Context, creatorID string) ([]*models.JoinRequest, error) {
	return s.queryJoinRequests(ctx,
		`SELECT r.id, r.group_id, r.user_id, r.status, r.created_at, r.resolved_by, r.resolved_at
		 FROM group_requests r
		 JOIN groups g ON g.id = r.group_id
		 WHERE g.created_by = ? AND r.status = 'PENDING'
		 ORDER BY r.created_at DESC, r.id`,
		creatorID,
	)
}

func (s *SQLiteStore) queryJoinRequests(ctx context.Context, query string, args ...any) ([]*models.JoinRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.JoinRequest
	for rows.Next() {
		r, err := scanJoinRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan join request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate join requests: %w", err)
	}

	return requests, nil
}

// ResolveJoinRequest approves or rejects a pending request. Approval adds the
// requester to the group in the same transaction.
func (s *SQLiteStore) ResolveJoinRequest(ctx context.Context, requestID string, status models.JoinStatus, resolvedBy string) (*models.JoinRequest, error) {
	if status != models.JoinApproved && status != models.JoinRejected {
		return nil, fmt.Errorf("cannot resolve join request to %q", status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := scanJoinRequest(tx.QueryRowContext(ctx,
		`SELECT `+joinRequestColumns+` FROM group_requests WHERE id = ?`, requestID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("join request", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	if r.Status != models.JoinPending {
		return nil, fmt.Errorf("join request %s is already %s: %w", requestID, r.Status, storage.ErrConflict)
	}

	r.Status = status
	r.ResolvedBy = resolvedBy
	r.ResolvedAt = time.Now().Unix()
	_, err = tx.ExecContext(ctx,
		"UPDATE group_requests SET status = ?, resolved_by = ?, resolved_at = ? WHERE id = ?",
		r.Status, r.ResolvedBy, r.ResolvedAt, r.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update join request: %w", err)
	}

	if status == models.JoinApproved {
		if err := insertMembers(ctx, tx, r.GroupID, []string{r.UserID}, r.ResolvedAt); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return r, nil
}
