package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/siddhardh4356/slipwise/internal/storage"
)

// CreatePasswordReset stores a reset token hash for userID, dropping any
// earlier tokens so only the newest link works.
func (s *SQLiteStore) CreatePasswordReset(ctx context.Context, userID, tokenHash string, expiresAt int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM password_resets WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear password resets: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES (?, ?, ?)",
		tokenHash, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert password reset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ResetPassword swaps the user's password hash for a valid token and removes
// every reset token the user holds.
func (s *SQLiteStore) ResetPassword(ctx context.Context, tokenHash, passwordHash string, now int64) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx,
		"SELECT user_id FROM password_resets WHERE token_hash = ? AND expires_at > ?",
		tokenHash, now,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("password reset token: %w", storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get password reset: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, now, userID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM password_resets WHERE user_id = ?", userID); err != nil {
		return "", fmt.Errorf("failed to clear password resets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return userID, nil
}
