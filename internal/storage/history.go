package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/sortwise/sortwise/internal/model"
)

// DefaultHistoryLimit bounds history queries when the caller does not supply
// a limit.
const DefaultHistoryLimit = 5

// AppendHistory records a processed submission against the user's account.
// Entries are append-only and never mutated afterwards.
func (s *SQLiteStorage) AppendHistory(ctx context.Context, username string, entry model.HistoryEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(username, "username"); err != nil {
		return err
	}
	if err := validateHistoryEntry(&entry); err != nil {
		return err
	}

	user, err := s.getUserTx(ctx, s.db, username)
	if err != nil {
		return err
	}

	if entry.ProcessedAt.IsZero() {
		entry.ProcessedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recycling_history (user_id, filename, detected_objects, eco_points_earned, recommendations, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, entry.Filename, entry.DetectedObjects, entry.PointsEarned, entry.Recommendations, entry.ProcessedAt)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

// GetHistory returns the user's most recent submissions, newest first,
// bounded by limit (DefaultHistoryLimit when limit is not positive).
func (s *SQLiteStorage) GetHistory(ctx context.Context, username string, limit int) ([]model.HistoryEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	user, err := s.getUserTx(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, filename, detected_objects, eco_points_earned, recommendations, processed_at
		FROM recycling_history
		WHERE user_id = ?
		ORDER BY processed_at DESC, id DESC
		LIMIT ?
	`, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Filename,
			&entry.DetectedObjects,
			&entry.PointsEarned,
			&entry.Recommendations,
			&entry.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
