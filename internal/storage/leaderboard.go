package storage

import (
	"context"
	"fmt"

	"github.com/sortwise/sortwise/internal/model"
)

// GetLeaderboard returns the top accounts ordered by eco points descending.
// Ties break alphabetically so the ordering is stable.
func (s *SQLiteStorage) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT username, eco_points, level
		FROM users
		ORDER BY eco_points DESC, username ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var entry model.LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.EcoPoints, &entry.Level); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
