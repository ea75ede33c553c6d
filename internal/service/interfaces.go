// Package service defines the interfaces between the application's
// components, allowing implementations to be swapped in tests.
package service

import (
	"context"

	"github.com/sortwise/sortwise/internal/model"
)

// Storage is the user ledger: per-user point totals plus an append-only
// submission history.
type Storage interface {
	// GetUser returns the account for username, or common.ErrNotFound. A
	// missing account is distinct from a zero-valued one.
	GetUser(ctx context.Context, username string) (*model.UserAccount, error)

	// AwardPoints creates the account if absent, atomically increments the
	// monotonic counters, recomputes the level, and returns the updated
	// account. Concurrent awards for one username never lose updates.
	AwardPoints(ctx context.Context, username string, points, items int) (*model.UserAccount, error)

	// AppendHistory records one submission against username's account.
	AppendHistory(ctx context.Context, username string, entry model.HistoryEntry) error

	// GetHistory returns up to limit entries, most recent first.
	GetHistory(ctx context.Context, username string, limit int) ([]model.HistoryEntry, error)

	// GetLeaderboard returns the top accounts by eco points.
	GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)

	// Migrate applies pending schema migrations.
	Migrate(ctx context.Context) error

	Close() error
}
