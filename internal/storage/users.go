package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

// GetUser retrieves an account by username. A missing account is reported as
// common.ErrNotFound, never as a zero-valued account.
func (s *SQLiteStorage) GetUser(ctx context.Context, username string) (*model.UserAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}

	return s.getUserTx(ctx, s.db, username)
}

func (s *SQLiteStorage) getUserTx(ctx context.Context, q queryable, username string) (*model.UserAccount, error) {
	var user model.UserAccount

	err := q.QueryRowContext(ctx, `
		SELECT id, username, email, eco_points, level, items_recycled, carbon_saved_kg, created_at
		FROM users
		WHERE username = ?
	`, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.EcoPoints,
		&user.Level,
		&user.ItemsRecycled,
		&user.CarbonSavedKg,
		&user.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// AwardPoints creates the account on first reference and atomically
// increments its monotonic counters. The level is recomputed from the new
// point total inside the same transaction, so it can never drift from the
// points it is derived from.
func (s *SQLiteStorage) AwardPoints(ctx context.Context, username string, points, items int) (*model.UserAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}
	if err := validateAward(points, items); err != nil {
		return nil, err
	}

	carbon := float64(points) * model.CarbonKgPerPoint

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Upsert-on-miss: first reference creates the account.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (username, email, level)
		VALUES (?, '', ?)
		ON CONFLICT(username) DO NOTHING
	`, username, model.LevelForPoints(0))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET eco_points = eco_points + ?,
			items_recycled = items_recycled + ?,
			carbon_saved_kg = carbon_saved_kg + ?
		WHERE username = ?
	`, points, items, carbon, username)
	if err != nil {
		return nil, fmt.Errorf("failed to award points: %w", err)
	}

	var newPoints int
	err = tx.QueryRowContext(ctx, `
		SELECT eco_points FROM users WHERE username = ?
	`, username).Scan(&newPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to read updated points: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET level = ? WHERE username = ?
	`, model.LevelForPoints(newPoints), username)
	if err != nil {
		return nil, fmt.Errorf("failed to update level: %w", err)
	}

	user, err := s.getUserTx(ctx, tx, username)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit award: %w", err)
	}

	return user, nil
}
