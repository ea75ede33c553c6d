package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/sortwise/sortwise/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					username TEXT UNIQUE NOT NULL,
					email TEXT,
					eco_points INTEGER NOT NULL DEFAULT 0 CHECK (eco_points >= 0),
					level TEXT NOT NULL DEFAULT 'Eco Beginner',
					items_recycled INTEGER NOT NULL DEFAULT 0 CHECK (items_recycled >= 0),
					carbon_saved_kg REAL NOT NULL DEFAULT 0 CHECK (carbon_saved_kg >= 0),
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS recycling_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					user_id INTEGER NOT NULL,
					filename TEXT NOT NULL,
					detected_objects TEXT,
					eco_points_earned INTEGER NOT NULL DEFAULT 0,
					recommendations TEXT,
					processed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (user_id) REFERENCES users(id)
				)`,
				`CREATE INDEX idx_history_user ON recycling_history(user_id, processed_at DESC)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed demo accounts",
		Up: func(tx *sql.Tx) error {
			seeds := []struct {
				username string
				email    string
				points   int
				items    int
				carbon   float64
			}{
				{"EcoStudent", "eco@example.com", 150, 15, 45.5},
				{"EcoChampion", "", 450, 45, 135},
				{"GreenWarrior", "", 320, 32, 96},
				{"RecycleMaster", "", 280, 28, 84},
				{"EarthFriend", "", 180, 18, 54},
			}

			for _, seed := range seeds {
				_, err := tx.Exec(`
					INSERT OR IGNORE INTO users (username, email, eco_points, level, items_recycled, carbon_saved_kg)
					VALUES (?, ?, ?, ?, ?, ?)
				`, seed.username, seed.email, seed.points, model.LevelForPoints(seed.points), seed.items, seed.carbon)
				if err != nil {
					return fmt.Errorf("failed to seed user %s: %w", seed.username, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
