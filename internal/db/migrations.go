package db

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds all schema migration SQL statements in order.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS dye_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL DEFAULT 'general',
		hex TEXT NOT NULL,
		selectable INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dye_items_name ON dye_items(name)`,
	`CREATE TABLE IF NOT EXISTS collections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, name)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_collections_user_id ON collections(user_id)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'approved', 'denied')),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		last_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS command_outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command TEXT NOT NULL,
		user_id TEXT NOT NULL,
		guild_id TEXT NOT NULL DEFAULT '',
		success INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_command_outcomes_created_at ON command_outcomes(created_at)`,
	// Starter dye catalog so a fresh install answers /dye queries. The
	// 'legacy' category is not selectable in autocomplete.
	`INSERT OR IGNORE INTO dye_items (name, category, hex, selectable) VALUES
		('Snow White', 'white', '#e4e2dc', 1),
		('Jet Black', 'black', '#2b2923', 1),
		('Rose Pink', 'red', '#e8a2a9', 1),
		('Wine Red', 'red', '#64282d', 1),
		('Coral Pink', 'red', '#c66e62', 1),
		('Canary Yellow', 'yellow', '#ecd592', 1),
		('Honey Yellow', 'yellow', '#cfa440', 1),
		('Celeste Green', 'green', '#a2c3ae', 1),
		('Hunter Green', 'green', '#284b35', 1),
		('Sky Blue', 'blue', '#83b0d4', 1),
		('Royal Blue', 'blue', '#2a3a65', 1),
		('Lavender Purple', 'purple', '#8d77a6', 1),
		('Currant Purple', 'purple', '#3a2f41', 1),
		('Gobbiebag Brown', 'legacy', '#a68b6d', 0),
		('Opo-opo Brown', 'legacy', '#6e5b3f', 0)`,
}

// RunMigrations executes all pending schema migrations.
func RunMigrations(ctx context.Context, sqlDB *sql.DB) error {
	// Ensure schema_migrations table exists (migration 0)
	if _, err := sqlDB.ExecContext(ctx, migrations[0]); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	for i := 1; i < len(migrations); i++ {
		version := i
		var count int
		err := sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count)
		if err != nil {
			return fmt.Errorf("checking migration version %d: %w", version, err)
		}
		if count > 0 {
			continue
		}

		if _, err := sqlDB.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("executing migration %d: %w", version, err)
		}

		if _, err := sqlDB.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
	}

	return nil
}
