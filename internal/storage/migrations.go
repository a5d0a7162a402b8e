package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

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
				`CREATE TABLE IF NOT EXISTS sessions (
					id TEXT PRIMARY KEY,
					raw_text TEXT NOT NULL,
					locale_used TEXT NOT NULL,
					timezone TEXT,
					duplicates_removed INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS items (
					id TEXT PRIMARY KEY,
					session_id TEXT NOT NULL,
					provider TEXT NOT NULL,
					amount REAL NOT NULL,
					currency TEXT NOT NULL,
					due_date TEXT NOT NULL,
					installment_number INTEGER NOT NULL,
					installment_total INTEGER NOT NULL,
					autopay INTEGER NOT NULL,
					late_fee REAL DEFAULT 0,
					confidence REAL NOT NULL,
					segment_index INTEGER NOT NULL,
					provider_strength INTEGER NOT NULL,
					date_certainty INTEGER NOT NULL,
					date_suspicious INTEGER NOT NULL,
					amount_explicit INTEGER NOT NULL,
					autopay_explicit INTEGER NOT NULL,
					installment_explicit INTEGER NOT NULL,
					FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_items_session ON items(session_id)`,
				`CREATE INDEX idx_items_due_date ON items(due_date)`,
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
		Description: "Add correction snapshots for undo",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS snapshots (
					item_id TEXT PRIMARY KEY,
					session_id TEXT NOT NULL,
					provider TEXT NOT NULL,
					amount REAL NOT NULL,
					currency TEXT NOT NULL,
					due_date TEXT NOT NULL,
					installment_number INTEGER NOT NULL,
					installment_total INTEGER NOT NULL,
					autopay INTEGER NOT NULL,
					late_fee REAL DEFAULT 0,
					confidence REAL NOT NULL,
					segment_index INTEGER NOT NULL,
					provider_strength INTEGER NOT NULL,
					date_certainty INTEGER NOT NULL,
					date_suspicious INTEGER NOT NULL,
					amount_explicit INTEGER NOT NULL,
					autopay_explicit INTEGER NOT NULL,
					installment_explicit INTEGER NOT NULL,
					FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
				)
			`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Record segments that failed extraction",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS issues (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					session_id TEXT NOT NULL,
					segment_index INTEGER NOT NULL,
					reason TEXT NOT NULL,
					snippet TEXT NOT NULL,
					FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX IF NOT EXISTS idx_issues_session ON issues(session_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
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

		// Update version
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

	// Verify we're at the expected schema version
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
