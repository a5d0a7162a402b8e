package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/hollis-dev/paydown/internal/common"
	"github.com/hollis-dev/paydown/internal/config"
	"github.com/hollis-dev/paydown/internal/service"
	"github.com/hollis-dev/paydown/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/paydown/paydown.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadSession loads the current session or returns a friendly error when
// no extraction has been run yet.
func loadSession(ctx context.Context, store service.Storage) (*service.SessionRecord, error) {
	session, err := store.CurrentSession(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError(
			"No extraction session found. Run 'paydown extract' first.",
			common.ErrNoSession)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// resolveItemID matches a user-supplied item reference against the session.
// Full IDs and unambiguous ID prefixes both work.
func resolveItemID(session *service.SessionRecord, ref string) (string, error) {
	var matches []string
	for i := range session.Items {
		id := session.Items[i].ID
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no item matches %q", ref)
	default:
		return "", fmt.Errorf("%q is ambiguous: matches %d items", ref, len(matches))
	}
}

// shortID trims an item ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
