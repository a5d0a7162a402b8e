// Package service defines the interfaces between the pipeline core and
// its external collaborators. The core packages never touch persistence;
// the CLI shell wires them to a Storage implementation.
package service

import (
	"context"
	"time"

	"github.com/hollis-dev/paydown/internal/model"
)

// SessionRecord is the persisted shape of one extraction session: the
// original raw text, the locale actually used, the item set, and the
// quick-fix snapshots.
type SessionRecord struct {
	CreatedAt         time.Time
	ID                string
	RawText           string
	Timezone          string
	LocaleUsed        model.DateLocale
	Items             []model.Item
	Issues            []model.Issue
	Snapshots         map[string]model.Item
	DuplicatesRemoved int
}

// Storage is the persistence contract owned by the calling environment.
// A new extraction run replaces the current session wholesale.
type Storage interface {
	// SaveSession persists a session, replacing any existing one.
	SaveSession(ctx context.Context, session *SessionRecord) error
	// CurrentSession loads the active session, or common.ErrNotFound.
	CurrentSession(ctx context.Context) (*SessionRecord, error)
	// UpdateItem persists one corrected item in place.
	UpdateItem(ctx context.Context, sessionID string, item model.Item) error
	// SaveSnapshot stores the pre-correction copy of an item.
	SaveSnapshot(ctx context.Context, sessionID string, snapshot model.Item) error
	// DeleteSnapshot discards an item's snapshot after undo.
	DeleteSnapshot(ctx context.Context, sessionID, itemID string) error
	// Migrate brings the schema up to the expected version.
	Migrate(ctx context.Context) error
	Close() error
}

// RiskSettings is the externally supplied risk context in its
// configuration shape, before dates are parsed.
type RiskSettings struct {
	PaycheckDates       []string
	Holidays            []string
	PaycheckAmount      float64
	MinimumBuffer       float64
	CollisionWindowDays int
}
