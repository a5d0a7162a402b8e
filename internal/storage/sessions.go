package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hollis-dev/paydown/internal/common"
	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/service"
)

const itemColumns = `provider, amount, currency, due_date,
	installment_number, installment_total, autopay, late_fee, confidence,
	segment_index, provider_strength, date_certainty, date_suspicious,
	amount_explicit, autopay_explicit, installment_explicit`

// SaveSession persists a session, replacing any existing one. A fresh
// extraction run always supersedes the previous session wholesale.
func (s *SQLiteStorage) SaveSession(ctx context.Context, session *service.SessionRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Cascades clear the previous session's items, issues and snapshots.
	if _, err = tx.ExecContext(ctx, "DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, raw_text, locale_used, timezone, duplicates_removed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.RawText, string(session.LocaleUsed), session.Timezone,
		session.DuplicatesRemoved, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for i := range session.Items {
		if err = insertItem(ctx, tx, "items", session.ID, &session.Items[i]); err != nil {
			return err
		}
	}

	for _, issue := range session.Issues {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO issues (session_id, segment_index, reason, snippet)
			VALUES (?, ?, ?, ?)`,
			session.ID, issue.SegmentIndex, string(issue.Reason), issue.Snippet)
		if err != nil {
			return fmt.Errorf("failed to insert issue: %w", err)
		}
	}

	for _, snapshot := range session.Snapshots {
		snap := snapshot
		if err = insertItem(ctx, tx, "snapshots", session.ID, &snap); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// CurrentSession loads the active session. Returns common.ErrNotFound when
// no extraction has been saved yet.
func (s *SQLiteStorage) CurrentSession(ctx context.Context) (*service.SessionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	session := &service.SessionRecord{}
	var locale string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, raw_text, locale_used, timezone, duplicates_removed, created_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT 1`).Scan(
		&session.ID, &session.RawText, &locale, &session.Timezone,
		&session.DuplicatesRemoved, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	session.LocaleUsed = model.DateLocale(locale)

	session.Items, err = s.loadItems(ctx, "items", session.ID)
	if err != nil {
		return nil, err
	}

	session.Issues, err = s.loadIssues(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.loadItems(ctx, "snapshots", session.ID)
	if err != nil {
		return nil, err
	}
	session.Snapshots = make(map[string]model.Item, len(snapshots))
	for _, snap := range snapshots {
		session.Snapshots[snap.ID] = snap
	}

	return session, nil
}

// UpdateItem persists one corrected item in place.
func (s *SQLiteStorage) UpdateItem(ctx context.Context, sessionID string, item model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	if err := validateItem(&item); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET
			provider = ?, amount = ?, currency = ?, due_date = ?,
			installment_number = ?, installment_total = ?, autopay = ?,
			late_fee = ?, confidence = ?, segment_index = ?,
			provider_strength = ?, date_certainty = ?, date_suspicious = ?,
			amount_explicit = ?, autopay_explicit = ?, installment_explicit = ?
		WHERE id = ? AND session_id = ?`,
		string(item.Provider), item.Amount, item.Currency, item.DueISO(),
		item.InstallmentNumber, item.InstallmentTotal, item.Autopay,
		item.LateFee, item.Confidence, item.SegmentIndex,
		int(item.Provenance.ProviderStrength), int(item.Provenance.DateCertainty),
		item.Provenance.DateSuspicious, item.Provenance.AmountExplicitCents,
		item.Provenance.AutopayExplicit, item.Provenance.InstallmentExplicit,
		item.ID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("item %s: %w", item.ID, common.ErrNotFound)
	}
	return nil
}

// SaveSnapshot stores the pre-correction copy of an item. Saving again for
// the same item is a no-op so the original snapshot survives repeat fixes.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, sessionID string, snapshot model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	if err := validateItem(&snapshot); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT OR IGNORE INTO snapshots (item_id, session_id, %s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, itemColumns),
		snapshot.ID, sessionID,
		string(snapshot.Provider), snapshot.Amount, snapshot.Currency, snapshot.DueISO(),
		snapshot.InstallmentNumber, snapshot.InstallmentTotal, snapshot.Autopay,
		snapshot.LateFee, snapshot.Confidence, snapshot.SegmentIndex,
		int(snapshot.Provenance.ProviderStrength), int(snapshot.Provenance.DateCertainty),
		snapshot.Provenance.DateSuspicious, snapshot.Provenance.AmountExplicitCents,
		snapshot.Provenance.AutopayExplicit, snapshot.Provenance.InstallmentExplicit)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// DeleteSnapshot discards an item's snapshot after undo.
func (s *SQLiteStorage) DeleteSnapshot(ctx context.Context, sessionID, itemID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	if err := validateString(itemID, "itemID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE item_id = ? AND session_id = ?",
		itemID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func insertItem(ctx context.Context, tx *sql.Tx, table, sessionID string, item *model.Item) error {
	idColumn := "id"
	if table == "snapshots" {
		idColumn = "item_id"
	}
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s, session_id, %s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table, idColumn, itemColumns),
		item.ID, sessionID,
		string(item.Provider), item.Amount, item.Currency, item.DueISO(),
		item.InstallmentNumber, item.InstallmentTotal, item.Autopay,
		item.LateFee, item.Confidence, item.SegmentIndex,
		int(item.Provenance.ProviderStrength), int(item.Provenance.DateCertainty),
		item.Provenance.DateSuspicious, item.Provenance.AmountExplicitCents,
		item.Provenance.AutopayExplicit, item.Provenance.InstallmentExplicit)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (s *SQLiteStorage) loadItems(ctx context.Context, table, sessionID string) ([]model.Item, error) {
	idColumn := "id"
	if table == "snapshots" {
		idColumn = "item_id"
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s, %s FROM %s
		WHERE session_id = ?
		ORDER BY segment_index, rowid`, idColumn, itemColumns, table),
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var provider, dueDate string
		var strength, certainty int
		err = rows.Scan(
			&item.ID, &provider, &item.Amount, &item.Currency, &dueDate,
			&item.InstallmentNumber, &item.InstallmentTotal, &item.Autopay,
			&item.LateFee, &item.Confidence, &item.SegmentIndex,
			&strength, &certainty, &item.Provenance.DateSuspicious,
			&item.Provenance.AmountExplicitCents, &item.Provenance.AutopayExplicit,
			&item.Provenance.InstallmentExplicit)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		item.Provider = model.Provider(provider)
		item.Provenance.ProviderStrength = model.MatchStrength(strength)
		item.Provenance.DateCertainty = model.DateCertainty(certainty)
		item.DueDate, err = time.ParseInLocation("2006-01-02", dueDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse due date %q: %w", dueDate, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return items, nil
}

func (s *SQLiteStorage) loadIssues(ctx context.Context, sessionID string) ([]model.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT segment_index, reason, snippet FROM issues
		WHERE session_id = ?
		ORDER BY segment_index, id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var issues []model.Issue
	for rows.Next() {
		var issue model.Issue
		var reason string
		if err = rows.Scan(&issue.SegmentIndex, &reason, &issue.Snippet); err != nil {
			return nil, fmt.Errorf("failed to scan issue row: %w", err)
		}
		issue.Reason = model.IssueReason(reason)
		issues = append(issues, issue)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issues: %w", err)
	}
	return issues, nil
}
