// Package quickfix applies validated single-field corrections to
// extracted items, with exactly one level of undo per item.
package quickfix

import (
	"errors"
	"fmt"
	"time"

	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/score"
)

// Correction errors.
var (
	ErrItemNotFound  = errors.New("item not found")
	ErrNothingToUndo = errors.New("no correction to undo")
)

// Limits bounds the values a correction may introduce.
type Limits struct {
	MinYear   int
	MaxYear   int
	MaxAmount float64
}

// DefaultLimits returns the default correction bounds.
func DefaultLimits() Limits {
	return Limits{MinYear: 2000, MaxYear: 2100, MaxAmount: 100000}
}

// Session owns the current item set and the per-item snapshot map. It is
// constructed at extraction time and discarded wholesale on re-extraction;
// no state survives it.
type Session struct {
	index     map[string]int
	snapshots map[string]model.Item
	items     []model.Item
	limits    Limits
}

// NewSession builds a session over freshly extracted or imported items.
func NewSession(items []model.Item, limits Limits) *Session {
	return RestoreSession(items, nil, limits)
}

// RestoreSession rebuilds a session from persisted items and snapshots.
func RestoreSession(items []model.Item, snapshots map[string]model.Item, limits Limits) *Session {
	s := &Session{
		items:     make([]model.Item, len(items)),
		index:     make(map[string]int, len(items)),
		snapshots: make(map[string]model.Item, len(snapshots)),
		limits:    limits,
	}
	copy(s.items, items)
	for i, item := range s.items {
		s.index[item.ID] = i
	}
	for id, snap := range snapshots {
		s.snapshots[id] = snap
	}
	return s
}

// Items returns a copy of the item set in extraction order.
func (s *Session) Items() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns a copy of one item by ID.
func (s *Session) Item(id string) (model.Item, error) {
	i, ok := s.index[id]
	if !ok {
		return model.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return s.items[i], nil
}

// HasCorrections reports whether any item has an undoable correction.
func (s *Session) HasCorrections() bool {
	return len(s.snapshots) > 0
}

// Snapshots returns a copy of the snapshot map for persistence.
func (s *Session) Snapshots() map[string]model.Item {
	out := make(map[string]model.Item, len(s.snapshots))
	for id, snap := range s.snapshots {
		out[id] = snap
	}
	return out
}

// Apply validates and applies one whole-field correction. On validation
// failure the item is untouched and a field-scoped error is returned. On
// the first correction of an item a snapshot is captured; later
// corrections never refresh it.
func (s *Session) Apply(itemID string, patch model.Patch) (*model.Item, error) {
	i, ok := s.index[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	item := &s.items[i]

	updated, fieldErr := s.validated(item, patch)
	if fieldErr != nil {
		return nil, fieldErr
	}

	if _, taken := s.snapshots[itemID]; !taken {
		s.snapshots[itemID] = item.Clone()
	}

	*item = updated
	item.Confidence = score.Compute(item)

	result := item.Clone()
	return &result, nil
}

// Undo restores an item to its snapshot exactly, confidence included, and
// discards the snapshot. Only one undo level ever exists.
func (s *Session) Undo(itemID string) (*model.Item, error) {
	i, ok := s.index[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	snap, ok := s.snapshots[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNothingToUndo, itemID)
	}

	s.items[i] = snap
	delete(s.snapshots, itemID)

	result := snap.Clone()
	return &result, nil
}

// validated returns a copy of the item with the patch applied, or a
// field-scoped error. The original is never partially modified.
func (s *Session) validated(item *model.Item, patch model.Patch) (model.Item, *model.FieldError) {
	updated := item.Clone()

	switch p := patch.(type) {
	case model.DueDatePatch:
		if p.Value.IsZero() {
			return model.Item{}, &model.FieldError{FieldName: model.FieldDueDate, Reason: "date is required"}
		}
		year := p.Value.Year()
		if year < s.limits.MinYear || year > s.limits.MaxYear {
			return model.Item{}, &model.FieldError{
				FieldName: model.FieldDueDate,
				Reason:    fmt.Sprintf("year %d outside plausible range %d-%d", year, s.limits.MinYear, s.limits.MaxYear),
			}
		}
		updated.DueDate = dateOnly(p.Value)
		updated.Provenance.DateCertainty = model.DateExact
		updated.Provenance.DateSuspicious = false

	case model.AmountPatch:
		amount := model.NormalizeAmount(p.Value)
		if amount <= 0 {
			return model.Item{}, &model.FieldError{FieldName: model.FieldAmount, Reason: "amount must be positive"}
		}
		if amount > s.limits.MaxAmount {
			return model.Item{}, &model.FieldError{
				FieldName: model.FieldAmount,
				Reason:    fmt.Sprintf("amount %.2f exceeds maximum %.2f", amount, s.limits.MaxAmount),
			}
		}
		updated.Amount = amount
		updated.Provenance.AmountExplicitCents = true

	case model.AutopayPatch:
		updated.Autopay = p.Value
		updated.Provenance.AutopayExplicit = true

	case model.InstallmentNumberPatch:
		if p.Value < 1 {
			return model.Item{}, &model.FieldError{FieldName: model.FieldInstallmentNumber, Reason: "must be at least 1"}
		}
		if p.Value > updated.InstallmentTotal {
			return model.Item{}, &model.FieldError{
				FieldName: model.FieldInstallmentNumber,
				Reason:    fmt.Sprintf("%d exceeds installment total %d", p.Value, updated.InstallmentTotal),
			}
		}
		updated.InstallmentNumber = p.Value
		updated.Provenance.InstallmentExplicit = true

	case model.InstallmentTotalPatch:
		if p.Value < 1 {
			return model.Item{}, &model.FieldError{FieldName: model.FieldInstallmentTotal, Reason: "must be at least 1"}
		}
		if p.Value < updated.InstallmentNumber {
			return model.Item{}, &model.FieldError{
				FieldName: model.FieldInstallmentTotal,
				Reason:    fmt.Sprintf("%d is below installment number %d", p.Value, updated.InstallmentNumber),
			}
		}
		updated.InstallmentTotal = p.Value
		updated.Provenance.InstallmentExplicit = true

	default:
		return model.Item{}, &model.FieldError{FieldName: patch.Field(), Reason: "unsupported patch type"}
	}

	return updated, nil
}

// dateOnly truncates a corrected date to a date-only UTC value, matching
// how extraction stores due dates.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
