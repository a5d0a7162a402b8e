package quickfix

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/score"
)

func testItem() model.Item {
	item := model.Item{
		ID:                "item-1",
		Provider:          model.ProviderKlarna,
		Amount:            25.00,
		Currency:          "USD",
		DueDate:           time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		InstallmentNumber: 2,
		InstallmentTotal:  4,
		Provenance: model.Provenance{
			ProviderStrength:    model.MatchPhrase,
			DateCertainty:       model.DateOrderSwapped,
			InstallmentExplicit: true,
		},
	}
	item.Confidence = score.Compute(&item)
	return item
}

func newTestSession(items ...model.Item) *Session {
	return NewSession(items, DefaultLimits())
}

func TestApply_ValidPatches(t *testing.T) {
	tests := []struct {
		name   string
		patch  model.Patch
		verify func(*testing.T, *model.Item)
	}{
		{
			name:  "due date",
			patch: model.DueDatePatch{Value: time.Date(2026, 4, 1, 10, 30, 0, 0, time.Local)},
			verify: func(t *testing.T, item *model.Item) {
				assert.Equal(t, "2026-04-01", item.DueISO())
				assert.Equal(t, model.DateExact, item.Provenance.DateCertainty)
				assert.False(t, item.Provenance.DateSuspicious)
			},
		},
		{
			name:  "amount normalized to two decimals",
			patch: model.AmountPatch{Value: 19.999},
			verify: func(t *testing.T, item *model.Item) {
				assert.Equal(t, 20.00, item.Amount)
				assert.True(t, item.Provenance.AmountExplicitCents)
			},
		},
		{
			name:  "autopay",
			patch: model.AutopayPatch{Value: true},
			verify: func(t *testing.T, item *model.Item) {
				assert.True(t, item.Autopay)
				assert.True(t, item.Provenance.AutopayExplicit)
			},
		},
		{
			name:  "installment number",
			patch: model.InstallmentNumberPatch{Value: 3},
			verify: func(t *testing.T, item *model.Item) {
				assert.Equal(t, 3, item.InstallmentNumber)
			},
		},
		{
			name:  "installment total",
			patch: model.InstallmentTotalPatch{Value: 6},
			verify: func(t *testing.T, item *model.Item) {
				assert.Equal(t, 6, item.InstallmentTotal)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(testItem())
			got, err := s.Apply("item-1", tt.patch)
			require.NoError(t, err)
			tt.verify(t, got)
			assert.NoError(t, got.Validate())

			// Confidence was recomputed from the new provenance.
			assert.Equal(t, score.Compute(got), got.Confidence)
		})
	}
}

func TestApply_RejectedPatches(t *testing.T) {
	tests := []struct {
		name      string
		patch     model.Patch
		wantField model.Field
	}{
		{
			name:      "zero amount",
			patch:     model.AmountPatch{Value: 0},
			wantField: model.FieldAmount,
		},
		{
			name:      "negative amount",
			patch:     model.AmountPatch{Value: -3},
			wantField: model.FieldAmount,
		},
		{
			name:      "amount above cap",
			patch:     model.AmountPatch{Value: 2000000},
			wantField: model.FieldAmount,
		},
		{
			name:      "year below range",
			patch:     model.DueDatePatch{Value: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)},
			wantField: model.FieldDueDate,
		},
		{
			name:      "year above range",
			patch:     model.DueDatePatch{Value: time.Date(2101, 1, 1, 0, 0, 0, 0, time.UTC)},
			wantField: model.FieldDueDate,
		},
		{
			name:      "zero date",
			patch:     model.DueDatePatch{},
			wantField: model.FieldDueDate,
		},
		{
			name:      "installment number above total",
			patch:     model.InstallmentNumberPatch{Value: 5},
			wantField: model.FieldInstallmentNumber,
		},
		{
			name:      "installment number below one",
			patch:     model.InstallmentNumberPatch{Value: 0},
			wantField: model.FieldInstallmentNumber,
		},
		{
			name:      "installment total below number",
			patch:     model.InstallmentTotalPatch{Value: 1},
			wantField: model.FieldInstallmentTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(testItem())
			before, err := s.Item("item-1")
			require.NoError(t, err)

			_, err = s.Apply("item-1", tt.patch)
			require.Error(t, err)

			var fieldErr *model.FieldError
			require.True(t, errors.As(err, &fieldErr), "expected a FieldError, got %T", err)
			assert.Equal(t, tt.wantField, fieldErr.FieldName)

			// Rejected patches must leave the item bit-for-bit unchanged
			// and capture no snapshot.
			after, err := s.Item("item-1")
			require.NoError(t, err)
			assert.Equal(t, before, after)
			assert.False(t, s.HasCorrections())
		})
	}
}

func TestApply_UnknownItem(t *testing.T) {
	s := newTestSession(testItem())
	_, err := s.Apply("nope", model.AmountPatch{Value: 10})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUndo_RestoresExactly(t *testing.T) {
	s := newTestSession(testItem())
	original, err := s.Item("item-1")
	require.NoError(t, err)

	_, err = s.Apply("item-1", model.AmountPatch{Value: 99.95})
	require.NoError(t, err)
	assert.True(t, s.HasCorrections())

	restored, err := s.Undo("item-1")
	require.NoError(t, err)

	// All fields, provenance and confidence restored bit-for-bit.
	assert.Equal(t, original, *restored)
	assert.False(t, s.HasCorrections())
}

func TestUndo_SecondCorrectionDoesNotRefreshSnapshot(t *testing.T) {
	s := newTestSession(testItem())
	original, err := s.Item("item-1")
	require.NoError(t, err)

	_, err = s.Apply("item-1", model.AmountPatch{Value: 50})
	require.NoError(t, err)
	_, err = s.Apply("item-1", model.AmountPatch{Value: 75})
	require.NoError(t, err)

	// Undo jumps back to the state before the first correction, not the
	// intermediate one.
	restored, err := s.Undo("item-1")
	require.NoError(t, err)
	assert.Equal(t, original.Amount, restored.Amount)
}

func TestUndo_WithoutCorrection(t *testing.T) {
	s := newTestSession(testItem())
	_, err := s.Undo("item-1")
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestUndo_Twice(t *testing.T) {
	s := newTestSession(testItem())
	_, err := s.Apply("item-1", model.AmountPatch{Value: 50})
	require.NoError(t, err)

	_, err = s.Undo("item-1")
	require.NoError(t, err)

	_, err = s.Undo("item-1")
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestApply_CanCrossThreshold(t *testing.T) {
	item := testItem()
	item.Provenance = model.Provenance{
		ProviderStrength: model.MatchPhrase,
		DateCertainty:    model.DateOrderSwapped,
	}
	item.Confidence = score.Compute(&item)
	require.Less(t, item.Confidence, score.Threshold)

	s := newTestSession(item)
	fixed, err := s.Apply("item-1", model.AmountPatch{Value: 25.00})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fixed.Confidence, score.Threshold)
}

func TestRestoreSession(t *testing.T) {
	item := testItem()
	snapshot := item.Clone()
	snapshot.Amount = 10.00

	s := RestoreSession([]model.Item{item}, map[string]model.Item{"item-1": snapshot}, DefaultLimits())
	assert.True(t, s.HasCorrections())

	restored, err := s.Undo("item-1")
	require.NoError(t, err)
	assert.Equal(t, 10.00, restored.Amount)
}

func TestSession_ItemsReturnsCopy(t *testing.T) {
	s := newTestSession(testItem())
	items := s.Items()
	items[0].Amount = 1.00

	current, err := s.Item("item-1")
	require.NoError(t, err)
	assert.Equal(t, 25.00, current.Amount)
}
