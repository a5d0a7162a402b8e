package model

import (
	"strings"
	"testing"
	"time"
)

func validItem() Item {
	return Item{
		ID:                "item-1",
		Provider:          ProviderKlarna,
		Amount:            25.00,
		Currency:          "USD",
		DueDate:           time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		InstallmentNumber: 2,
		InstallmentTotal:  4,
		Confidence:        0.85,
	}
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Item)
		errPart string
		wantErr bool
	}{
		{
			name:   "valid item",
			mutate: func(_ *Item) {},
		},
		{
			name:    "unknown provider",
			mutate:  func(i *Item) { i.Provider = ProviderUnknown },
			wantErr: true,
			errPart: "provider",
		},
		{
			name:    "zero amount",
			mutate:  func(i *Item) { i.Amount = 0 },
			wantErr: true,
			errPart: "amount",
		},
		{
			name:    "negative amount",
			mutate:  func(i *Item) { i.Amount = -5 },
			wantErr: true,
			errPart: "amount",
		},
		{
			name:    "lowercase currency",
			mutate:  func(i *Item) { i.Currency = "usd" },
			wantErr: true,
			errPart: "currency",
		},
		{
			name:    "two-letter currency",
			mutate:  func(i *Item) { i.Currency = "US" },
			wantErr: true,
			errPart: "currency",
		},
		{
			name:    "installment number above total",
			mutate:  func(i *Item) { i.InstallmentNumber = 5 },
			wantErr: true,
			errPart: "exceeds total",
		},
		{
			name:    "zero installment total",
			mutate:  func(i *Item) { i.InstallmentTotal = 0 },
			wantErr: true,
			errPart: "installment",
		},
		{
			name:    "negative late fee",
			mutate:  func(i *Item) { i.LateFee = -1 },
			wantErr: true,
			errPart: "late fee",
		},
		{
			name:    "confidence above one",
			mutate:  func(i *Item) { i.Confidence = 1.5 },
			wantErr: true,
			errPart: "confidence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)
			err := item.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errPart)
				}
				if !strings.Contains(err.Error(), tt.errPart) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errPart)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestItem_IdentityKey(t *testing.T) {
	a := validItem()
	b := validItem()
	b.ID = "item-2"
	b.Amount = 99.99 // amount is not part of identity

	if a.IdentityKey() != b.IdentityKey() {
		t.Errorf("expected same identity key, got %q and %q", a.IdentityKey(), b.IdentityKey())
	}

	c := validItem()
	c.InstallmentNumber = 3
	if a.IdentityKey() == c.IdentityKey() {
		t.Error("different installment numbers must produce different identity keys")
	}

	d := validItem()
	d.DueDate = d.DueDate.AddDate(0, 0, 1)
	if a.IdentityKey() == d.IdentityKey() {
		t.Error("different due dates must produce different identity keys")
	}
}

func TestItem_Clone(t *testing.T) {
	a := validItem()
	b := a.Clone()
	b.Amount = 1.23
	b.Provenance.AutopayExplicit = true

	if a.Amount != 25.00 {
		t.Error("mutating clone changed original amount")
	}
	if a.Provenance.AutopayExplicit {
		t.Error("mutating clone changed original provenance")
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{25, 25.00},
		{19.999, 20.00},
		{0.005, 0.01},
		{12.341, 12.34},
	}
	for _, tt := range tests {
		if got := NormalizeAmount(tt.in); got != tt.want {
			t.Errorf("NormalizeAmount(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRedactSnippet(t *testing.T) {
	raw := "Your Klarna payment of $25.00 for order 123456789 is due. Contact help@klarna.com or call 5551234567."
	got := RedactSnippet(raw)

	if strings.Contains(got, "123456789") {
		t.Error("snippet leaked account number")
	}
	if strings.Contains(got, "help@klarna.com") {
		t.Error("snippet leaked email address")
	}
	if len(got) > snippetLimit+len("…") {
		t.Errorf("snippet length %d exceeds bound", len(got))
	}

	long := strings.Repeat("word ", 100)
	if got := RedactSnippet(long); len(got) > snippetLimit+len("…") {
		t.Errorf("long snippet not truncated, length %d", len(got))
	}
}

func TestParseField(t *testing.T) {
	for _, name := range []string{"dueDate", "amount", "autopay", "installmentNumber", "installmentTotal"} {
		if _, err := ParseField(name); err != nil {
			t.Errorf("ParseField(%q) unexpected error: %v", name, err)
		}
	}
	if _, err := ParseField("lateFee"); err == nil {
		t.Error("lateFee is not fixable, expected error")
	}
}
