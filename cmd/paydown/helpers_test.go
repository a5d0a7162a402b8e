package main

import (
	"testing"
	"time"

	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/service"
)

func TestResolveItemID(t *testing.T) {
	session := &service.SessionRecord{
		Items: []model.Item{
			{ID: "aaaa1111-0000"},
			{ID: "aaaa2222-0000"},
			{ID: "bbbb3333-0000"},
		},
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"full ID", "bbbb3333-0000", "bbbb3333-0000", false},
		{"unique prefix", "bbbb", "bbbb3333-0000", false},
		{"ambiguous prefix", "aaaa", "", true},
		{"no match", "cccc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveItemID(session, tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Errorf("resolveItemID(%q) expected error", tt.ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveItemID(%q) failed: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("resolveItemID(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestParsePatch(t *testing.T) {
	patch, err := parsePatch("dueDate", "2026-03-15")
	if err != nil {
		t.Fatalf("parsePatch failed: %v", err)
	}
	due, ok := patch.(model.DueDatePatch)
	if !ok {
		t.Fatalf("expected DueDatePatch, got %T", patch)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !due.Value.Equal(want) {
		t.Errorf("due date = %v, want %v", due.Value, want)
	}

	if _, err := parsePatch("amount", "25.50"); err != nil {
		t.Errorf("amount patch failed: %v", err)
	}
	if _, err := parsePatch("autopay", "true"); err != nil {
		t.Errorf("autopay patch failed: %v", err)
	}
	if _, err := parsePatch("installmentNumber", "2"); err != nil {
		t.Errorf("installment number patch failed: %v", err)
	}

	if _, err := parsePatch("provider", "Klarna"); err == nil {
		t.Error("expected error for unfixable field")
	}
	if _, err := parsePatch("dueDate", "03/15/2026"); err == nil {
		t.Error("expected error for slash-format due date")
	}
	if _, err := parsePatch("amount", "lots"); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abcdefgh-1234"); got != "abcdefgh" {
		t.Errorf("shortID = %q, want abcdefgh", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q, want abc", got)
	}
}
