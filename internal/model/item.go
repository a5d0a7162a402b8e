// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// Provider identifies the BNPL service a payment reminder came from.
type Provider string

// Known BNPL providers.
const (
	ProviderKlarna   Provider = "Klarna"
	ProviderAfterpay Provider = "Afterpay"
	ProviderAffirm   Provider = "Affirm"
	ProviderZip      Provider = "Zip"
	ProviderSezzle   Provider = "Sezzle"
	ProviderPayPal   Provider = "PayPal Pay in 4"
	ProviderUnknown  Provider = "Unknown"
)

// MatchStrength indicates how a provider signature matched a segment.
type MatchStrength int

// Match strength values, weakest first.
const (
	MatchNone MatchStrength = iota
	MatchPhrase
	MatchDomain
)

// DateCertainty records which parsing path produced a due date.
type DateCertainty int

// Date certainty values, most certain first.
const (
	// DateExact means an unambiguous format matched (ISO or long-form month).
	DateExact DateCertainty = iota
	// DateLocaleAssumed means a slash date parsed under the active locale's order.
	DateLocaleAssumed
	// DateOrderSwapped means the locale's order was not a real calendar date
	// and the swapped day/month order was used instead.
	DateOrderSwapped
)

// Provenance captures how certain each extracted field is. It feeds the
// confidence scorer and is updated when a field is corrected by the user.
type Provenance struct {
	ProviderStrength    MatchStrength
	DateCertainty       DateCertainty
	DateSuspicious      bool
	AmountExplicitCents bool
	AutopayExplicit     bool
	InstallmentExplicit bool
}

// Item is a single extracted BNPL payment obligation.
type Item struct {
	DueDate           time.Time
	ID                string
	Provider          Provider
	Currency          string
	Amount            float64
	LateFee           float64
	Confidence        float64
	InstallmentNumber int
	InstallmentTotal  int
	SegmentIndex      int
	Autopay           bool
	Provenance        Provenance
}

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidCurrency reports whether code is a well-formed 3-letter currency code.
func ValidCurrency(code string) bool {
	return currencyPattern.MatchString(code)
}

// Validate checks the item invariants.
func (i *Item) Validate() error {
	if i.Provider == "" || i.Provider == ProviderUnknown {
		return fmt.Errorf("provider is required")
	}
	if i.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %.2f", i.Amount)
	}
	if !ValidCurrency(i.Currency) {
		return fmt.Errorf("currency must be a 3-letter code, got %q", i.Currency)
	}
	if i.DueDate.IsZero() {
		return fmt.Errorf("due date is required")
	}
	if i.InstallmentNumber < 1 || i.InstallmentTotal < 1 {
		return fmt.Errorf("installment numbers must be at least 1")
	}
	if i.InstallmentNumber > i.InstallmentTotal {
		return fmt.Errorf("installment %d exceeds total %d", i.InstallmentNumber, i.InstallmentTotal)
	}
	if i.LateFee < 0 {
		return fmt.Errorf("late fee cannot be negative")
	}
	if i.Confidence < 0 || i.Confidence > 1 {
		return fmt.Errorf("confidence must be in [0,1], got %f", i.Confidence)
	}
	return nil
}

// IdentityKey returns the duplicate-detection key for this item.
// Two items with the same key describe the same payment.
func (i *Item) IdentityKey() string {
	return fmt.Sprintf("%s:%d:%s", i.Provider, i.InstallmentNumber, i.DueDate.Format("2006-01-02"))
}

// Clone returns a full copy of the item. Item holds no reference types,
// so a value copy is a deep copy.
func (i *Item) Clone() Item {
	return *i
}

// DueISO returns the due date in ISO form.
func (i *Item) DueISO() string {
	return i.DueDate.Format("2006-01-02")
}

// NormalizeAmount rounds a dollar amount to two decimal places.
func NormalizeAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}
