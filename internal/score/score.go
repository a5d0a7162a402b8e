// Package score derives a single confidence value from per-field
// extraction certainty.
package score

import (
	"math"

	"github.com/hollis-dev/paydown/internal/model"
)

// Threshold below which an item needs user attention.
const Threshold = 0.6

// Signal weights. They sum to 1.0 so a fully certain extraction scores
// exactly 1.
const (
	weightProvider    = 0.25
	weightDate        = 0.30
	weightAmount      = 0.20
	weightAutopay     = 0.15
	weightInstallment = 0.10
)

// Per-signal certainty values.
const (
	providerDomain = 1.0
	providerPhrase = 0.7

	dateExact        = 1.0
	dateLocale       = 0.65
	dateSwapped      = 0.45
	suspiciousFactor = 0.6

	amountExplicit = 1.0
	amountInferred = 0.7

	autopayExplicit  = 1.0
	autopayDefaulted = 0.5

	installmentExplicit  = 1.0
	installmentDefaulted = 0.6
)

// Compute scores an item from its field values and provenance. It is a
// pure function: identical inputs always produce the identical score,
// regardless of how the item got into that state.
func Compute(item *model.Item) float64 {
	p := item.Provenance

	provider := providerPhrase
	if p.ProviderStrength == model.MatchDomain {
		provider = providerDomain
	}

	var date float64
	switch p.DateCertainty {
	case model.DateExact:
		date = dateExact
	case model.DateLocaleAssumed:
		date = dateLocale
	case model.DateOrderSwapped:
		date = dateSwapped
	}
	if p.DateSuspicious {
		date *= suspiciousFactor
	}

	amount := amountInferred
	if p.AmountExplicitCents {
		amount = amountExplicit
	}

	autopay := autopayDefaulted
	if p.AutopayExplicit {
		autopay = autopayExplicit
	}

	installment := installmentDefaulted
	if p.InstallmentExplicit {
		installment = installmentExplicit
	}

	raw := weightProvider*provider +
		weightDate*date +
		weightAmount*amount +
		weightAutopay*autopay +
		weightInstallment*installment

	// Round to 4 decimal places so equal inputs compare bit-for-bit.
	return math.Round(raw*10000) / 10000
}

// NeedsAttention reports whether the item falls below the confidence
// threshold and should be surfaced for quick-fix review.
func NeedsAttention(item *model.Item) bool {
	return item.Confidence < Threshold
}
