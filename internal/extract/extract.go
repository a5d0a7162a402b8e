// Package extract pulls typed payment fields out of a single email segment.
// Amount is the only field that can fail extraction; installments, autopay
// and late fee all degrade to documented defaults.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hollis-dev/paydown/internal/model"
)

// Fields holds everything extracted from one segment besides the due date.
type Fields struct {
	Currency            string
	Amount              float64
	LateFee             float64
	InstallmentNumber   int
	InstallmentTotal    int
	Autopay             bool
	AmountExplicitCents bool
	AutopayExplicit     bool
	InstallmentExplicit bool
}

const amountToken = `\$(\d{1,3}(?:,\d{3})*|\d+)(\.\d{2})?`

var (
	genericAmount = regexp.MustCompile(amountToken)

	// providerAmounts anchor the amount to provider-typical phrasing and
	// are tried before the generic fallback.
	providerAmounts = map[model.Provider]*regexp.Regexp{
		model.ProviderKlarna:   regexp.MustCompile(`(?i)payment of ` + amountToken),
		model.ProviderAfterpay: regexp.MustCompile(`(?i)instal?lment of ` + amountToken),
		model.ProviderAffirm:   regexp.MustCompile(`(?i)` + amountToken + ` (?:payment|is due)`),
		model.ProviderZip:      regexp.MustCompile(`(?i)(?:payment|instal?lment) of ` + amountToken),
		model.ProviderSezzle:   regexp.MustCompile(`(?i)payment of ` + amountToken),
		model.ProviderPayPal:   regexp.MustCompile(`(?i)(?:payment of|charge) ` + amountToken),
	}

	lateFeeBefore = regexp.MustCompile(`(?i)late fee[^$\n]{0,40}` + amountToken)
	lateFeeAfter  = regexp.MustCompile(`(?i)` + amountToken + `[^.\n]{0,30}late fee`)

	installmentOf = regexp.MustCompile(`(?i)\b(\d{1,2})\s+of\s+(\d{1,2})\b`)
	installmentSl = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
)

// autopayPhrases is the fixed keyword list for autopay detection.
// Absence of every phrase means autopay is off, not unknown.
var autopayPhrases = []string{
	"autopay",
	"auto-pay",
	"automatic billing",
	"automatic payment",
	"automatically charged",
	"charged automatically",
	"auto debit",
	"auto-debit",
}

// Extract pulls all non-date fields from a segment. The returned error is
// always an amount failure; every other field has a soft default.
func Extract(segment string, p model.Provider) (Fields, error) {
	amount, explicitCents, err := Amount(segment, p)
	if err != nil {
		return Fields{}, err
	}

	f := Fields{
		Amount:              amount,
		AmountExplicitCents: explicitCents,
		Currency:            Currency(segment),
		LateFee:             LateFee(segment),
	}
	f.InstallmentNumber, f.InstallmentTotal, f.InstallmentExplicit = Installment(segment)
	f.Autopay, f.AutopayExplicit = Autopay(segment)
	return f, nil
}

// Amount finds the payment amount: the provider-specific pattern first,
// then the first generic currency token outside a late-fee clause.
func Amount(segment string, p model.Provider) (float64, bool, error) {
	if re, ok := providerAmounts[p]; ok {
		if m := re.FindStringSubmatch(segment); m != nil {
			return parseAmount(m[1], m[2])
		}
	}

	for _, loc := range genericAmount.FindAllStringSubmatchIndex(segment, -1) {
		if inLateFeeClause(segment, loc[0]) {
			continue
		}
		whole := segment[loc[2]:loc[3]]
		cents := ""
		if loc[4] >= 0 {
			cents = segment[loc[4]:loc[5]]
		}
		return parseAmount(whole, cents)
	}

	return 0, false, fmt.Errorf("no payment amount found")
}

// inLateFeeClause reports whether an amount at offset sits right after a
// late-fee mention, so the generic fallback skips it.
func inLateFeeClause(segment string, offset int) bool {
	start := offset - 20
	if start < 0 {
		start = 0
	}
	return strings.Contains(strings.ToLower(segment[start:offset]), "late fee")
}

func parseAmount(whole, cents string) (float64, bool, error) {
	raw := strings.ReplaceAll(whole, ",", "") + cents
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("unparseable amount %q: %w", raw, err)
	}
	if amount <= 0 {
		return 0, false, fmt.Errorf("amount must be positive, got %v", amount)
	}
	return amount, cents != "", nil
}

// Currency infers the currency code. Only USD is in scope: a dollar sign
// confirms it and its absence still defaults to USD.
func Currency(_ string) string {
	return "USD"
}

// Installment parses "N of M" or "N/M". Slash forms are skipped when they
// are part of a slash date (an adjacent digit or slash) or read
// implausibly (N > M). Returns the soft default (1, 1) when absent.
func Installment(segment string) (number, total int, explicit bool) {
	if m := installmentOf.FindStringSubmatch(segment); m != nil {
		n, _ := strconv.Atoi(m[1])
		t, _ := strconv.Atoi(m[2])
		if plausibleInstallment(n, t) {
			return n, t, true
		}
	}

	for _, loc := range installmentSl.FindAllStringSubmatchIndex(segment, -1) {
		if adjacentToDate(segment, loc[0], loc[1]) {
			continue
		}
		n, _ := strconv.Atoi(segment[loc[2]:loc[3]])
		t, _ := strconv.Atoi(segment[loc[4]:loc[5]])
		if plausibleInstallment(n, t) {
			return n, t, true
		}
	}

	return 1, 1, false
}

func plausibleInstallment(n, t int) bool {
	return n >= 1 && t >= 2 && n <= t && t <= 36
}

// adjacentToDate reports whether a slash pair touches another slash or
// digit, which means it is a fragment of a date like 03/04/2026.
func adjacentToDate(segment string, start, end int) bool {
	if start > 0 {
		prev := segment[start-1]
		if prev == '/' || (prev >= '0' && prev <= '9') {
			return true
		}
	}
	if end < len(segment) {
		next := segment[end]
		if next == '/' || (next >= '0' && next <= '9') {
			return true
		}
	}
	return false
}

// Autopay reports whether any autopay phrase appears. The second return
// distinguishes an explicit keyword hit from the defaulted false.
func Autopay(segment string) (enabled, explicit bool) {
	lower := strings.ToLower(segment)
	for _, phrase := range autopayPhrases {
		if strings.Contains(lower, phrase) {
			return true, true
		}
	}
	return false, false
}

// LateFee parses a late-fee dollar clause if present, defaulting to 0.
func LateFee(segment string) float64 {
	for _, re := range []*regexp.Regexp{lateFeeBefore, lateFeeAfter} {
		if m := re.FindStringSubmatch(segment); m != nil {
			fee, _, err := parseAmount(m[1], m[2])
			if err == nil {
				return fee
			}
		}
	}
	return 0
}
