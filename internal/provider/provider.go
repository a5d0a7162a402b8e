// Package provider classifies email segments by BNPL provider signature.
package provider

import (
	"strings"

	"github.com/hollis-dev/paydown/internal/model"
)

// Signature describes how to recognize one provider. Domain keywords come
// from sender addresses and links; phrase keywords from provider-specific
// wording in the body.
type Signature struct {
	Provider model.Provider
	Domains  []string
	Phrases  []string
}

// signatures is the ordered signature table. First match wins, so more
// specific providers sit above ones with generic phrasing.
var signatures = []Signature{
	{
		Provider: model.ProviderKlarna,
		Domains:  []string{"klarna.com", "@klarna"},
		Phrases:  []string{"klarna"},
	},
	{
		Provider: model.ProviderAfterpay,
		Domains:  []string{"afterpay.com", "@afterpay"},
		Phrases:  []string{"afterpay"},
	},
	{
		Provider: model.ProviderAffirm,
		Domains:  []string{"affirm.com", "@affirm"},
		Phrases:  []string{"affirm"},
	},
	{
		Provider: model.ProviderZip,
		Domains:  []string{"zip.co", "quadpay.com"},
		Phrases:  []string{"zip pay", "quadpay", "zip co"},
	},
	{
		Provider: model.ProviderSezzle,
		Domains:  []string{"sezzle.com", "@sezzle"},
		Phrases:  []string{"sezzle"},
	},
	{
		Provider: model.ProviderPayPal,
		Domains:  []string{"paypal.com", "@paypal"},
		Phrases:  []string{"pay in 4", "paypal"},
	},
}

// Detect classifies a segment. It returns the first matching provider and
// the strength of the match; unknown segments return
// (model.ProviderUnknown, model.MatchNone). Deterministic: the same text
// always yields the same classification.
func Detect(segment string) (model.Provider, model.MatchStrength) {
	lower := strings.ToLower(segment)
	for _, sig := range signatures {
		for _, domain := range sig.Domains {
			if strings.Contains(lower, domain) {
				return sig.Provider, model.MatchDomain
			}
		}
	}
	for _, sig := range signatures {
		for _, phrase := range sig.Phrases {
			if strings.Contains(lower, phrase) {
				return sig.Provider, model.MatchPhrase
			}
		}
	}
	return model.ProviderUnknown, model.MatchNone
}

// Known returns every provider the detector can classify, in table order.
func Known() []model.Provider {
	out := make([]model.Provider, 0, len(signatures))
	for _, sig := range signatures {
		out = append(out, sig.Provider)
	}
	return out
}
