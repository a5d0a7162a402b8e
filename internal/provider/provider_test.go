package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hollis-dev/paydown/internal/model"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name         string
		segment      string
		wantProvider model.Provider
		wantStrength model.MatchStrength
	}{
		{
			name:         "klarna sender domain",
			segment:      "From: Klarna <no-reply@klarna.com>\nYour payment is due",
			wantProvider: model.ProviderKlarna,
			wantStrength: model.MatchDomain,
		},
		{
			name:         "klarna phrase only",
			segment:      "Your Klarna payment 2 of 4 is coming up",
			wantProvider: model.ProviderKlarna,
			wantStrength: model.MatchPhrase,
		},
		{
			name:         "afterpay domain",
			segment:      "Subject: Reminder from notifications@afterpay.com",
			wantProvider: model.ProviderAfterpay,
			wantStrength: model.MatchDomain,
		},
		{
			name:         "affirm phrase",
			segment:      "affirm installment due Friday",
			wantProvider: model.ProviderAffirm,
			wantStrength: model.MatchPhrase,
		},
		{
			name:         "quadpay maps to zip",
			segment:      "Your QuadPay order is almost paid off",
			wantProvider: model.ProviderZip,
			wantStrength: model.MatchPhrase,
		},
		{
			name:         "sezzle domain",
			segment:      "hello@sezzle.com says your installment is due",
			wantProvider: model.ProviderSezzle,
			wantStrength: model.MatchDomain,
		},
		{
			name:         "paypal pay in 4",
			segment:      "Your Pay in 4 payment is scheduled",
			wantProvider: model.ProviderPayPal,
			wantStrength: model.MatchPhrase,
		},
		{
			name:         "case insensitive",
			segment:      "YOUR KLARNA PAYMENT",
			wantProvider: model.ProviderKlarna,
			wantStrength: model.MatchPhrase,
		},
		{
			name:         "unrecognized text",
			segment:      "Meeting notes from Tuesday standup",
			wantProvider: model.ProviderUnknown,
			wantStrength: model.MatchNone,
		},
		{
			name:         "empty segment",
			segment:      "",
			wantProvider: model.ProviderUnknown,
			wantStrength: model.MatchNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotProvider, gotStrength := Detect(tt.segment)
			assert.Equal(t, tt.wantProvider, gotProvider)
			assert.Equal(t, tt.wantStrength, gotStrength)
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	segment := "From: no-reply@klarna.com mentioning afterpay and affirm"
	first, strength := Detect(segment)
	for i := 0; i < 10; i++ {
		p, s := Detect(segment)
		assert.Equal(t, first, p)
		assert.Equal(t, strength, s)
	}
	// Domain matches outrank phrase matches regardless of phrase position.
	assert.Equal(t, model.ProviderKlarna, first)
	assert.Equal(t, model.MatchDomain, strength)
}

func TestKnown(t *testing.T) {
	known := Known()
	assert.Len(t, known, 6)
	assert.Equal(t, model.ProviderKlarna, known[0])
	assert.NotContains(t, known, model.ProviderUnknown)
}
