package csvio

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/score"
)

func scheduleItems() []model.Item {
	return []model.Item{
		{
			ID:                "a",
			Provider:          model.ProviderKlarna,
			Amount:            25.00,
			Currency:          "USD",
			DueDate:           time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			InstallmentNumber: 1,
			InstallmentTotal:  4,
			Autopay:           true,
		},
		{
			ID:                "b",
			Provider:          model.ProviderAfterpay,
			Amount:            1234.56,
			Currency:          "USD",
			DueDate:           time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			InstallmentNumber: 1,
			InstallmentTotal:  1,
			Autopay:           false,
		},
	}
}

func TestImport(t *testing.T) {
	input := "provider,amount,currency,dueISO,autopay\n" +
		"Klarna,25.00,USD,2026-03-15,true\n" +
		"Afterpay,18.75,usd,2026-04-01,false\n"

	items, err := Import(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, model.ProviderKlarna, items[0].Provider)
	assert.Equal(t, 25.00, items[0].Amount)
	assert.Equal(t, "2026-03-15", items[0].DueISO())
	assert.True(t, items[0].Autopay)
	assert.NotEmpty(t, items[0].ID)
	assert.NoError(t, items[0].Validate())

	// Lowercase currency normalizes to USD.
	assert.Equal(t, "USD", items[1].Currency)

	// Imported rows are scored like extracted ones.
	assert.Equal(t, score.Compute(&items[0]), items[0].Confidence)
}

func TestImport_InvalidCurrencyAbortsWholesale(t *testing.T) {
	input := "provider,amount,currency,dueISO,autopay\n" +
		"Klarna,25.00,US,2026-03-15,true\n" +
		"Afterpay,18.75,USD,2026-04-01,false\n"

	items, err := Import(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, items, "no partial results on abort")
	assert.Equal(t, "Invalid currency code in row 1: US (expected 3-letter ISO 4217 code)", err.Error())
}

func TestImport_CurrencyErrorReportsRawValue(t *testing.T) {
	input := "provider,amount,currency,dueISO,autopay\n" +
		"Klarna,25.00,USD,2026-03-15,true\n" +
		"Afterpay,18.75, u$d ,2026-04-01,false\n"

	_, err := Import(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid currency code in row 2:")
	assert.Contains(t, err.Error(), "u$d")
}

func TestImport_RowErrors(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		errPart string
	}{
		{"bad amount", "Klarna,abc,USD,2026-03-15,true", "invalid amount in row 1"},
		{"negative amount", "Klarna,-5,USD,2026-03-15,true", "invalid amount in row 1"},
		{"bad date", "Klarna,25.00,USD,03/15/2026,true", "invalid due date in row 1"},
		{"bad autopay", "Klarna,25.00,USD,2026-03-15,maybe", "invalid autopay flag in row 1"},
		{"missing provider", ",25.00,USD,2026-03-15,true", "missing provider in row 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "provider,amount,currency,dueISO,autopay\n" + tt.row + "\n"
			_, err := Import(strings.NewReader(input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestImport_HeaderValidation(t *testing.T) {
	_, err := Import(strings.NewReader("provider,amount,currency\nKlarna,25.00,USD\n"))
	require.Error(t, err)

	_, err = Import(strings.NewReader(""))
	require.Error(t, err)

	// Header comparison is case-insensitive.
	_, err = Import(strings.NewReader("Provider,Amount,Currency,DueISO,Autopay\nKlarna,25.00,USD,2026-03-15,true\n"))
	assert.NoError(t, err)
}

func TestImport_RowQuota(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("provider,amount,currency,dueISO,autopay\n")
	for i := 0; i <= MaxImportRows; i++ {
		fmt.Fprintf(&sb, "Klarna,%d.00,USD,2026-03-15,true\n", i+1)
	}

	_, err := Import(strings.NewReader(sb.String()))
	assert.ErrorIs(t, err, ErrTooManyRows)
}

func TestImport_ByteQuota(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("provider,amount,currency,dueISO,autopay\n")
	filler := strings.Repeat("x", 1024)
	for sb.Len() <= MaxImportBytes {
		fmt.Fprintf(&sb, "%s,25.00,USD,2026-03-15,true\n", filler)
	}

	_, err := Import(strings.NewReader(sb.String()))
	assert.ErrorIs(t, err, ErrImportTooLarge)
}

func TestExport(t *testing.T) {
	findings := []model.RiskFinding{{
		Type:     model.RiskWeekendAutopay,
		Severity: model.SeverityLow,
		Message:  "Klarna autopay of $25.00 lands on Sunday 2026-03-15, a non-business day",
		ItemIDs:  []string{"a"},
	}}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, scheduleItems(), findings))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "provider,amount,currency,dueISO,autopay,risk_type,risk_severity,risk_message", lines[0])
	assert.Contains(t, lines[1], "Klarna,25.00,USD,2026-03-15,true,WEEKEND_AUTOPAY,LOW,")
	// Messages containing commas are quote-wrapped per RFC 4180.
	assert.Contains(t, lines[1], `"Klarna autopay of $25.00 lands on Sunday 2026-03-15, a non-business day"`)
	// Items without findings carry empty risk columns.
	assert.True(t, strings.HasSuffix(lines[2], ",,,"), "expected empty risk columns, got %q", lines[2])
}

func TestExport_RoundTrip(t *testing.T) {
	items := scheduleItems()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, items, nil))

	imported, err := Import(&buf)
	require.NoError(t, err)
	require.Len(t, imported, len(items))

	for i, got := range imported {
		want := items[i]
		assert.Equal(t, want.Provider, got.Provider)
		assert.Equal(t, want.Amount, got.Amount)
		assert.Equal(t, want.Currency, got.Currency)
		assert.Equal(t, want.DueISO(), got.DueISO())
		assert.Equal(t, want.Autopay, got.Autopay)
	}
}

// Risk columns are derived: exporting with findings and importing again
// must not smuggle risk state back in.
func TestExport_RoundTripIgnoresRiskColumns(t *testing.T) {
	findings := []model.RiskFinding{{
		Type:     model.RiskCollision,
		Severity: model.SeverityHigh,
		Message:  `they said "pay up", twice`,
		ItemIDs:  []string{"a", "b"},
	}}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, scheduleItems(), findings))

	imported, err := Import(&buf)
	require.NoError(t, err)
	assert.Len(t, imported, 2)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 4, 5, 0, time.UTC)
	assert.Equal(t, "export-2026-03-15-090405.csv", Filename(now))
	assert.Equal(t, "export-2026-03-15-090405.xlsx", XLSXFilename(now))
}

func TestExportXLSX(t *testing.T) {
	data, err := ExportXLSX(scheduleItems(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "provider", rows[0][0])
	assert.Equal(t, "Klarna", rows[1][0])
}
