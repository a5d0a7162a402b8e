// Package csvio imports and exports the payment schedule as plain
// tabular data.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hollis-dev/paydown/internal/model"
	"github.com/hollis-dev/paydown/internal/score"
)

// Import quotas. Exceeding either aborts the import wholesale.
const (
	MaxImportBytes = 1 << 20
	MaxImportRows  = 1000
)

// Quota errors.
var (
	ErrImportTooLarge = fmt.Errorf("import exceeds %d byte limit", MaxImportBytes)
	ErrTooManyRows    = fmt.Errorf("import exceeds %d row limit", MaxImportRows)
	errMissingHeader  = errors.New("missing header row")
)

var importHeader = []string{"provider", "amount", "currency", "dueISO", "autopay"}

// Import parses CSV input into items. The parse is all-or-nothing: the
// first malformed row aborts the whole import with no partial results.
// Dates are already ISO, so no locale is involved.
func Import(r io.Reader) ([]model.Item, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	if len(data) > MaxImportBytes {
		return nil, ErrImportTooLarge
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var items []model.Item
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed CSV in row %d: %w", row+1, err)
		}
		row++
		if row > MaxImportRows {
			return nil, ErrTooManyRows
		}

		item, err := parseRow(record, row)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, nil
}

func validateHeader(header []string) error {
	if len(header) < len(importHeader) {
		return fmt.Errorf("expected header %q, got %q", strings.Join(importHeader, ","), strings.Join(header, ","))
	}
	for i, want := range importHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("expected header column %d to be %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

// parseRow converts one data row. The row number in errors is 1-based
// over data rows, excluding the header.
func parseRow(record []string, row int) (*model.Item, error) {
	if len(record) < len(importHeader) {
		return nil, fmt.Errorf("row %d has %d columns, expected at least %d", row, len(record), len(importHeader))
	}

	providerRaw := strings.TrimSpace(record[0])
	if providerRaw == "" {
		return nil, fmt.Errorf("missing provider in row %d", row)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil || amount <= 0 {
		return nil, fmt.Errorf("invalid amount in row %d: %q (expected a positive number)", row, record[1])
	}

	currency := strings.ToUpper(strings.TrimSpace(record[2]))
	if !model.ValidCurrency(currency) {
		// The raw, untrimmed value is reported so the user can find it.
		return nil, fmt.Errorf("Invalid currency code in row %d: %s (expected 3-letter ISO 4217 code)", row, record[2])
	}

	due, err := time.Parse("2006-01-02", strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid due date in row %d: %q (expected YYYY-MM-DD)", row, record[3])
	}

	autopay, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(record[4])))
	if err != nil {
		return nil, fmt.Errorf("invalid autopay flag in row %d: %q (expected true or false)", row, record[4])
	}

	item := &model.Item{
		ID:                uuid.NewString(),
		Provider:          model.Provider(providerRaw),
		Amount:            model.NormalizeAmount(amount),
		Currency:          currency,
		DueDate:           due,
		InstallmentNumber: 1,
		InstallmentTotal:  1,
		Autopay:           autopay,
		SegmentIndex:      row - 1,
		// CSV rows state their fields outright; only the installment
		// shape is a default.
		Provenance: model.Provenance{
			ProviderStrength:    model.MatchDomain,
			DateCertainty:       model.DateExact,
			AmountExplicitCents: true,
			AutopayExplicit:     true,
		},
	}
	item.Confidence = score.Compute(item)
	return item, nil
}
