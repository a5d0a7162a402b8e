package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hollis-dev/paydown/internal/model"
)

// ExportWarnRows is the row count above which export warns but proceeds.
const ExportWarnRows = 500

var exportHeader = []string{
	"provider", "amount", "currency", "dueISO", "autopay",
	"risk_type", "risk_severity", "risk_message",
}

// Filename returns the timestamped export filename, so repeated exports
// never overwrite each other.
func Filename(now time.Time) string {
	return fmt.Sprintf("export-%s.csv", now.Format("2006-01-02-150405"))
}

// Export writes the item set with its risk annotations as RFC 4180 CSV.
// Risk columns carry the first finding that references each item, or
// empty strings; they are derived data and are not re-ingested on import.
func Export(w io.Writer, items []model.Item, findings []model.RiskFinding) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	byItem := firstFindingPerItem(findings)
	for i := range items {
		item := &items[i]
		record := []string{
			string(item.Provider),
			strconv.FormatFloat(item.Amount, 'f', 2, 64),
			item.Currency,
			item.DueISO(),
			strconv.FormatBool(item.Autopay),
			"", "", "",
		}
		if f, ok := byItem[item.ID]; ok {
			record[5] = string(f.Type)
			record[6] = string(f.Severity)
			record[7] = f.Message
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}
	return nil
}

// firstFindingPerItem maps each item to the first finding referencing it,
// in finding order.
func firstFindingPerItem(findings []model.RiskFinding) map[string]model.RiskFinding {
	byItem := make(map[string]model.RiskFinding)
	for _, f := range findings {
		for _, id := range f.ItemIDs {
			if _, ok := byItem[id]; !ok {
				byItem[id] = f
			}
		}
	}
	return byItem
}
