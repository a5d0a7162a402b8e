package csvio

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hollis-dev/paydown/internal/model"
)

const sheetName = "Schedule"

// XLSXFilename returns the timestamped workbook filename.
func XLSXFilename(now time.Time) string {
	return fmt.Sprintf("export-%s.xlsx", now.Format("2006-01-02-150405"))
}

// ExportXLSX renders the same columns as the CSV export into an XLSX
// workbook and returns it as bytes.
func ExportXLSX(items []model.Item, findings []model.RiskFinding) ([]byte, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	byItem := firstFindingPerItem(findings)
	for row, item := range items {
		values := []any{
			string(item.Provider),
			item.Amount,
			item.Currency,
			item.DueISO(),
			item.Autopay,
			"", "", "",
		}
		if finding, ok := byItem[item.ID]; ok {
			values[5] = string(finding.Type)
			values[6] = string(finding.Severity)
			values[7] = finding.Message
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
