package excel

import (
	"fmt"
	"math"

	"datalens/domain/summary"
	"datalens/domain/table"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// Writer converts tables and distributions into XLSX bytes for download.
type Writer struct{}

// NewWriter creates a new spreadsheet writer.
func NewWriter() *Writer {
	return &Writer{}
}

// TableBytes writes the table to Sheet1: header row then data rows. Numeric
// cells are written as numbers so spreadsheet consumers can aggregate them.
// A zero-row table produces a valid header-only file.
func (w *Writer) TableBytes(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, h := range t.Headers() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", h, err)
		}
	}

	cols := t.Columns()
	for c := range cols {
		for r := 0; r < t.NumRows(); r++ {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var err error
			if cols[c].Kind == table.KindNumeric && cols[c].Cells[r] != "" && !math.IsNaN(cols[c].Nums[r]) {
				err = f.SetCellValue(sheetName, cell, cols[c].Nums[r])
			} else {
				err = f.SetCellValue(sheetName, cell, cols[c].Cells[r])
			}
			if err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DistributionBytes writes a percentage distribution as a two-column sheet:
// the target column's values and their percentages. An empty distribution
// still yields a valid file with only the header row.
func (w *Writer) DistributionBytes(d summary.Distribution) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	valueHeader := d.Column
	if valueHeader == "" {
		valueHeader = "value"
	}
	headers := []string{valueHeader, "percent"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", h, err)
		}
	}

	for r, entry := range d.Entries {
		valueCell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetCellValue(sheetName, valueCell, entry.Value); err != nil {
			return nil, fmt.Errorf("failed to write value row %d: %w", r, err)
		}
		pctCell, _ := excelize.CoordinatesToCellName(2, r+2)
		if err := f.SetCellValue(sheetName, pctCell, entry.Percent); err != nil {
			return nil, fmt.Errorf("failed to write percent row %d: %w", r, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
