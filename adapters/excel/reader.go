package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"datalens/domain/core"
	"datalens/domain/table"

	"github.com/xuri/excelize/v2"
)

// Uploads are semicolon-delimited when they are CSV at all.
const csvDelimiter = ';'

// Loader parses uploaded bytes with no declared format: semicolon CSV first,
// XLSX as the fallback.
type Loader struct{}

// NewLoader creates a new upload loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load attempts CSV then XLSX. When both attempts fail the returned error
// wraps core.ErrLoadFailed and carries both parse failures.
func (l *Loader) Load(data []byte) (*table.Table, error) {
	t, csvErr := l.parseCSV(data)
	if csvErr == nil {
		log.Printf("[Loader] parsed upload as CSV (%d columns, %d rows)", t.NumCols(), t.NumRows())
		return t, nil
	}

	t, xlsxErr := l.parseXLSX(data)
	if xlsxErr == nil {
		log.Printf("[Loader] parsed upload as XLSX (%d columns, %d rows)", t.NumCols(), t.NumRows())
		return t, nil
	}

	log.Printf("[Loader] FAILED - upload not parseable: csv: %v, xlsx: %v", csvErr, xlsxErr)
	return nil, core.NewLoadError(csvErr, xlsxErr)
}

func (l *Loader) parseCSV(data []byte) (*table.Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = csvDelimiter

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited text: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("delimited text has no rows")
	}
	if err := validateHeader(rows[0]); err != nil {
		return nil, err
	}
	return buildTable(rows)
}

func (l *Loader) parseXLSX(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no rows", sheets[0])
	}
	if err := validateHeader(rows[0]); err != nil {
		return nil, err
	}
	return buildTable(rows)
}

// validateHeader rejects headers that cannot belong to a tabular text file,
// which is what makes binary input fail the CSV attempt deterministically.
func validateHeader(header []string) error {
	if len(header) == 0 {
		return fmt.Errorf("header row is empty")
	}
	for i, cell := range header {
		if !utf8.ValidString(cell) {
			return fmt.Errorf("header cell %d is not valid UTF-8", i)
		}
		for _, r := range cell {
			if unicode.IsControl(r) && r != '\t' {
				return fmt.Errorf("header cell %d contains control characters", i)
			}
		}
	}
	return nil
}

// buildTable converts raw string rows into a typed table. Column kind is
// decided here, once: a column is numeric iff it has at least one non-empty
// cell and every non-empty cell parses as a float.
func buildTable(rows [][]string) (*table.Table, error) {
	header := rows[0]

	// Trailing empty header cells come from trailing delimiters; drop them.
	width := len(header)
	for width > 0 && strings.TrimSpace(header[width-1]) == "" {
		width--
	}
	if width == 0 {
		return nil, fmt.Errorf("header row has no column names")
	}

	cols := make([]table.Column, width)
	for j := 0; j < width; j++ {
		name := strings.TrimSpace(header[j])
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty header", j)
		}

		cells := make([]string, 0, len(rows)-1)
		for i := 1; i < len(rows); i++ {
			cell := ""
			if j < len(rows[i]) {
				cell = strings.TrimSpace(rows[i][j])
			}
			cells = append(cells, cell)
		}

		cols[j] = table.Column{
			Name:  name,
			Kind:  inferKind(cells),
			Cells: cells,
		}
		if cols[j].Kind == table.KindNumeric {
			cols[j].Nums = parseNums(cells)
		}
	}

	return table.New(cols)
}

func inferKind(cells []string) table.Kind {
	nonEmpty := 0
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return table.KindCategorical
		}
	}
	if nonEmpty == 0 {
		return table.KindCategorical
	}
	return table.KindNumeric
}

func parseNums(cells []string) []float64 {
	nums := make([]float64, len(cells))
	for i, cell := range cells {
		if cell == "" {
			nums[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			nums[i] = math.NaN()
			continue
		}
		nums[i] = v
	}
	return nums
}
