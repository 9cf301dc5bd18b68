package table

import (
	"fmt"
	"strings"

	"datalens/domain/core"
)

// Kind classifies a column's values. It is fixed when the table is built and
// never re-inferred afterwards.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Column holds one named column in row order. Nums is parallel to Cells and
// populated only for numeric columns.
type Column struct {
	Name  string
	Kind  Kind
	Cells []string
	Nums  []float64
}

// Table is an immutable in-memory tabular dataset with named, typed columns.
// Derive new tables with Select or Head; never mutate one in place.
type Table struct {
	cols   []Column
	byName map[string]int
}

// New builds a table from columns, validating shape and name uniqueness.
func New(cols []Column) (*Table, error) {
	byName := make(map[string]int, len(cols))
	rows := -1
	for i, col := range cols {
		name := strings.TrimSpace(col.Name)
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		if rows == -1 {
			rows = len(col.Cells)
		} else if len(col.Cells) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", name, len(col.Cells), rows)
		}
		if col.Kind == KindNumeric && len(col.Nums) != len(col.Cells) {
			return nil, fmt.Errorf("numeric column %q has %d parsed values for %d cells", name, len(col.Nums), len(col.Cells))
		}
		cols[i].Name = name
		byName[name] = i
	}
	return &Table{cols: cols, byName: byName}, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Headers returns column names in declaration order.
func (t *Table) Headers() []string {
	headers := make([]string, len(t.cols))
	for i, col := range t.cols {
		headers[i] = col.Name
	}
	return headers
}

// Columns returns the columns in declaration order. Callers must not mutate
// the returned slices.
func (t *Table) Columns() []Column {
	return t.cols
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return &t.cols[idx], true
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Row returns the display values of row i in column order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.cols))
	for c, col := range t.cols {
		row[c] = col.Cells[i]
	}
	return row
}

// Select derives a new table containing the given rows in the given order.
// The receiver is left untouched.
func (t *Table) Select(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, col := range t.cols {
		out := Column{Name: col.Name, Kind: col.Kind, Cells: make([]string, len(rows))}
		if col.Kind == KindNumeric {
			out.Nums = make([]float64, len(rows))
		}
		for j, r := range rows {
			out.Cells[j] = col.Cells[r]
			if col.Kind == KindNumeric {
				out.Nums[j] = col.Nums[r]
			}
		}
		cols[i] = out
	}
	byName := make(map[string]int, len(cols))
	for i, col := range cols {
		byName[col.Name] = i
	}
	return &Table{cols: cols, byName: byName}
}

// Head derives a new table with at most n leading rows, for previews.
func (t *Table) Head(n int) *Table {
	if n > t.NumRows() {
		n = t.NumRows()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.Select(rows)
}

// Fingerprint hashes headers, kinds and cell values so that identical tables
// share export-cache entries.
func (t *Table) Fingerprint() core.TableFingerprint {
	var data strings.Builder
	for _, col := range t.cols {
		data.WriteString(col.Name)
		data.WriteByte(0x1f)
		data.WriteString(string(col.Kind))
		data.WriteByte(0x1f)
		for _, cell := range col.Cells {
			data.WriteString(cell)
			data.WriteByte(0x1f)
		}
		data.WriteByte(0x1e)
	}
	return core.NewTableFingerprint([]byte(data.String()))
}
