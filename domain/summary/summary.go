package summary

import (
	"fmt"
	"math"
)

// Entry is one distinct value of the target column with its share of rows.
type Entry struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution is the normalized frequency table of one column. Entries are
// sorted ascending by value; percentages are floats and sum to roughly 100.
// A zero-row table or an absent column yields an empty distribution rather
// than an error, so the UI can render a placeholder.
type Distribution struct {
	Column  string  `json:"column"`
	Total   int     `json:"total_rows"`
	Entries []Entry `json:"entries"`
}

// IsEmpty reports whether the distribution has no entries.
func (d Distribution) IsEmpty() bool {
	return len(d.Entries) == 0
}

// Sum returns the total of all percentages. Rounding means it is only
// approximately 100 for non-empty distributions.
func (d Distribution) Sum() float64 {
	var total float64
	for _, e := range d.Entries {
		total += e.Percent
	}
	return total
}

// Labels returns entry values in display order.
func (d Distribution) Labels() []string {
	labels := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		labels[i] = e.Value
	}
	return labels
}

// Percentages returns entry percentages in display order.
func (d Distribution) Percentages() []float64 {
	values := make([]float64, len(d.Entries))
	for i, e := range d.Entries {
		values[i] = e.Percent
	}
	return values
}

// FormatPercent truncates a percentage to two decimals for display.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f", math.Trunc(p*100)/100)
}
