package pipeline

import (
	"sort"
	"strconv"

	"datalens/domain/summary"
	"datalens/domain/table"
)

// FrequencyPercentage computes the normalized frequency distribution of one
// column: 100 * count(value) / total_rows per distinct value, sorted
// ascending by value. A zero-row table or an absent column yields an empty
// distribution, never an error, so the caller can render a placeholder.
func FrequencyPercentage(t *table.Table, column string) summary.Distribution {
	dist := summary.Distribution{Column: column}

	col, ok := t.Column(column)
	if !ok || t.NumRows() == 0 {
		return dist
	}

	counts := make(map[string]int)
	for _, cell := range col.Cells {
		counts[cell]++
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sortValues(values, col.Kind)

	total := t.NumRows()
	dist.Total = total
	dist.Entries = make([]summary.Entry, len(values))
	for i, v := range values {
		dist.Entries[i] = summary.Entry{
			Value:   v,
			Count:   counts[v],
			Percent: 100 * float64(counts[v]) / float64(total),
		}
	}
	return dist
}

// sortValues orders distinct values ascending: numerically for numeric
// columns, lexicographically otherwise. Unparseable numeric cells (blanks)
// sort first.
func sortValues(values []string, kind table.Kind) {
	if kind != table.KindNumeric {
		sort.Strings(values)
		return
	}
	sort.Slice(values, func(i, j int) bool {
		a, aerr := strconv.ParseFloat(values[i], 64)
		b, berr := strconv.ParseFloat(values[j], 64)
		if aerr != nil || berr != nil {
			if aerr != nil && berr != nil {
				return values[i] < values[j]
			}
			return aerr != nil
		}
		return a < b
	})
}
