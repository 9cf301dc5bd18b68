package pipeline

import (
	"math"
	"sort"

	"datalens/domain/table"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

const histogramBins = 10

// HistogramBin is one bucket of a numeric column's value distribution, used
// by the range control's sparkline.
type HistogramBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// ColumnProfile describes one column well enough to build its filter
// control: range bounds and a histogram for numeric columns, the distinct
// value list for categorical ones.
type ColumnProfile struct {
	Name        string         `json:"name"`
	Kind        table.Kind     `json:"kind"`
	Min         float64        `json:"min,omitempty"`
	Max         float64        `json:"max,omitempty"`
	Mean        float64        `json:"mean,omitempty"`
	Median      float64        `json:"median,omitempty"`
	Histogram   []HistogramBin `json:"histogram,omitempty"`
	Distinct    []string       `json:"distinct,omitempty"`
	Cardinality int            `json:"cardinality"`
}

// Profile computes per-column profiles for the whole table. Computed once per
// loaded table; the session caches the result.
func Profile(t *table.Table) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, t.NumCols())
	for _, col := range t.Columns() {
		if col.Kind == table.KindNumeric {
			profiles = append(profiles, numericProfile(&col))
		} else {
			profiles = append(profiles, categoricalProfile(&col))
		}
	}
	return profiles
}

func numericProfile(col *table.Column) ColumnProfile {
	profile := ColumnProfile{Name: col.Name, Kind: col.Kind}

	values := make([]float64, 0, len(col.Nums))
	for _, v := range col.Nums {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return profile
	}

	profile.Min, _ = stats.Min(values)
	profile.Max, _ = stats.Max(values)
	profile.Mean, _ = stats.Mean(values)
	profile.Median, _ = stats.Median(values)
	profile.Cardinality = countDistinct(col.Cells)
	profile.Histogram = histogram(values, profile.Min, profile.Max)
	return profile
}

func categoricalProfile(col *table.Column) ColumnProfile {
	profile := ColumnProfile{Name: col.Name, Kind: col.Kind}

	seen := make(map[string]struct{})
	for _, cell := range col.Cells {
		if cell == "" {
			continue
		}
		seen[cell] = struct{}{}
	}
	distinct := make([]string, 0, len(seen))
	for v := range seen {
		distinct = append(distinct, v)
	}
	sort.Strings(distinct)

	profile.Distinct = distinct
	profile.Cardinality = len(distinct)
	return profile
}

// histogram buckets sorted values into fixed-width bins. Degenerate columns
// (all values equal) get a single bin.
func histogram(values []float64, min, max float64) []HistogramBin {
	xs := append([]float64(nil), values...)
	sort.Float64s(xs)

	if min == max {
		return []HistogramBin{{Lo: min, Hi: max, Count: len(xs)}}
	}

	dividers := make([]float64, histogramBins+1)
	width := (max - min) / histogramBins
	for i := range dividers {
		dividers[i] = min + float64(i)*width
	}
	// gonum counts values in [dividers[i], dividers[i+1]), so the last edge
	// must sit just above the maximum.
	dividers[histogramBins] = math.Nextafter(max, math.Inf(1))

	counts := stat.Histogram(nil, dividers, xs, nil)

	bins := make([]HistogramBin, histogramBins)
	for i := range bins {
		bins[i] = HistogramBin{
			Lo:    dividers[i],
			Hi:    dividers[i+1],
			Count: int(counts[i]),
		}
	}
	return bins
}

func countDistinct(cells []string) int {
	seen := make(map[string]struct{}, len(cells))
	for _, cell := range cells {
		seen[cell] = struct{}{}
	}
	return len(seen)
}
