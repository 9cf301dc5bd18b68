package pipeline

import (
	"datalens/domain/core"
	"datalens/domain/filter"
	"datalens/domain/table"
)

// ApplyFilters derives a new table keeping only rows that satisfy every
// predicate in the spec. Columns absent from the spec are unrestricted, row
// order is preserved, the input is never mutated, and applying the same spec
// twice yields the same result as once.
//
// The spec is validated up front: every spec column must exist and its
// predicate kind must match the column kind fixed at load time.
func ApplyFilters(t *table.Table, spec filter.Spec) (*table.Table, error) {
	type bound struct {
		col  *table.Column
		pred filter.Predicate
	}

	bounds := make([]bound, 0, len(spec))
	for _, name := range spec.Columns() {
		col, ok := t.Column(name)
		if !ok {
			return nil, core.NewColumnNotFoundError(name)
		}
		pred := spec[name]
		if pred.Kind() != col.Kind {
			return nil, core.NewKindMismatchError(name, string(pred.Kind()), string(col.Kind))
		}
		bounds = append(bounds, bound{col: col, pred: pred})
	}

	kept := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		keep := true
		for _, b := range bounds {
			if !b.pred.Keep(b.col, i) {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, i)
		}
	}

	return t.Select(kept), nil
}
