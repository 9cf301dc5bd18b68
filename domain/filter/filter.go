package filter

import (
	"sort"

	"datalens/domain/table"
)

// SelectAll is the sentinel a multi-select control may include to mean "no
// restriction". It is normalized away at construction time; predicates never
// see it.
const SelectAll = "all"

// Predicate decides whether row i of a column survives filtering. The two
// variants are selected once from the column kind when the spec is built,
// never re-inspected per row.
type Predicate interface {
	// Kind is the column kind this predicate applies to.
	Kind() table.Kind
	// Keep reports whether row i of col satisfies the predicate.
	Keep(col *table.Column, i int) bool
}

// Range keeps numeric values within [Min, Max] inclusive.
type Range struct {
	Min float64
	Max float64
}

func (Range) Kind() table.Kind { return table.KindNumeric }

func (r Range) Keep(col *table.Column, i int) bool {
	v := col.Nums[i]
	return v >= r.Min && v <= r.Max
}

// Membership keeps categorical values that are members of the allowed set.
// An empty set means no restriction.
type Membership struct {
	allowed map[string]struct{}
}

// NewMembership builds a membership predicate from selected values. The
// SelectAll sentinel collapses the selection to "unrestricted", matching the
// multi-select control's "all" option.
func NewMembership(values []string) Membership {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == SelectAll {
			return Membership{}
		}
		allowed[v] = struct{}{}
	}
	return Membership{allowed: allowed}
}

func (Membership) Kind() table.Kind { return table.KindCategorical }

// Unrestricted reports whether the predicate keeps every row.
func (m Membership) Unrestricted() bool {
	return len(m.allowed) == 0
}

func (m Membership) Keep(col *table.Column, i int) bool {
	if m.Unrestricted() {
		return true
	}
	_, ok := m.allowed[col.Cells[i]]
	return ok
}

// Values returns the allowed values in sorted order, for display.
func (m Membership) Values() []string {
	values := make([]string, 0, len(m.allowed))
	for v := range m.allowed {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Spec maps column names to predicates. Columns absent from the spec are
// unrestricted; the empty spec is the identity filter.
type Spec map[string]Predicate

// Columns returns the spec's column names in sorted order for deterministic
// validation and logging.
func (s Spec) Columns() []string {
	cols := make([]string, 0, len(s))
	for name := range s {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// Clone returns a shallow copy; predicates are immutable values.
func (s Spec) Clone() Spec {
	if s == nil {
		return nil
	}
	out := make(Spec, len(s))
	for name, p := range s {
		out[name] = p
	}
	return out
}
