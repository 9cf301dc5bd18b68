package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"datalens/domain/table"
)

func TestNewMembershipNormalizesSelectAll(t *testing.T) {
	assert.True(t, NewMembership(nil).Unrestricted())
	assert.True(t, NewMembership([]string{}).Unrestricted())
	assert.True(t, NewMembership([]string{SelectAll}).Unrestricted())
	assert.True(t, NewMembership([]string{"admin", SelectAll}).Unrestricted())
	assert.False(t, NewMembership([]string{"admin"}).Unrestricted())
}

func TestMembershipValuesSorted(t *testing.T) {
	m := NewMembership([]string{"zebra", "admin", "mid"})
	assert.Equal(t, []string{"admin", "mid", "zebra"}, m.Values())
}

func TestMembershipKeep(t *testing.T) {
	col := &table.Column{Name: "job", Kind: table.KindCategorical, Cells: []string{"admin", "services"}}

	m := NewMembership([]string{"admin"})
	assert.True(t, m.Keep(col, 0))
	assert.False(t, m.Keep(col, 1))
}

func TestRangeKeepInclusive(t *testing.T) {
	col := &table.Column{
		Name:  "age",
		Kind:  table.KindNumeric,
		Cells: []string{"25", "30", "40"},
		Nums:  []float64{25, 30, 40},
	}

	r := Range{Min: 25, Max: 30}
	assert.True(t, r.Keep(col, 0))
	assert.True(t, r.Keep(col, 1))
	assert.False(t, r.Keep(col, 2))
}

func TestSpecColumnsSorted(t *testing.T) {
	spec := Spec{
		"y":   NewMembership([]string{"yes"}),
		"age": Range{Min: 0, Max: 1},
		"job": NewMembership([]string{"admin"}),
	}
	assert.Equal(t, []string{"age", "job", "y"}, spec.Columns())
}

func TestSpecCloneIsIndependent(t *testing.T) {
	spec := Spec{"age": Range{Min: 0, Max: 1}}
	clone := spec.Clone()

	delete(spec, "age")
	assert.Len(t, clone, 1)
	assert.Nil(t, Spec(nil).Clone())
}
