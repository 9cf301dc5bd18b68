package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tbl, err := New([]Column{
		{Name: "age", Kind: KindNumeric, Cells: []string{"25", "40", "30"}, Nums: []float64{25, 40, 30}},
		{Name: "job", Kind: KindCategorical, Cells: []string{"admin", "blue-collar", "admin"}},
	})
	require.NoError(t, err)
	return tbl
}

func TestNewRejectsBadShapes(t *testing.T) {
	_, err := New([]Column{
		{Name: "a", Kind: KindCategorical, Cells: []string{"x"}},
		{Name: "a", Kind: KindCategorical, Cells: []string{"y"}},
	})
	assert.Error(t, err, "duplicate names")

	_, err = New([]Column{
		{Name: "a", Kind: KindCategorical, Cells: []string{"x", "y"}},
		{Name: "b", Kind: KindCategorical, Cells: []string{"x"}},
	})
	assert.Error(t, err, "ragged columns")

	_, err = New([]Column{
		{Name: "a", Kind: KindNumeric, Cells: []string{"1"}},
	})
	assert.Error(t, err, "numeric column without parsed values")
}

func TestSelectPreservesOrderAndLeavesSourceIntact(t *testing.T) {
	tbl := sample(t)

	out := tbl.Select([]int{2, 0})
	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, []string{"30", "admin"}, out.Row(0))
	assert.Equal(t, []string{"25", "admin"}, out.Row(1))

	ageCol, ok := out.Column("age")
	require.True(t, ok)
	assert.Equal(t, []float64{30, 25}, ageCol.Nums)

	// Source untouched.
	assert.Equal(t, []string{"25", "admin"}, tbl.Row(0))
	assert.Equal(t, 3, tbl.NumRows())
}

func TestHeadClampsToRowCount(t *testing.T) {
	tbl := sample(t)

	head := tbl.Head(2)
	assert.Equal(t, 2, head.NumRows())

	all := tbl.Head(10)
	assert.Equal(t, 3, all.NumRows())
}

func TestFingerprintTracksContent(t *testing.T) {
	a := sample(t)
	b := sample(t)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := b.Select([]int{0, 1})
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
