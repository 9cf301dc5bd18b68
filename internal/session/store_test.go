package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/domain/core"
	"datalens/domain/filter"
	"datalens/domain/table"
	"datalens/internal/pipeline"
)

func newSession(t *testing.T, store *Store) *Session {
	t.Helper()
	tbl, err := table.New([]table.Column{
		{Name: "age", Kind: table.KindNumeric, Cells: []string{"25", "40"}, Nums: []float64{25, 40}},
		{Name: "y", Kind: table.KindCategorical, Cells: []string{"yes", "no"}},
	})
	require.NoError(t, err)
	return store.Create("bank.csv", tbl, pipeline.Profile(tbl))
}

func TestCreateDefaults(t *testing.T) {
	store := NewStore()
	sess := newSession(t, store)

	assert.False(t, core.ID(sess.ID).IsEmpty())
	assert.Same(t, sess.Raw, sess.Filtered)
	assert.Equal(t, ChartBar, sess.ChartKind)
	assert.Equal(t, "y", sess.Target, "target defaults to the last column")
	assert.Empty(t, sess.Active)
	assert.Equal(t, 1, store.Len())
}

func TestGetUnknownSession(t *testing.T) {
	store := NewStore()

	_, err := store.Get(core.SessionID("missing"))
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestTwoPhaseFilterContract(t *testing.T) {
	store := NewStore()
	sess := newSession(t, store)

	pending := filter.Spec{"age": filter.Range{Min: 25, Max: 30}}
	require.NoError(t, store.SetPending(sess.ID, pending))

	// Pending does not filter anything by itself.
	assert.Empty(t, sess.Active)
	assert.Same(t, sess.Raw, sess.Filtered)

	active, err := store.Promote(sess.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Len(t, sess.Active, 1)

	filtered, err := pipeline.ApplyFilters(sess.Raw, active)
	require.NoError(t, err)
	require.NoError(t, store.SetFiltered(sess.ID, filtered))
	assert.Equal(t, 1, sess.Filtered.NumRows())

	// Mutating the caller's spec after handoff must not leak in.
	delete(pending, "age")
	assert.Len(t, sess.Active, 1)
}

func TestSetViewValidatesInput(t *testing.T) {
	store := NewStore()
	sess := newSession(t, store)

	require.NoError(t, store.SetView(sess.ID, ChartPie, "age"))
	assert.Equal(t, ChartPie, sess.ChartKind)
	assert.Equal(t, "age", sess.Target)

	// Unknown chart kinds and columns are ignored.
	require.NoError(t, store.SetView(sess.ID, "scatter", "salary"))
	assert.Equal(t, ChartPie, sess.ChartKind)
	assert.Equal(t, "age", sess.Target)

	assert.ErrorIs(t, store.SetView("missing", ChartBar, "age"), core.ErrSessionNotFound)
}
