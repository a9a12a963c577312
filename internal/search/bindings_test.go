package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireSharesOutsideConjunction(t *testing.T) {
	sel := &selectBuilder{}
	reg := newBindingRegistry(SQLite{}, sel)

	first := reg.acquire(kindTag, modeBare)
	require.Equal(t, "tg0", first.alias)
	require.Equal(t, 0, first.generation)

	for _, m := range []mode{modeBare, modeDisjunction, modeNegation} {
		ref := reg.acquire(kindTag, m)
		require.Equal(t, first, ref, "mode %s", m)
	}
	require.Equal(t, []string{"LEFT JOIN tag tg0 ON tg0.revision_id = e.current_revision"}, sel.joins)
}

func TestAcquireConjunctionAlwaysFresh(t *testing.T) {
	sel := &selectBuilder{}
	reg := newBindingRegistry(SQLite{}, sel)

	a := reg.acquire(kindField, modeConjunction)
	b := reg.acquire(kindField, modeConjunction)
	require.Equal(t, "fd0", a.alias)
	require.Equal(t, "fd1", b.alias)

	// Private instances are never reused by shared references.
	shared := reg.acquire(kindField, modeDisjunction)
	require.Equal(t, "fd2", shared.alias)
	require.Equal(t, shared, reg.acquire(kindField, modeBare))

	// A bound kind still gets a new instance under conjunction.
	require.Equal(t, "fd3", reg.acquire(kindField, modeConjunction).alias)
	require.Len(t, sel.joins, 4)
}

func TestAcquireRevisionStartsShared(t *testing.T) {
	sel := &selectBuilder{}
	reg := newBindingRegistry(SQLite{}, sel)

	require.Equal(t, "r", reg.acquire(kindRevision, modeBare).alias)
	require.Empty(t, sel.joins)

	private := reg.acquire(kindRevision, modeConjunction)
	require.Equal(t, "rv1", private.alias)
	require.Equal(t, []string{"JOIN revision rv1 ON rv1.id = e.current_revision"}, sel.joins)
}

func TestAcquireTextBoundOnce(t *testing.T) {
	sel := &selectBuilder{}
	reg := newBindingRegistry(MySQL{}, sel)

	for _, m := range []mode{modeConjunction, modeBare, modeConjunction, modeNegation} {
		require.Equal(t, "tx0", reg.acquire(kindText, m).alias)
	}
	require.Equal(t, []string{"LEFT JOIN entity_text tx0 ON tx0.revision_id = e.current_revision"}, sel.joins)
}

func TestFreshNeverShares(t *testing.T) {
	sel := &selectBuilder{}
	reg := newBindingRegistry(SQLite{}, sel)

	require.Equal(t, "fd0", reg.fresh(kindField).alias)
	require.Equal(t, "fd1", reg.fresh(kindField).alias)
	require.Equal(t, "fd2", reg.acquire(kindField, modeBare).alias)
}

func TestRegistriesAreIndependent(t *testing.T) {
	one := newBindingRegistry(SQLite{}, &selectBuilder{})
	two := newBindingRegistry(SQLite{}, &selectBuilder{})
	one.acquire(kindTag, modeConjunction)
	one.acquire(kindTag, modeConjunction)
	require.Equal(t, "tg0", two.acquire(kindTag, modeConjunction).alias)
}
