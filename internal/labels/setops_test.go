package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersection(t *testing.T) {
	a := MustNew([]string{"x"}, []Entry{{0}, {1}, {2}, {3}})
	b := MustNew([]string{"x"}, []Entry{{3}, {1}, {5}})

	got, err := a.Intersection(b)
	require.NoError(t, err)
	// The receiver's order wins.
	assert.Equal(t, MustNew([]string{"x"}, []Entry{{1}, {3}}), got)

	got, err = b.Intersection(a)
	require.NoError(t, err)
	assert.Equal(t, MustNew([]string{"x"}, []Entry{{3}, {1}}), got)
}

func TestDifference(t *testing.T) {
	a := MustNew([]string{"x"}, []Entry{{0}, {1}, {2}, {3}})
	b := MustNew([]string{"x"}, []Entry{{3}, {1}, {5}})

	got, err := a.Difference(b)
	require.NoError(t, err)
	assert.Equal(t, MustNew([]string{"x"}, []Entry{{0}, {2}}), got)
}

func TestUnion(t *testing.T) {
	a := MustNew([]string{"x"}, []Entry{{0}, {1}})
	b := MustNew([]string{"x"}, []Entry{{1}, {2}})

	got, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, MustNew([]string{"x"}, []Entry{{0}, {1}, {2}}), got)
}

func TestIsSubsetOf(t *testing.T) {
	a := MustNew([]string{"x"}, []Entry{{1}, {3}})
	b := MustNew([]string{"x"}, []Entry{{3}, {2}, {1}})

	subset, err := a.IsSubsetOf(b)
	require.NoError(t, err)
	assert.True(t, subset)

	subset, err = b.IsSubsetOf(a)
	require.NoError(t, err)
	assert.False(t, subset)
}

func TestSetOps_IncompatibleColumns(t *testing.T) {
	a := MustNew([]string{"x"}, []Entry{{0}})
	b := MustNew([]string{"y"}, []Entry{{0}})

	_, err := a.Intersection(b)
	assert.ErrorIs(t, err, ErrIncompatibleLabels)
	_, err = a.Difference(b)
	assert.ErrorIs(t, err, ErrIncompatibleLabels)
	_, err = a.Union(b)
	assert.ErrorIs(t, err, ErrIncompatibleLabels)
	_, err = a.IsSubsetOf(b)
	assert.ErrorIs(t, err, ErrIncompatibleLabels)
}
