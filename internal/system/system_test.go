package system

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector3D(t *testing.T) {
	a := Vector3D{1, 2, 3}
	b := Vector3D{4, 5, 6}

	assert.Equal(t, Vector3D{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vector3D{3, 3, 3}, b.Sub(a))
	assert.Equal(t, 5.0, Vector3D{3, 4, 0}.Norm())
}

func TestUnitCell(t *testing.T) {
	cubic := Cubic(10)
	assert.Equal(t, Vector3D{10, 10, 10}, cubic.Lengths())
	assert.False(t, cubic.IsInfinite())

	infinite := Infinite()
	assert.True(t, infinite.IsInfinite())
	assert.Equal(t, Vector3D{}, infinite.Lengths())
}

func testSystem(t *testing.T) *SimpleSystem {
	t.Helper()
	s := NewSimpleSystem(Cubic(10))
	s.AddAtom(6, Vector3D{0, 0, 0})
	s.AddAtom(1, Vector3D{1, 1, 1})
	s.AddAtom(1, Vector3D{2, 2, 2})
	s.AddAtom(1, Vector3D{3, 3, 3})
	return s
}

func TestSimpleSystem(t *testing.T) {
	s := testSystem(t)

	assert.Equal(t, 4, s.Size())
	assert.Equal(t, []int32{6, 1, 1, 1}, s.Species())
	assert.Equal(t, Vector3D{2, 2, 2}, s.Positions()[2])
	assert.Equal(t, Vector3D{10, 10, 10}, s.Cell().Lengths())
}

func TestComputeNeighbors(t *testing.T) {
	s := testSystem(t)
	require.NoError(t, s.ComputeNeighbors(3.0))

	// Consecutive atoms on the diagonal are sqrt(3) apart, atoms two
	// steps apart exceed the cutoff.
	pairs := s.Pairs()
	require.Len(t, pairs, 3)
	for i, pair := range pairs {
		assert.Equal(t, i, pair.First)
		assert.Equal(t, i+1, pair.Second)
		assert.InDelta(t, math.Sqrt(3), pair.Distance, 1e-12)
	}

	require.NoError(t, s.ComputeNeighbors(4.0))
	assert.Len(t, s.Pairs(), 5)

	assert.Error(t, s.ComputeNeighbors(0.0))
	assert.Error(t, s.ComputeNeighbors(-1.0))
}

func TestPairsContaining(t *testing.T) {
	s := testSystem(t)
	require.NoError(t, s.ComputeNeighbors(3.0))

	ends := s.PairsContaining(0)
	require.Len(t, ends, 1)
	assert.Equal(t, Pair{First: 0, Second: 1, Distance: math.Sqrt(3)}, ends[0])

	middle := s.PairsContaining(1)
	require.Len(t, middle, 2)
	assert.Equal(t, 0, middle[0].First)
	assert.Equal(t, 2, middle[1].Second)
}

func TestComputeNeighborsConcurrent(t *testing.T) {
	s := testSystem(t)

	// One system is shared by every block computation during a parallel
	// compute, each calling ComputeNeighbors before reading pairs.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.ComputeNeighbors(3.0))
			assert.Len(t, s.PairsContaining(1), 2)
			assert.Len(t, s.Pairs(), 3)
		}()
	}
	wg.Wait()
}

func TestAddAtomInvalidatesNeighbors(t *testing.T) {
	s := testSystem(t)
	require.NoError(t, s.ComputeNeighbors(3.0))
	require.Len(t, s.Pairs(), 3)

	s.AddAtom(1, Vector3D{4, 4, 4})
	assert.Panics(t, func() { s.Pairs() })

	require.NoError(t, s.ComputeNeighbors(3.0))
	assert.Len(t, s.Pairs(), 4)
	assert.Equal(t, 5, s.Size())
}
