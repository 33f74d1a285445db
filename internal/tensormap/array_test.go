package tensormap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.NoError(t, s.Validate())

	// Zero extents are valid: empty resolved axes produce them.
	empty := Shape{0, 2}
	assert.NoError(t, empty.Validate())
	assert.Equal(t, 0, empty.NumElements())

	assert.Error(t, Shape{2, -1}.Validate())
}

func TestArray(t *testing.T) {
	a, err := NewArray(Shape{2, 3})
	require.NoError(t, err)

	assert.Equal(t, Shape{2, 3}, a.Shape())
	assert.Len(t, a.Data(), 6)

	a.Set(42.0, 1, 2)
	assert.Equal(t, 42.0, a.At(1, 2))
	assert.Equal(t, 42.0, a.Data()[5])
}

func TestArrayFrom(t *testing.T) {
	a, err := NewArrayFrom(Shape{2, 2}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 3.0, a.At(1, 0))

	_, err = NewArrayFrom(Shape{2, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestArrayEqual(t *testing.T) {
	a, _ := NewArrayFrom(Shape{2}, []float64{1, 2})
	b, _ := NewArrayFrom(Shape{2}, []float64{1, 2})
	c, _ := NewArrayFrom(Shape{2}, []float64{1, 3})
	d, _ := NewArrayFrom(Shape{1, 2}, []float64{1, 2})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))

	clone := a.Clone()
	assert.True(t, a.Equal(clone))
	clone.Set(9.0, 0)
	assert.False(t, a.Equal(clone))
}

func TestArrayZeroRows(t *testing.T) {
	a, err := NewArray(Shape{0, 3})
	require.NoError(t, err)
	assert.Empty(t, a.Data())
	assert.Equal(t, Shape{0, 3}, a.Shape())
}
