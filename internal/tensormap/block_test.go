package tensormap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labtensor-ml/labtensor/internal/labels"
)

func testSamples(t *testing.T, count int) labels.Labels {
	t.Helper()
	builder := labels.NewBuilder("structure", "center")
	for i := 0; i < count; i++ {
		require.NoError(t, builder.Add(0, int32(i)))
	}
	samples, err := builder.Finish()
	require.NoError(t, err)
	return samples
}

func testProperties(t *testing.T, count int) labels.Labels {
	t.Helper()
	builder := labels.NewBuilder("n")
	for i := 0; i < count; i++ {
		require.NoError(t, builder.Add(int32(i)))
	}
	properties, err := builder.Finish()
	require.NoError(t, err)
	return properties
}

func mustArray(t *testing.T, shape Shape, data []float64) *Array {
	t.Helper()
	a, err := NewArrayFrom(shape, data)
	require.NoError(t, err)
	return a
}

func TestNewBlock(t *testing.T) {
	values := mustArray(t, Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	block, err := NewBlock(values, testSamples(t, 2), nil, testProperties(t, 3))
	require.NoError(t, err)

	assert.Equal(t, values, block.Values())
	assert.Equal(t, 2, block.Samples().Count())
	assert.Empty(t, block.Components())
	assert.Equal(t, 3, block.Properties().Count())
}

func TestNewBlock_ShapeMismatch(t *testing.T) {
	samples := testSamples(t, 2)
	properties := testProperties(t, 3)

	wrongSamples, err := NewArray(Shape{1, 3})
	require.NoError(t, err)
	_, err = NewBlock(wrongSamples, samples, nil, properties)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	wrongProperties, err := NewArray(Shape{2, 4})
	require.NoError(t, err)
	_, err = NewBlock(wrongProperties, samples, nil, properties)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// Components add one dimension each.
	missingComponent, err := NewArray(Shape{2, 3})
	require.NoError(t, err)
	component := labels.MustNew([]string{"direction"}, []labels.Entry{{0}, {1}, {2}})
	_, err = NewBlock(missingComponent, samples, []labels.Labels{component}, properties)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	withComponent, err := NewArray(Shape{2, 3, 3})
	require.NoError(t, err)
	_, err = NewBlock(withComponent, samples, []labels.Labels{component}, properties)
	assert.NoError(t, err)
}

func TestNewBlock_EmptySamples(t *testing.T) {
	values, err := NewArray(Shape{0, 3})
	require.NoError(t, err)

	block, err := NewBlock(values, testSamples(t, 0), nil, testProperties(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 0, block.Samples().Count())
	assert.Equal(t, Shape{0, 3}, block.Values().Shape())
}

func testGradient(t *testing.T, rows int, properties labels.Labels) *Gradient {
	t.Helper()
	builder := labels.NewBuilder("sample", "atom")
	for i := 0; i < rows; i++ {
		require.NoError(t, builder.Add(int32(i), int32(10+i)))
	}
	samples, err := builder.Finish()
	require.NoError(t, err)

	values, err := NewArray(Shape{rows, properties.Count()})
	require.NoError(t, err)
	gradient, err := NewGradient(values, samples, nil, properties)
	require.NoError(t, err)
	return gradient
}

func TestAddGradient(t *testing.T) {
	properties := testProperties(t, 3)
	values, err := NewArray(Shape{2, 3})
	require.NoError(t, err)
	block, err := NewBlock(values, testSamples(t, 2), nil, properties)
	require.NoError(t, err)

	gradient := testGradient(t, 2, properties)
	require.NoError(t, block.AddGradient("positions", gradient))

	got, ok := block.Gradient("positions")
	require.True(t, ok)
	assert.Equal(t, gradient, got)
	assert.Equal(t, []string{"positions"}, block.GradientOrigins())

	_, ok = block.Gradient("cell")
	assert.False(t, ok)
}

func TestAddGradient_Duplicate(t *testing.T) {
	properties := testProperties(t, 2)
	values, err := NewArray(Shape{2, 2})
	require.NoError(t, err)
	block, err := NewBlock(values, testSamples(t, 2), nil, properties)
	require.NoError(t, err)

	require.NoError(t, block.AddGradient("positions", testGradient(t, 1, properties)))
	err = block.AddGradient("positions", testGradient(t, 1, properties))
	assert.ErrorIs(t, err, ErrDuplicateGradient)
}

func TestAddGradient_PropertyMismatch(t *testing.T) {
	properties := testProperties(t, 2)
	values, err := NewArray(Shape{2, 2})
	require.NoError(t, err)
	block, err := NewBlock(values, testSamples(t, 2), nil, properties)
	require.NoError(t, err)

	// Gradients never change the property axis.
	err = block.AddGradient("positions", testGradient(t, 1, testProperties(t, 3)))
	assert.ErrorIs(t, err, ErrGradientPropertyMismatch)
}

func TestAddGradient_SampleOutOfRange(t *testing.T) {
	properties := testProperties(t, 2)
	values, err := NewArray(Shape{1, 2})
	require.NoError(t, err)
	block, err := NewBlock(values, testSamples(t, 1), nil, properties)
	require.NoError(t, err)

	// Gradient sample 1 references parent sample 1, but the block only
	// has one sample.
	err = block.AddGradient("positions", testGradient(t, 2, properties))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewGradient_SampleColumn(t *testing.T) {
	properties := testProperties(t, 2)
	values, err := NewArray(Shape{1, 2})
	require.NoError(t, err)

	samples := labels.MustNew([]string{"atom", "sample"}, []labels.Entry{{0, 0}})
	_, err = NewGradient(values, samples, nil, properties)
	assert.ErrorIs(t, err, labels.ErrInvalidLabels)
}
