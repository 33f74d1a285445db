package tensormap

import (
	"fmt"
	"slices"
)

// Shape represents the dimensions of an array.
type Shape []int

// NumElements returns the total number of elements in the array.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid. Dimensions of zero are allowed:
// a block whose resolved samples or properties are empty has a valid
// zero-extent axis.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s, other)
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	return slices.Clone(s)
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Array is a dense, row-major float64 buffer addressed by
// (sample, components..., property) indices.
type Array struct {
	shape  Shape
	stride []int
	data   []float64
}

// NewArray creates a zero-filled array with the given shape.
func NewArray(shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Array{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   make([]float64, shape.NumElements()),
	}, nil
}

// NewArrayFrom creates an array with the given shape wrapping the given
// data, which must hold exactly shape.NumElements() values. The array
// takes ownership of the slice.
func NewArrayFrom(shape Shape, data []float64) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf(
			"%w: %d values for shape %v (expected %d)",
			ErrShapeMismatch, len(data), shape, shape.NumElements(),
		)
	}
	return &Array{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   data,
	}, nil
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// Data returns the underlying row-major buffer. Kernels write through
// this slice during the assembly phase; afterwards it must be treated
// as read-only.
func (a *Array) Data() []float64 {
	return a.data
}

// At returns the value at the given indices, one per dimension.
func (a *Array) At(indices ...int) float64 {
	return a.data[a.offset(indices)]
}

// Set stores a value at the given indices, one per dimension.
func (a *Array) Set(value float64, indices ...int) {
	a.data[a.offset(indices)] = value
}

// Equal reports whether two arrays have the same shape and values.
func (a *Array) Equal(other *Array) bool {
	return a.shape.Equal(other.shape) && slices.Equal(a.data, other.data)
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	return &Array{
		shape:  a.shape.Clone(),
		stride: slices.Clone(a.stride),
		data:   slices.Clone(a.data),
	}
}

func (a *Array) offset(indices []int) int {
	if len(indices) != len(a.shape) {
		panic(fmt.Sprintf("array: %d indices for %d dimensions", len(indices), len(a.shape)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("array: index %d out of range for dimension %d (size %d)", idx, i, a.shape[i]))
		}
		offset += idx * a.stride[i]
	}
	return offset
}
