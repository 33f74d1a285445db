package tensormap

import (
	"fmt"

	"github.com/labtensor-ml/labtensor/internal/labels"
)

// GradientSampleColumn is the required name of the first column of a
// gradient's sample Labels. Its values are positions into the parent
// block's sample Labels.
const GradientSampleColumn = "sample"

// TensorBlock owns one dense value array together with the Labels
// describing each of its axes: samples along the first dimension, zero
// or more components along intermediate dimensions, and properties
// along the last dimension.
//
// Blocks are assembled once (values filled, gradients added) and then
// treated as immutable.
type TensorBlock struct {
	values     *Array
	samples    labels.Labels
	components []labels.Labels
	properties labels.Labels

	gradients map[string]*Gradient
	origins   []string // gradient origins, insertion order
}

// NewBlock creates a block from a value array and its axis Labels.
//
// It returns an error wrapping ErrShapeMismatch unless the array has
// exactly 2+len(components) dimensions whose extents equal the row
// counts of samples, each component Labels, and properties.
func NewBlock(values *Array, samples labels.Labels, components []labels.Labels, properties labels.Labels) (*TensorBlock, error) {
	if err := checkAxes(values, samples, components, properties); err != nil {
		return nil, err
	}
	return &TensorBlock{
		values:     values,
		samples:    samples,
		components: components,
		properties: properties,
		gradients:  make(map[string]*Gradient),
	}, nil
}

// Values returns the block's value array. It must be treated as
// read-only once the block is part of a TensorMap.
func (b *TensorBlock) Values() *Array {
	return b.values
}

// Samples returns the Labels for the block's first axis.
func (b *TensorBlock) Samples() labels.Labels {
	return b.samples
}

// Components returns the Labels for the block's intermediate axes. The
// caller must not modify the returned slice.
func (b *TensorBlock) Components() []labels.Labels {
	return b.components
}

// Properties returns the Labels for the block's last axis.
func (b *TensorBlock) Properties() labels.Labels {
	return b.properties
}

// AddGradient attaches a gradient with respect to the given origin
// (e.g. "positions").
//
// It returns an error wrapping ErrDuplicateGradient if the origin is
// already present, ErrGradientPropertyMismatch if the gradient's
// properties differ from the block's, or ErrShapeMismatch if any
// gradient sample references a position outside the block's samples.
func (b *TensorBlock) AddGradient(origin string, gradient *Gradient) error {
	if _, exists := b.gradients[origin]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateGradient, origin)
	}
	if !gradient.properties.Equal(b.properties) {
		return fmt.Errorf("%w: origin %q", ErrGradientPropertyMismatch, origin)
	}
	parentCount := b.samples.Count()
	for i := 0; i < gradient.samples.Count(); i++ {
		sample := gradient.samples.Entry(i)[0]
		if sample < 0 || int(sample) >= parentCount {
			return fmt.Errorf(
				"%w: gradient sample %d references parent sample %d, block has %d samples",
				ErrShapeMismatch, i, sample, parentCount,
			)
		}
	}
	b.gradients[origin] = gradient
	b.origins = append(b.origins, origin)
	return nil
}

// Gradient returns the gradient for the given origin, and whether one
// is present.
func (b *TensorBlock) Gradient(origin string) (*Gradient, bool) {
	g, ok := b.gradients[origin]
	return g, ok
}

// GradientOrigins returns the origins of all gradients, in the order
// they were added. The caller must not modify the returned slice.
func (b *TensorBlock) GradientOrigins() []string {
	return b.origins
}

// Gradient is a derivative sub-block attached to a TensorBlock.
//
// Its sample Labels' first column is named "sample" and holds positions
// into the parent block's sample Labels; the remaining columns identify
// the origin-specific degree of freedom (e.g. "structure", "atom" for a
// "positions" gradient). Its properties are identical to the parent's.
type Gradient struct {
	values     *Array
	samples    labels.Labels
	components []labels.Labels
	properties labels.Labels
}

// NewGradient creates a gradient sub-block. The same extent checks as
// NewBlock apply, and the first sample column must be named "sample".
func NewGradient(values *Array, samples labels.Labels, components []labels.Labels, properties labels.Labels) (*Gradient, error) {
	if samples.Size() == 0 || samples.Names()[0] != GradientSampleColumn {
		return nil, fmt.Errorf(
			"%w: first gradient sample column must be %q, got %v",
			labels.ErrInvalidLabels, GradientSampleColumn, samples.Names(),
		)
	}
	if err := checkAxes(values, samples, components, properties); err != nil {
		return nil, err
	}
	return &Gradient{
		values:     values,
		samples:    samples,
		components: components,
		properties: properties,
	}, nil
}

// Values returns the gradient's value array.
func (g *Gradient) Values() *Array {
	return g.values
}

// Samples returns the gradient's sample Labels.
func (g *Gradient) Samples() labels.Labels {
	return g.samples
}

// Components returns the gradient's component Labels. The caller must
// not modify the returned slice.
func (g *Gradient) Components() []labels.Labels {
	return g.components
}

// Properties returns the gradient's property Labels.
func (g *Gradient) Properties() labels.Labels {
	return g.properties
}

func checkAxes(values *Array, samples labels.Labels, components []labels.Labels, properties labels.Labels) error {
	shape := values.Shape()
	expected := make(Shape, 0, 2+len(components))
	expected = append(expected, samples.Count())
	for _, component := range components {
		expected = append(expected, component.Count())
	}
	expected = append(expected, properties.Count())

	if !shape.Equal(expected) {
		return fmt.Errorf(
			"%w: values have shape %v, axis labels require %v",
			ErrShapeMismatch, shape, expected,
		)
	}
	return nil
}
