package calculator

import (
	"fmt"

	"github.com/labtensor-ml/labtensor/internal/labels"
	"github.com/labtensor-ml/labtensor/internal/parallel"
	"github.com/labtensor-ml/labtensor/internal/system"
	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

// GradientDirectionColumn is the name of the component column the
// framework adds to every gradient block, indexing the Cartesian
// direction of the derivative.
const GradientDirectionColumn = "direction"

// Calculator wraps a calculator plugin and runs the full computation
// protocol: natural layout enumeration, selection resolution, block
// allocation and kernel invocation.
type Calculator struct {
	base Base
}

// From wraps an existing plugin implementation.
func From(base Base) *Calculator {
	return &Calculator{base: base}
}

// Name returns the plugin's human-readable name.
func (c *Calculator) Name() string {
	return c.base.Name()
}

// Parameters returns the hyperparameters used to create the plugin, as
// the original JSON string.
func (c *Calculator) Parameters() string {
	return c.base.Parameters()
}

// Compute runs the calculation on the given systems and returns the
// assembled TensorMap.
//
// The map is keyed by the plugin's natural keys: selections narrow the
// samples and properties inside each block, never the key set, so a key
// whose resolved samples or properties are empty still yields a present
// block with a zero-extent axis. Either a fully valid TensorMap is
// returned or a single typed error; there is no partial success.
func (c *Calculator) Compute(systems []system.System, options Options) (*tensormap.TensorMap, error) {
	for _, origin := range options.Gradients {
		if !c.base.SupportsGradient(origin) {
			return nil, fmt.Errorf(
				"%w: %s does not support gradients with respect to %q",
				ErrInvalidParameters, c.base.Name(), origin,
			)
		}
	}

	keys, err := c.base.Keys(systems)
	if err != nil {
		return nil, err
	}
	count := keys.Count()

	naturalSamples, err := c.base.Samples(keys, systems)
	if err != nil {
		return nil, err
	}
	naturalProperties, err := c.base.Properties(keys)
	if err != nil {
		return nil, err
	}
	components, err := c.base.Components(keys)
	if err != nil {
		return nil, err
	}
	if len(naturalSamples) != count || len(naturalProperties) != count || len(components) != count {
		return nil, fmt.Errorf(
			"internal error: %s returned %d sample, %d property and %d component sets for %d keys",
			c.base.Name(), len(naturalSamples), len(naturalProperties), len(components), count,
		)
	}

	samples := make([]labels.Labels, count)
	properties := make([]labels.Labels, count)
	for i := 0; i < count; i++ {
		samples[i], err = resolveSelection(options.SelectedSamples, naturalSamples[i], keys, i, axisSamples)
		if err != nil {
			return nil, err
		}
		properties[i], err = resolveSelection(options.SelectedProperties, naturalProperties[i], keys, i, axisProperties)
		if err != nil {
			return nil, err
		}
	}

	// Gradient samples are derived from the resolved sample sets, so
	// their "sample" column indexes the filtered list, never the natural
	// one.
	gradientSamples := make(map[string][]labels.Labels, len(options.Gradients))
	for _, origin := range options.Gradients {
		gradientSamples[origin], err = c.base.GradientSamples(origin, keys, samples, systems)
		if err != nil {
			return nil, err
		}
		if len(gradientSamples[origin]) != count {
			return nil, fmt.Errorf(
				"internal error: %s returned %d gradient sample sets for %d keys",
				c.base.Name(), len(gradientSamples[origin]), count,
			)
		}
	}

	blocks := make([]*tensormap.TensorBlock, count)
	for i := 0; i < count; i++ {
		blocks[i], err = c.allocateBlock(samples[i], components[i], properties[i], options.Gradients, gradientSamples, i)
		if err != nil {
			return nil, err
		}
	}

	descriptor, err := tensormap.New(keys, blocks)
	if err != nil {
		return nil, err
	}

	// Per-key kernel invocations are independent; fan out and join, with
	// results placed by key index.
	errs := make([]error, count)
	parallel.For(count, func(i int) {
		errs[i] = c.base.ComputeBlock(systems, keys.Entry(i), blocks[i])
	}, options.Parallel)
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return descriptor, nil
}

// allocateBlock creates the zero-filled block (and gradient sub-blocks)
// for one key, shaped by the resolved Labels.
func (c *Calculator) allocateBlock(
	samples labels.Labels,
	components []labels.Labels,
	properties labels.Labels,
	origins []string,
	gradientSamples map[string][]labels.Labels,
	keyIndex int,
) (*tensormap.TensorBlock, error) {
	values, err := tensormap.NewArray(blockShape(samples, components, properties))
	if err != nil {
		return nil, err
	}
	block, err := tensormap.NewBlock(values, samples, components, properties)
	if err != nil {
		return nil, err
	}

	for _, origin := range origins {
		gradSamples := gradientSamples[origin][keyIndex]

		direction, err := labels.New(
			[]string{GradientDirectionColumn},
			[]labels.Entry{{0}, {1}, {2}},
		)
		if err != nil {
			return nil, err
		}
		gradComponents := append([]labels.Labels{direction}, components...)

		gradValues, err := tensormap.NewArray(blockShape(gradSamples, gradComponents, properties))
		if err != nil {
			return nil, err
		}
		gradient, err := tensormap.NewGradient(gradValues, gradSamples, gradComponents, properties)
		if err != nil {
			return nil, err
		}
		if err := block.AddGradient(origin, gradient); err != nil {
			return nil, err
		}
	}
	return block, nil
}

func blockShape(samples labels.Labels, components []labels.Labels, properties labels.Labels) tensormap.Shape {
	shape := make(tensormap.Shape, 0, 2+len(components))
	shape = append(shape, samples.Count())
	for _, component := range components {
		shape = append(shape, component.Count())
	}
	shape = append(shape, properties.Count())
	return shape
}
