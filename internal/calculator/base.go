// Package calculator orchestrates descriptor computations: it turns a
// calculator plugin's natural key/sample/property layout and a caller's
// selection request into a fully assembled TensorMap, allocating blocks
// and gradients and invoking the plugin kernel for exactly the resolved
// index sets.
package calculator

import (
	"github.com/labtensor-ml/labtensor/internal/labels"
	"github.com/labtensor-ml/labtensor/internal/system"
	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

// Base is the interface shared by all calculator plugins, used by
// Calculator to run the calculation. End users should go through
// Calculator instead of using this directly.
type Base interface {
	// Name returns a human-readable name for this calculator.
	Name() string

	// Parameters returns the hyperparameters used to create this
	// calculator, as the original JSON string.
	Parameters() string

	// Keys enumerates the natural keys for the given systems.
	Keys(systems []system.System) (labels.Labels, error)

	// SampleNames returns the column names of the sample Labels.
	SampleNames() []string

	// Samples returns the natural (unfiltered) sample Labels, one set
	// per key.
	Samples(keys labels.Labels, systems []system.System) ([]labels.Labels, error)

	// PropertyNames returns the column names of the property Labels.
	PropertyNames() []string

	// Properties returns the natural property Labels, one set per key.
	Properties(keys labels.Labels) ([]labels.Labels, error)

	// Components returns the component Labels of the values, one list
	// per key.
	Components(keys labels.Labels) ([][]labels.Labels, error)

	// SupportsGradient reports whether this calculator can compute
	// gradients with respect to the given origin (e.g. "positions").
	SupportsGradient(origin string) bool

	// GradientSamples returns the gradient sample Labels for the given
	// origin, one set per key. The samples slice contains the resolved
	// (post-selection) samples for each key; gradient entries must
	// reference positions into these, and only these.
	GradientSamples(origin string, keys labels.Labels, samples []labels.Labels, systems []system.System) ([]labels.Labels, error)

	// ComputeBlock fills one pre-allocated, zero-initialized block (and
	// its gradients) for one key. The block's samples and properties are
	// the resolved ones, which may be any subset of the natural layout.
	ComputeBlock(systems []system.System, key labels.Entry, block *tensormap.TensorBlock) error
}
