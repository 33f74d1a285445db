package calculator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/labtensor-ml/labtensor/internal/labels"
	"github.com/labtensor-ml/labtensor/internal/system"
	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

func init() {
	Register("sorted_distances", newSortedDistances)
}

type sortedDistancesParameters struct {
	// Cutoff defines the atomic environment around each center.
	Cutoff float64 `json:"cutoff"`
	// MaxNeighbors is the number of distances kept per center; centers
	// with fewer neighbors are padded with the cutoff value.
	MaxNeighbors int `json:"max_neighbors"`
}

// sortedDistances computes, for each atomic center, the sorted list of
// distances to its neighbors inside the cutoff, padded with the cutoff
// value. It is the simplest non-trivial structural descriptor.
type sortedDistances struct {
	parameters string
	params     sortedDistancesParameters
}

func newSortedDistances(parameters string) (Base, error) {
	decoder := json.NewDecoder(strings.NewReader(parameters))
	decoder.DisallowUnknownFields()

	var params sortedDistancesParameters
	if err := decoder.Decode(&params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	if params.Cutoff <= 0 {
		return nil, fmt.Errorf("%w: cutoff must be positive, got %v", ErrInvalidParameters, params.Cutoff)
	}
	if params.MaxNeighbors <= 0 {
		return nil, fmt.Errorf("%w: max_neighbors must be positive, got %v", ErrInvalidParameters, params.MaxNeighbors)
	}
	return &sortedDistances{parameters: parameters, params: params}, nil
}

func (c *sortedDistances) Name() string {
	return fmt.Sprintf("sorted distances with cutoff: %v - max_neighbors: %v", c.params.Cutoff, c.params.MaxNeighbors)
}

func (c *sortedDistances) Parameters() string {
	return c.parameters
}

func (c *sortedDistances) Keys(systems []system.System) (labels.Labels, error) {
	return speciesKeys(systems)
}

func (c *sortedDistances) SampleNames() []string {
	return []string{"structure", "center"}
}

func (c *sortedDistances) Samples(keys labels.Labels, systems []system.System) ([]labels.Labels, error) {
	return atomCenteredSamples(keys, systems)
}

func (c *sortedDistances) PropertyNames() []string {
	return []string{"neighbor"}
}

func (c *sortedDistances) Properties(keys labels.Labels) ([]labels.Labels, error) {
	builder := labels.NewBuilder("neighbor")
	for n := 0; n < c.params.MaxNeighbors; n++ {
		if err := builder.Add(int32(n)); err != nil {
			return nil, err
		}
	}
	properties, err := builder.Finish()
	if err != nil {
		return nil, err
	}
	out := make([]labels.Labels, keys.Count())
	for i := range out {
		out[i] = properties
	}
	return out, nil
}

func (c *sortedDistances) Components(keys labels.Labels) ([][]labels.Labels, error) {
	return make([][]labels.Labels, keys.Count()), nil
}

func (c *sortedDistances) SupportsGradient(origin string) bool {
	return false
}

func (c *sortedDistances) GradientSamples(origin string, keys labels.Labels, samples []labels.Labels, systems []system.System) ([]labels.Labels, error) {
	return nil, fmt.Errorf("%w: sorted_distances does not support gradients", ErrInvalidParameters)
}

func (c *sortedDistances) ComputeBlock(systems []system.System, key labels.Entry, block *tensormap.TensorBlock) error {
	samples := block.Samples()
	properties := block.Properties()
	values := block.Values()

	for s := 0; s < samples.Count(); s++ {
		entry := samples.Entry(s)
		structure, center := int(entry[0]), int(entry[1])
		sys := systems[structure]
		if err := sys.ComputeNeighbors(c.params.Cutoff); err != nil {
			return err
		}

		distances := make([]float64, 0, c.params.MaxNeighbors)
		for _, pair := range sys.PairsContaining(center) {
			distances = append(distances, pair.Distance)
		}
		sort.Float64s(distances)

		for p := 0; p < properties.Count(); p++ {
			neighbor := int(properties.Entry(p)[0])
			value := c.params.Cutoff
			if neighbor < len(distances) {
				value = distances[neighbor]
			}
			values.Set(value, s, p)
		}
	}
	return nil
}
