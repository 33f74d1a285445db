package calculator

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/labtensor-ml/labtensor/internal/labels"
	"github.com/labtensor-ml/labtensor/internal/system"
	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

func init() {
	Register("dummy_calculator", newDummyCalculator)
}

type dummyParameters struct {
	// Cutoff controls which atoms count as neighbors of a center.
	Cutoff float64 `json:"cutoff"`
	// Delta is an integer offset added to the atom index for the
	// "index_delta" property.
	Delta int32 `json:"delta"`
	// Name is appended to the calculator name.
	Name string `json:"name"`
	// Gradients is kept for backward compatibility with older
	// hyperparameter files; gradients are requested per compute call.
	Gradients bool `json:"gradients,omitempty"`
}

// dummyCalculator is a minimal reference calculator used to exercise
// the computation protocol: one key per species, one sample per atom,
// two properties with closed-form values and gradients.
type dummyCalculator struct {
	parameters string
	params     dummyParameters
}

func newDummyCalculator(parameters string) (Base, error) {
	decoder := json.NewDecoder(strings.NewReader(parameters))
	decoder.DisallowUnknownFields()

	var params dummyParameters
	if err := decoder.Decode(&params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	if params.Cutoff <= 0 {
		return nil, fmt.Errorf("%w: cutoff must be positive, got %v", ErrInvalidParameters, params.Cutoff)
	}
	return &dummyCalculator{parameters: parameters, params: params}, nil
}

func (d *dummyCalculator) Name() string {
	return fmt.Sprintf(
		"dummy test calculator with cutoff: %v - delta: %v - name: %v",
		d.params.Cutoff, d.params.Delta, d.params.Name,
	)
}

func (d *dummyCalculator) Parameters() string {
	return d.parameters
}

func (d *dummyCalculator) Keys(systems []system.System) (labels.Labels, error) {
	return speciesKeys(systems)
}

func (d *dummyCalculator) SampleNames() []string {
	return []string{"structure", "center"}
}

func (d *dummyCalculator) Samples(keys labels.Labels, systems []system.System) ([]labels.Labels, error) {
	return atomCenteredSamples(keys, systems)
}

func (d *dummyCalculator) PropertyNames() []string {
	return []string{"index_delta", "x_y_z"}
}

func (d *dummyCalculator) Properties(keys labels.Labels) ([]labels.Labels, error) {
	properties, err := labels.New(d.PropertyNames(), []labels.Entry{{1, 0}, {0, 1}})
	if err != nil {
		return nil, err
	}
	out := make([]labels.Labels, keys.Count())
	for i := range out {
		out[i] = properties
	}
	return out, nil
}

func (d *dummyCalculator) Components(keys labels.Labels) ([][]labels.Labels, error) {
	return make([][]labels.Labels, keys.Count()), nil
}

func (d *dummyCalculator) SupportsGradient(origin string) bool {
	return origin == "positions"
}

func (d *dummyCalculator) GradientSamples(origin string, keys labels.Labels, samples []labels.Labels, systems []system.System) ([]labels.Labels, error) {
	if origin != "positions" {
		return nil, fmt.Errorf("%w: unsupported gradient origin %q", ErrInvalidParameters, origin)
	}

	out := make([]labels.Labels, len(samples))
	for i, blockSamples := range samples {
		builder := labels.NewBuilder("sample", "structure", "atom")
		for s := 0; s < blockSamples.Count(); s++ {
			entry := blockSamples.Entry(s)
			structure, center := entry[0], int(entry[1])
			sys := systems[structure]
			if err := sys.ComputeNeighbors(d.params.Cutoff); err != nil {
				return nil, err
			}
			for _, atom := range environmentOf(sys, center) {
				if err := builder.Add(int32(s), structure, int32(atom)); err != nil {
					return nil, err
				}
			}
		}
		gradSamples, err := builder.Finish()
		if err != nil {
			return nil, err
		}
		out[i] = gradSamples
	}
	return out, nil
}

func (d *dummyCalculator) ComputeBlock(systems []system.System, key labels.Entry, block *tensormap.TensorBlock) error {
	samples := block.Samples()
	properties := block.Properties()
	values := block.Values()

	for s := 0; s < samples.Count(); s++ {
		entry := samples.Entry(s)
		structure, center := int(entry[0]), int(entry[1])
		sys := systems[structure]
		if err := sys.ComputeNeighbors(d.params.Cutoff); err != nil {
			return err
		}

		// Sum of x+y+z over the center and all its neighbors.
		movedSum := 0.0
		positions := sys.Positions()
		for _, atom := range environmentOf(sys, center) {
			p := positions[atom]
			movedSum += p[0] + p[1] + p[2]
		}

		for p := 0; p < properties.Count(); p++ {
			property := properties.Entry(p)
			indexDelta, xyz := float64(property[0]), float64(property[1])
			value := indexDelta*float64(d.params.Delta+int32(center)) + xyz*movedSum
			values.Set(value, s, p)
		}
	}

	gradient, ok := block.Gradient("positions")
	if !ok {
		return nil
	}
	gradSamples := gradient.Samples()
	gradValues := gradient.Values()
	for g := 0; g < gradSamples.Count(); g++ {
		for direction := 0; direction < 3; direction++ {
			for p := 0; p < properties.Count(); p++ {
				// index_delta does not depend on positions; x_y_z moves
				// by one with each Cartesian coordinate of each atom in
				// the environment.
				gradValues.Set(float64(properties.Entry(p)[1]), g, direction, p)
			}
		}
	}
	return nil
}

// speciesKeys enumerates one key per distinct species across all
// systems, in ascending species order.
func speciesKeys(systems []system.System) (labels.Labels, error) {
	seen := make(map[int32]struct{})
	for _, sys := range systems {
		for _, species := range sys.Species() {
			seen[species] = struct{}{}
		}
	}
	all := make([]int32, 0, len(seen))
	for species := range seen {
		all = append(all, species)
	}
	slices.Sort(all)

	builder := labels.NewBuilder("species_center")
	for _, species := range all {
		if err := builder.Add(species); err != nil {
			return labels.Labels{}, err
		}
	}
	return builder.Finish()
}

// atomCenteredSamples returns one (structure, center) sample per atom
// matching each key's species.
func atomCenteredSamples(keys labels.Labels, systems []system.System) ([]labels.Labels, error) {
	out := make([]labels.Labels, keys.Count())
	for i := 0; i < keys.Count(); i++ {
		species := keys.Entry(i)[0]
		builder := labels.NewBuilder("structure", "center")
		for structure, sys := range systems {
			for center, s := range sys.Species() {
				if s == species {
					if err := builder.Add(int32(structure), int32(center)); err != nil {
						return nil, err
					}
				}
			}
		}
		samples, err := builder.Finish()
		if err != nil {
			return nil, err
		}
		out[i] = samples
	}
	return out, nil
}

// environmentOf returns the given atom and all its neighbors within the
// current neighbor list cutoff, in ascending atom order.
func environmentOf(sys system.System, center int) []int {
	atoms := []int{center}
	for _, pair := range sys.PairsContaining(center) {
		other := pair.First
		if other == center {
			other = pair.Second
		}
		atoms = append(atoms, other)
	}
	slices.Sort(atoms)
	return slices.Compact(atoms)
}
