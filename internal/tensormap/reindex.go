package tensormap

import (
	"fmt"
	"slices"

	"github.com/labtensor-ml/labtensor/internal/labels"
)

// reindexAxis selects which axis of the blocks receives the moved key
// columns.
type reindexAxis int

const (
	axisSamples reindexAxis = iota
	axisProperties
)

// KeysToSamples moves the named key columns into the sample axis of
// every block, merging blocks that become identical under the remaining
// key columns. Merged sample entries are (moved-key-values ++ original
// sample entry), in group-arrival then original order; properties are
// the stable union across the group, with missing cells left at zero.
// Gradient sample indices are remapped to the merged sample positions.
func (t *TensorMap) KeysToSamples(names ...string) (*TensorMap, error) {
	return t.keysToAxis(axisSamples, names)
}

// KeysToProperties moves the named key columns into the property axis of
// every block, merging blocks that become identical under the remaining
// key columns. Merged property entries are (moved-key-values ++ original
// property entry); samples are the stable union across the group, with
// missing cells left at zero. Gradients are merged analogously.
func (t *TensorMap) KeysToProperties(names ...string) (*TensorMap, error) {
	return t.keysToAxis(axisProperties, names)
}

// blockGroup collects the blocks sharing the same remaining key entry.
type blockGroup struct {
	remaining labels.Entry
	blocks    []int          // positions into t.blocks
	moved     []labels.Entry // moved key values, aligned with blocks
}

func (t *TensorMap) keysToAxis(axis reindexAxis, names []string) (*TensorMap, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no key columns to move", labels.ErrInvalidLabels)
	}

	keyNames := t.keys.Names()
	movedIdx := make([]int, 0, len(names))
	for _, name := range names {
		i, ok := t.keys.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: keys have no column %q", ErrKeyNotFound, name)
		}
		movedIdx = append(movedIdx, i)
	}

	remainingIdx := make([]int, 0, len(keyNames))
	for i := range keyNames {
		if !slices.Contains(movedIdx, i) {
			remainingIdx = append(remainingIdx, i)
		}
	}

	// Group blocks by remaining key columns, in first-arrival order.
	groupPositions := make(map[string]int)
	var groups []*blockGroup
	for i := 0; i < t.keys.Count(); i++ {
		key := t.keys.Entry(i)
		remaining := project(key, remainingIdx)
		if len(remainingIdx) == 0 {
			// All key columns moved: everything merges under a single
			// placeholder key.
			remaining = labels.Entry{0}
		}
		moved := project(key, movedIdx)

		pos, ok := groupPositions[groupKey(remaining)]
		if !ok {
			pos = len(groups)
			groupPositions[groupKey(remaining)] = pos
			groups = append(groups, &blockGroup{remaining: remaining})
		}
		groups[pos].blocks = append(groups[pos].blocks, i)
		groups[pos].moved = append(groups[pos].moved, moved)
	}

	newKeys := labels.NewBuilder(remainingNames(keyNames, remainingIdx)...)
	newBlocks := make([]*TensorBlock, 0, len(groups))
	for _, group := range groups {
		newKeys.Insert(group.remaining)
		merged, err := t.mergeGroup(axis, names, group)
		if err != nil {
			return nil, err
		}
		newBlocks = append(newBlocks, merged)
	}

	keys, err := newKeys.Finish()
	if err != nil {
		return nil, err
	}
	return New(keys, newBlocks)
}

// mergeGroup builds the single block replacing all blocks in a group.
func (t *TensorMap) mergeGroup(axis reindexAxis, movedNames []string, group *blockGroup) (*TensorBlock, error) {
	first := t.blocks[group.blocks[0]]
	if err := t.checkGroupCompatible(group); err != nil {
		return nil, err
	}

	// Assign dense positions to the merged moved axis (moved key values
	// prepended to the original entries) and to the union of the other
	// axis, in group-arrival then original order.
	var movedAxisNames, otherAxisNames []string
	if axis == axisSamples {
		movedAxisNames = append(append([]string{}, movedNames...), first.samples.Names()...)
		otherAxisNames = first.properties.Names()
	} else {
		movedAxisNames = append(append([]string{}, movedNames...), first.properties.Names()...)
		otherAxisNames = first.samples.Names()
	}
	movedAxis := labels.NewBuilder(movedAxisNames...)
	otherAxis := labels.NewBuilder(otherAxisNames...)

	// Per-block row remapping, for values copy and gradient remapping.
	sampleMaps := make([][]int, len(group.blocks))
	propertyMaps := make([][]int, len(group.blocks))
	for n, id := range group.blocks {
		block := t.blocks[id]
		moved := group.moved[n]
		sampleMaps[n] = make([]int, block.samples.Count())
		propertyMaps[n] = make([]int, block.properties.Count())

		for i := 0; i < block.samples.Count(); i++ {
			entry := block.samples.Entry(i)
			if axis == axisSamples {
				merged := append(append(labels.Entry{}, moved...), entry...)
				before := movedAxis.Count()
				pos := movedAxis.Insert(merged)
				if movedAxis.Count() == before {
					return nil, fmt.Errorf("%w: merged sample %v", ErrDuplicateKey, merged)
				}
				sampleMaps[n][i] = pos
			} else {
				sampleMaps[n][i] = otherAxis.Insert(entry)
			}
		}
		for i := 0; i < block.properties.Count(); i++ {
			entry := block.properties.Entry(i)
			if axis == axisProperties {
				merged := append(append(labels.Entry{}, moved...), entry...)
				before := movedAxis.Count()
				pos := movedAxis.Insert(merged)
				if movedAxis.Count() == before {
					return nil, fmt.Errorf("%w: merged property %v", ErrDuplicateKey, merged)
				}
				propertyMaps[n][i] = pos
			} else {
				propertyMaps[n][i] = otherAxis.Insert(entry)
			}
		}
	}

	var mergedSamples, mergedProperties labels.Labels
	var err error
	if axis == axisSamples {
		if mergedSamples, err = movedAxis.Finish(); err != nil {
			return nil, err
		}
		if mergedProperties, err = otherAxis.Finish(); err != nil {
			return nil, err
		}
	} else {
		if mergedSamples, err = otherAxis.Finish(); err != nil {
			return nil, err
		}
		if mergedProperties, err = movedAxis.Finish(); err != nil {
			return nil, err
		}
	}

	components := first.components
	compWidth := 1
	for _, component := range components {
		compWidth *= component.Count()
	}

	shape := make(Shape, 0, 2+len(components))
	shape = append(shape, mergedSamples.Count())
	for _, component := range components {
		shape = append(shape, component.Count())
	}
	shape = append(shape, mergedProperties.Count())
	values, err := NewArray(shape)
	if err != nil {
		return nil, err
	}

	// Copy each source block into the merged rows; unfilled cells stay
	// at zero.
	dst := values.Data()
	dstProps := mergedProperties.Count()
	for n, id := range group.blocks {
		block := t.blocks[id]
		src := block.values.Data()
		srcProps := block.properties.Count()
		for s := 0; s < block.samples.Count(); s++ {
			for c := 0; c < compWidth; c++ {
				for p := 0; p < srcProps; p++ {
					dstOffset := (sampleMaps[n][s]*compWidth+c)*dstProps + propertyMaps[n][p]
					dst[dstOffset] = src[(s*compWidth+c)*srcProps+p]
				}
			}
		}
	}

	merged, err := NewBlock(values, mergedSamples, components, mergedProperties)
	if err != nil {
		return nil, err
	}

	for _, origin := range first.origins {
		gradient, err := t.mergeGradients(origin, group, sampleMaps, propertyMaps, mergedProperties)
		if err != nil {
			return nil, err
		}
		if err := merged.AddGradient(origin, gradient); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// mergeGradients merges the gradients of a given origin across a group,
// remapping the leading "sample" column through the merged sample
// positions of each parent block.
func (t *TensorMap) mergeGradients(origin string, group *blockGroup, sampleMaps, propertyMaps [][]int, mergedProperties labels.Labels) (*Gradient, error) {
	firstGradient, _ := t.blocks[group.blocks[0]].Gradient(origin)

	gradSamples := labels.NewBuilder(firstGradient.samples.Names()...)
	components := firstGradient.components
	compWidth := 1
	for _, component := range components {
		compWidth *= component.Count()
	}

	// First pass: assign merged gradient rows. Rows from different
	// blocks may coincide once their parent samples merge, so Insert
	// deduplicates.
	rowMaps := make([][]int, len(group.blocks))
	for n, id := range group.blocks {
		gradient, _ := t.blocks[id].Gradient(origin)
		rowMaps[n] = make([]int, gradient.samples.Count())
		for i := 0; i < gradient.samples.Count(); i++ {
			entry := gradient.samples.Entry(i)
			remapped := append(labels.Entry{}, entry...)
			remapped[0] = int32(sampleMaps[n][entry[0]])
			rowMaps[n][i] = gradSamples.Insert(remapped)
		}
	}

	samples, err := gradSamples.Finish()
	if err != nil {
		return nil, err
	}

	shape := make(Shape, 0, 2+len(components))
	shape = append(shape, samples.Count())
	for _, component := range components {
		shape = append(shape, component.Count())
	}
	shape = append(shape, mergedProperties.Count())
	values, err := NewArray(shape)
	if err != nil {
		return nil, err
	}

	dst := values.Data()
	dstProps := mergedProperties.Count()
	for n, id := range group.blocks {
		gradient, _ := t.blocks[id].Gradient(origin)
		src := gradient.values.Data()
		srcProps := gradient.properties.Count()
		for g := 0; g < gradient.samples.Count(); g++ {
			for c := 0; c < compWidth; c++ {
				for p := 0; p < srcProps; p++ {
					dstOffset := (rowMaps[n][g]*compWidth+c)*dstProps + propertyMaps[n][p]
					dst[dstOffset] = src[(g*compWidth+c)*srcProps+p]
				}
			}
		}
	}

	return NewGradient(values, samples, components, mergedProperties)
}

// checkGroupCompatible verifies that all blocks in a group agree on
// component Labels, axis column names and gradient layout.
func (t *TensorMap) checkGroupCompatible(group *blockGroup) error {
	first := t.blocks[group.blocks[0]]
	for _, id := range group.blocks[1:] {
		block := t.blocks[id]
		if !slices.Equal(block.samples.Names(), first.samples.Names()) {
			return fmt.Errorf(
				"%w: sample columns %v != %v",
				ErrIncompatibleBlocks, block.samples.Names(), first.samples.Names(),
			)
		}
		if !slices.Equal(block.properties.Names(), first.properties.Names()) {
			return fmt.Errorf(
				"%w: property columns %v != %v",
				ErrIncompatibleBlocks, block.properties.Names(), first.properties.Names(),
			)
		}
		if len(block.components) != len(first.components) {
			return fmt.Errorf("%w: different number of components", ErrIncompatibleBlocks)
		}
		for i := range block.components {
			if !block.components[i].Equal(first.components[i]) {
				return fmt.Errorf("%w: component %d differs", ErrIncompatibleBlocks, i)
			}
		}
		if !slices.Equal(block.origins, first.origins) {
			return fmt.Errorf(
				"%w: gradient origins %v != %v",
				ErrIncompatibleBlocks, block.origins, first.origins,
			)
		}
		for _, origin := range first.origins {
			g, _ := block.Gradient(origin)
			fg, _ := first.Gradient(origin)
			if !slices.Equal(g.samples.Names(), fg.samples.Names()) {
				return fmt.Errorf(
					"%w: gradient %q sample columns %v != %v",
					ErrIncompatibleBlocks, origin, g.samples.Names(), fg.samples.Names(),
				)
			}
			if len(g.components) != len(fg.components) {
				return fmt.Errorf("%w: gradient %q components differ", ErrIncompatibleBlocks, origin)
			}
			for i := range g.components {
				if !g.components[i].Equal(fg.components[i]) {
					return fmt.Errorf("%w: gradient %q component %d differs", ErrIncompatibleBlocks, origin, i)
				}
			}
		}
	}
	return nil
}

func project(entry labels.Entry, indices []int) labels.Entry {
	out := make(labels.Entry, len(indices))
	for i, idx := range indices {
		out[i] = entry[idx]
	}
	return out
}

func remainingNames(names []string, indices []int) []string {
	if len(indices) == 0 {
		// All key columns moved: the result has a single key.
		return []string{"_"}
	}
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = names[idx]
	}
	return out
}

func groupKey(entry labels.Entry) string {
	return fmt.Sprint(entry)
}
