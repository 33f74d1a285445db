package calculator

import (
	"fmt"

	"github.com/labtensor-ml/labtensor/internal/labels"
	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

// LabelsSelection restricts which samples or properties a compute call
// actually produces. It is a closed variant: All, Subset or Predefined.
// The samples and properties selections of a single compute call are
// independent.
type LabelsSelection interface {
	isSelection()
}

type allSelection struct{}

type subsetSelection struct {
	labels labels.Labels
}

type predefinedSelection struct {
	tensorMap *tensormap.TensorMap
}

func (allSelection) isSelection()        {}
func (subsetSelection) isSelection()     {}
func (predefinedSelection) isSelection() {}

// All selects the calculator's full natural layout. This is the default
// when no selection is set.
func All() LabelsSelection {
	return allSelection{}
}

// Subset selects the natural entries matching the given Labels, in the
// given Labels' order. The selection's columns must be a subset of the
// natural columns; entries absent from the natural layout are silently
// dropped.
func Subset(l labels.Labels) LabelsSelection {
	return subsetSelection{labels: l}
}

// Predefined takes the sample or property Labels verbatim from the
// matching block of the given TensorMap. Natural keys absent from the
// map resolve to an empty Labels; entries the calculator cannot produce
// are an error.
func Predefined(tm *tensormap.TensorMap) LabelsSelection {
	return predefinedSelection{tensorMap: tm}
}

// selectionAxis names the axis being resolved, for error messages and
// for picking the right Labels out of a predefined block.
type selectionAxis int

const (
	axisSamples selectionAxis = iota
	axisProperties
)

func (a selectionAxis) String() string {
	if a == axisSamples {
		return "samples"
	}
	return "properties"
}

// resolveSelection is a pure function of (natural Labels, request) ->
// resolved Labels, run once per axis and per key.
func resolveSelection(sel LabelsSelection, natural labels.Labels, keys labels.Labels, keyIndex int, axis selectionAxis) (labels.Labels, error) {
	switch sel := sel.(type) {
	case nil, allSelection:
		return natural, nil
	case subsetSelection:
		return resolveSubset(sel.labels, natural, axis)
	case predefinedSelection:
		return resolvePredefined(sel.tensorMap, natural, keys, keyIndex, axis)
	default:
		return labels.Labels{}, fmt.Errorf("%w: unknown selection type %T", ErrInvalidSelection, sel)
	}
}

func resolveSubset(selected, natural labels.Labels, axis selectionAxis) (labels.Labels, error) {
	// The selection may name any subset of the natural columns; map each
	// selected column to its position in the natural Labels.
	columns := make([]int, selected.Size())
	for i, name := range selected.Names() {
		idx, ok := natural.ColumnIndex(name)
		if !ok {
			return labels.Labels{}, fmt.Errorf(
				"%w: %s selection has column %q, not part of the %s columns %v",
				ErrInvalidSelection, axis, name, axis, natural.Names(),
			)
		}
		columns[i] = idx
	}

	// Index the natural entries by their projection onto the selected
	// columns. A projection can match several natural entries when the
	// selection uses fewer columns.
	matches := make(map[string][]int, natural.Count())
	for i := 0; i < natural.Count(); i++ {
		projection := projectEntry(natural.Entry(i), columns)
		key := projection.String()
		matches[key] = append(matches[key], i)
	}

	// Selected entries absent from the natural layout are silently
	// dropped: this is how callers narrow computation without knowing
	// every natural entry.
	builder := labels.NewBuilder(natural.Names()...)
	for i := 0; i < selected.Count(); i++ {
		for _, position := range matches[selected.Entry(i).String()] {
			builder.Insert(natural.Entry(position))
		}
	}
	return builder.Finish()
}

func resolvePredefined(tm *tensormap.TensorMap, natural labels.Labels, keys labels.Labels, keyIndex int, axis selectionAxis) (labels.Labels, error) {
	if !tm.Keys().SameNames(keys) {
		return labels.Labels{}, fmt.Errorf(
			"%w: predefined selection keys have columns %v, expected %v",
			ErrInvalidSelection, tm.Keys().Names(), keys.Names(),
		)
	}

	block, err := tm.BlockByKey(keys.Entry(keyIndex))
	if err != nil {
		// Keys absent from the predefined map are how callers opt out of
		// a block: resolve to zero entries, not an error.
		return labels.New(natural.Names(), nil)
	}

	resolved := block.Samples()
	if axis == axisProperties {
		resolved = block.Properties()
	}
	if !resolved.SameNames(natural) {
		return labels.Labels{}, fmt.Errorf(
			"%w: predefined %s have columns %v, expected %v",
			ErrInvalidSelection, axis, resolved.Names(), natural.Names(),
		)
	}
	for i := 0; i < resolved.Count(); i++ {
		if !natural.Contains(resolved.Entry(i)) {
			return labels.Labels{}, fmt.Errorf(
				"%w: predefined %s entry %v cannot be produced for key %v",
				ErrInvalidSelection, axis, resolved.Entry(i), keys.Entry(keyIndex),
			)
		}
	}
	return resolved, nil
}

func projectEntry(entry labels.Entry, columns []int) labels.Entry {
	out := make(labels.Entry, len(columns))
	for i, c := range columns {
		out[i] = entry[c]
	}
	return out
}
