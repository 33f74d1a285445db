package labels

import (
	"fmt"
	"slices"
)

// Builder assembles a Labels set incrementally, deduplicating entries.
//
// Builders are how calculators and the reindexer accumulate sample or
// property sets whose final size is not known up front: Insert assigns a
// dense position to each distinct entry in first-insertion order.
type Builder struct {
	names     []string
	values    []int32
	positions map[string]int
}

// NewBuilder creates a Builder for Labels with the given column names.
// Invalid names are reported by Finish.
func NewBuilder(names ...string) *Builder {
	return &Builder{
		names:     slices.Clone(names),
		positions: make(map[string]int),
	}
}

// Add appends an entry, returning an error wrapping ErrInvalidLabels if
// the entry has the wrong number of values or is already present.
func (b *Builder) Add(entry ...int32) error {
	if len(entry) != len(b.names) {
		return fmt.Errorf(
			"%w: entry %v has %d values, expected %d",
			ErrInvalidLabels, entry, len(entry), len(b.names),
		)
	}
	key := entryKey(entry)
	if _, exists := b.positions[key]; exists {
		return fmt.Errorf("%w: duplicate entry %v", ErrInvalidLabels, entry)
	}
	b.positions[key] = len(b.positions)
	b.values = append(b.values, entry...)
	return nil
}

// Insert returns the position of the given entry, appending it first if
// it is not already present. The entry length must match the column
// count; this is a programmer error and panics otherwise.
func (b *Builder) Insert(entry Entry) int {
	if len(entry) != len(b.names) {
		panic(fmt.Sprintf("labels: entry %v has %d values, expected %d", entry, len(entry), len(b.names)))
	}
	key := entryKey(entry)
	if i, exists := b.positions[key]; exists {
		return i
	}
	i := len(b.positions)
	b.positions[key] = i
	b.values = append(b.values, entry...)
	return i
}

// Position returns the position assigned to the entry so far, and
// whether the entry has been added.
func (b *Builder) Position(entry Entry) (int, bool) {
	i, ok := b.positions[entryKey(entry)]
	return i, ok
}

// Count returns the number of entries added so far.
func (b *Builder) Count() int {
	return len(b.positions)
}

// Finish validates the column names and returns the accumulated Labels.
// The builder must not be used afterwards.
func (b *Builder) Finish() (Labels, error) {
	if err := validateNames(b.names); err != nil {
		return Labels{}, err
	}
	return Labels{
		names:     b.names,
		values:    b.values,
		positions: b.positions,
	}, nil
}
