// Package labels implements ordered sets of named integer tuples, used to
// identify samples, components, properties and keys in labeled tensors.
//
// A Labels value holds a fixed list of column names and a list of entries,
// one int32 per column. Entries are unique and their insertion order is
// preserved: the position of an entry defines the matching row in any
// value buffer indexed by these Labels.
package labels

import (
	"encoding/binary"
	"fmt"
	"slices"
)

// Entry is a single row of a Labels set: one int32 value per column.
type Entry []int32

// Equal reports whether two entries hold the same values.
func (e Entry) Equal(other Entry) bool {
	return slices.Equal(e, other)
}

func (e Entry) String() string {
	return fmt.Sprint([]int32(e))
}

// Labels is an immutable, ordered set of named integer tuples.
//
// The zero value is not usable; use New, Empty or a Builder. Labels are
// cheap to copy and safe to share across goroutines: the backing arrays
// are never mutated after construction.
type Labels struct {
	names     []string
	values    []int32 // row-major, len = len(names) * count
	positions map[string]int
}

// New creates a Labels set with the given column names and entries.
//
// It returns an error wrapping ErrInvalidLabels if any column name is
// empty or duplicated, if any entry has the wrong number of values, or
// if two entries are identical.
func New(names []string, entries []Entry) (Labels, error) {
	if err := validateNames(names); err != nil {
		return Labels{}, err
	}

	l := Labels{
		names:     slices.Clone(names),
		values:    make([]int32, 0, len(names)*len(entries)),
		positions: make(map[string]int, len(entries)),
	}
	for _, entry := range entries {
		if len(entry) != len(names) {
			return Labels{}, fmt.Errorf(
				"%w: entry %v has %d values, expected %d",
				ErrInvalidLabels, entry, len(entry), len(names),
			)
		}
		key := entryKey(entry)
		if _, exists := l.positions[key]; exists {
			return Labels{}, fmt.Errorf("%w: duplicate entry %v", ErrInvalidLabels, entry)
		}
		l.positions[key] = len(l.positions)
		l.values = append(l.values, entry...)
	}
	return l, nil
}

// Empty creates a Labels set with the given column names and no entries.
func Empty(names ...string) (Labels, error) {
	return New(names, nil)
}

// MustNew is like New but panics on error. It is intended for statically
// known label sets, typically in tests.
func MustNew(names []string, entries []Entry) Labels {
	l, err := New(names, entries)
	if err != nil {
		panic(err)
	}
	return l
}

// Names returns the column names. The caller must not modify the
// returned slice.
func (l Labels) Names() []string {
	return l.names
}

// Count returns the number of entries.
func (l Labels) Count() int {
	if len(l.names) == 0 {
		return 0
	}
	return len(l.values) / len(l.names)
}

// Size returns the number of columns.
func (l Labels) Size() int {
	return len(l.names)
}

// Entry returns the entry at position i. The caller must not modify the
// returned slice.
func (l Labels) Entry(i int) Entry {
	n := len(l.names)
	return Entry(l.values[i*n : (i+1)*n : (i+1)*n])
}

// Position returns the position of the given entry, and whether the
// entry is present at all.
func (l Labels) Position(entry Entry) (int, bool) {
	if len(entry) != len(l.names) {
		return 0, false
	}
	i, ok := l.positions[entryKey(entry)]
	return i, ok
}

// Contains reports whether the given entry is present.
func (l Labels) Contains(entry Entry) bool {
	_, ok := l.Position(entry)
	return ok
}

// ColumnIndex returns the index of the named column, and whether such a
// column exists.
func (l Labels) ColumnIndex(name string) (int, bool) {
	for i, n := range l.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// SameNames reports whether the two Labels have the same column names in
// the same order.
func (l Labels) SameNames(other Labels) bool {
	return slices.Equal(l.names, other.names)
}

// Equal reports whether the two Labels have the same column names and
// the same entries in the same order.
func (l Labels) Equal(other Labels) bool {
	return l.SameNames(other) && slices.Equal(l.values, other.values)
}

func (l Labels) String() string {
	return fmt.Sprintf("Labels%v x %d", l.names, l.Count())
}

func validateNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("%w: empty column name", ErrInvalidLabels)
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%w: duplicate column name %q", ErrInvalidLabels, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// entryKey packs an entry into a string usable as a map key.
func entryKey(entry Entry) string {
	buf := make([]byte, 4*len(entry))
	for i, v := range entry {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	return string(buf)
}
