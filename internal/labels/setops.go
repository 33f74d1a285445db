package labels

import "fmt"

// Intersection returns the entries of l that are also present in other,
// preserving l's entry order. It returns an error wrapping
// ErrIncompatibleLabels if the two Labels do not share the same column
// names in the same order.
func (l Labels) Intersection(other Labels) (Labels, error) {
	if !l.SameNames(other) {
		return Labels{}, fmt.Errorf(
			"%w: intersection between columns %v and %v",
			ErrIncompatibleLabels, l.names, other.names,
		)
	}
	builder := NewBuilder(l.names...)
	for i := 0; i < l.Count(); i++ {
		entry := l.Entry(i)
		if other.Contains(entry) {
			builder.Insert(entry)
		}
	}
	return builder.Finish()
}

// Difference returns the entries of l that are not present in other,
// preserving l's entry order. It returns an error wrapping
// ErrIncompatibleLabels if the two Labels do not share the same column
// names in the same order.
func (l Labels) Difference(other Labels) (Labels, error) {
	if !l.SameNames(other) {
		return Labels{}, fmt.Errorf(
			"%w: difference between columns %v and %v",
			ErrIncompatibleLabels, l.names, other.names,
		)
	}
	builder := NewBuilder(l.names...)
	for i := 0; i < l.Count(); i++ {
		entry := l.Entry(i)
		if !other.Contains(entry) {
			builder.Insert(entry)
		}
	}
	return builder.Finish()
}

// Union returns the entries of l followed by the entries of other that
// are not already in l, preserving insertion order on both sides. It
// returns an error wrapping ErrIncompatibleLabels if the two Labels do
// not share the same column names in the same order.
func (l Labels) Union(other Labels) (Labels, error) {
	if !l.SameNames(other) {
		return Labels{}, fmt.Errorf(
			"%w: union between columns %v and %v",
			ErrIncompatibleLabels, l.names, other.names,
		)
	}
	builder := NewBuilder(l.names...)
	for i := 0; i < l.Count(); i++ {
		builder.Insert(l.Entry(i))
	}
	for i := 0; i < other.Count(); i++ {
		builder.Insert(other.Entry(i))
	}
	return builder.Finish()
}

// IsSubsetOf reports whether every entry of l is present in other,
// regardless of order. It returns an error wrapping
// ErrIncompatibleLabels if the two Labels do not share the same column
// names in the same order.
func (l Labels) IsSubsetOf(other Labels) (bool, error) {
	if !l.SameNames(other) {
		return false, fmt.Errorf(
			"%w: subset check between columns %v and %v",
			ErrIncompatibleLabels, l.names, other.names,
		)
	}
	for i := 0; i < l.Count(); i++ {
		if !other.Contains(l.Entry(i)) {
			return false, nil
		}
	}
	return true, nil
}
