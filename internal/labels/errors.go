package labels

import "errors"

// Common errors.
var (
	// ErrInvalidLabels is returned when constructing Labels from malformed
	// input: empty or duplicated column names, duplicated entries, or
	// entries whose length does not match the column count.
	ErrInvalidLabels = errors.New("invalid labels")

	// ErrIncompatibleLabels is returned by set operations when the two
	// Labels do not have the same column names in the same order.
	ErrIncompatibleLabels = errors.New("incompatible labels")
)
