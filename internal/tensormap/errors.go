package tensormap

import "errors"

// Common errors.
var (
	// ErrShapeMismatch is returned when a value buffer's extents do not
	// match the row counts of the Labels describing its axes, or when a
	// gradient sample references a position outside its parent block.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDuplicateGradient is returned when adding a gradient for an
	// origin already present on the block.
	ErrDuplicateGradient = errors.New("duplicate gradient")

	// ErrGradientPropertyMismatch is returned when a gradient's property
	// Labels differ from its parent block's property Labels.
	ErrGradientPropertyMismatch = errors.New("gradient properties do not match block properties")

	// ErrLengthMismatch is returned when constructing a TensorMap with a
	// different number of keys and blocks.
	ErrLengthMismatch = errors.New("keys and blocks length mismatch")

	// ErrDuplicateKey is returned when a reindexing operation would
	// produce the same merged entry from two different blocks.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrKeyNotFound is returned by block lookups for keys or positions
	// absent from the map.
	ErrKeyNotFound = errors.New("key not found")

	// ErrIncompatibleBlocks is returned when blocks being merged disagree
	// on component Labels, on axis column names, or on gradient origins.
	ErrIncompatibleBlocks = errors.New("incompatible blocks")
)
