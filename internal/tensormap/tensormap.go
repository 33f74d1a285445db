// Package tensormap implements block-sparse labeled tensors: an ordered
// collection of independently-shaped TensorBlocks keyed by a Labels set,
// with optional per-origin Gradient sub-blocks.
//
// Different blocks may carry different sample and property Labels; this
// heterogeneous sparse structure is exactly why a single dense array
// cannot represent the whole map.
package tensormap

import (
	"fmt"

	"github.com/labtensor-ml/labtensor/internal/labels"
)

// TensorMap is an ordered collection of (key, TensorBlock) pairs. Keys
// form a Labels set, so they are unique by construction; blocks are
// positionally aligned with keys at all times.
type TensorMap struct {
	keys   labels.Labels
	blocks []*TensorBlock
}

// New creates a TensorMap from keys and one block per key, in matching
// order. It returns an error wrapping ErrLengthMismatch if the counts
// differ. Key uniqueness is guaranteed by the Labels type itself.
func New(keys labels.Labels, blocks []*TensorBlock) (*TensorMap, error) {
	if keys.Count() != len(blocks) {
		return nil, fmt.Errorf(
			"%w: %d keys but %d blocks",
			ErrLengthMismatch, keys.Count(), len(blocks),
		)
	}
	return &TensorMap{keys: keys, blocks: blocks}, nil
}

// Keys returns the map's keys.
func (t *TensorMap) Keys() labels.Labels {
	return t.keys
}

// Len returns the number of blocks.
func (t *TensorMap) Len() int {
	return len(t.blocks)
}

// Blocks returns all blocks in key order. The caller must not modify
// the returned slice.
func (t *TensorMap) Blocks() []*TensorBlock {
	return t.blocks
}

// BlockByID returns the block at the given position, or an error
// wrapping ErrKeyNotFound if the position is out of range.
func (t *TensorMap) BlockByID(i int) (*TensorBlock, error) {
	if i < 0 || i >= len(t.blocks) {
		return nil, fmt.Errorf("%w: block index %d out of range (%d blocks)", ErrKeyNotFound, i, len(t.blocks))
	}
	return t.blocks[i], nil
}

// BlockByKey returns the block for the given key entry, or an error
// wrapping ErrKeyNotFound if the key is absent.
func (t *TensorMap) BlockByKey(key labels.Entry) (*TensorBlock, error) {
	i, ok := t.keys.Position(key)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return t.blocks[i], nil
}
