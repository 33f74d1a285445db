// Copyright 2026 Labtensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensormap provides the public API for block-sparse labeled
// tensors in the Labtensor framework.
//
// A TensorMap is an ordered collection of independently-shaped
// TensorBlocks keyed by a Labels set. Each block owns a dense value
// array indexed along its axes by sample, component and property
// Labels, plus optional per-origin Gradient sub-blocks. The
// KeysToSamples and KeysToProperties operations merge blocks into a
// denser layout for downstream consumption.
package tensormap

import (
	"io"

	"github.com/labtensor-ml/labtensor/internal/labels"
	"github.com/labtensor-ml/labtensor/internal/serialization"
	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

// Type aliases for public API

// Shape represents the dimensions of an array.
type Shape = tensormap.Shape

// Array is a dense, row-major float64 buffer addressed by
// (sample, components..., property) indices.
type Array = tensormap.Array

// TensorBlock is one dense value array plus the Labels describing each
// of its axes, with optional named gradients.
type TensorBlock = tensormap.TensorBlock

// Gradient is a derivative sub-block whose sample axis references
// positions into its parent block's samples.
type Gradient = tensormap.Gradient

// TensorMap is an ordered collection of (key, TensorBlock) pairs.
type TensorMap = tensormap.TensorMap

// GradientSampleColumn is the required name of the first column of a
// gradient's sample Labels.
const GradientSampleColumn = tensormap.GradientSampleColumn

// Errors returned by this package; match with errors.Is.
var (
	ErrShapeMismatch            = tensormap.ErrShapeMismatch
	ErrDuplicateGradient        = tensormap.ErrDuplicateGradient
	ErrGradientPropertyMismatch = tensormap.ErrGradientPropertyMismatch
	ErrLengthMismatch           = tensormap.ErrLengthMismatch
	ErrDuplicateKey             = tensormap.ErrDuplicateKey
	ErrKeyNotFound              = tensormap.ErrKeyNotFound
	ErrIncompatibleBlocks       = tensormap.ErrIncompatibleBlocks
)

// New creates a TensorMap from keys and one block per key, in matching
// order.
func New(keys labels.Labels, blocks []*TensorBlock) (*TensorMap, error) {
	return tensormap.New(keys, blocks)
}

// NewBlock creates a block from a value array and its axis Labels.
func NewBlock(values *Array, samples labels.Labels, components []labels.Labels, properties labels.Labels) (*TensorBlock, error) {
	return tensormap.NewBlock(values, samples, components, properties)
}

// NewGradient creates a gradient sub-block.
func NewGradient(values *Array, samples labels.Labels, components []labels.Labels, properties labels.Labels) (*Gradient, error) {
	return tensormap.NewGradient(values, samples, components, properties)
}

// NewArray creates a zero-filled array with the given shape.
func NewArray(shape Shape) (*Array, error) {
	return tensormap.NewArray(shape)
}

// NewArrayFrom creates an array with the given shape wrapping the given
// data.
func NewArrayFrom(shape Shape, data []float64) (*Array, error) {
	return tensormap.NewArrayFrom(shape, data)
}

// Save writes a TensorMap in .labt format: a JSON header describing
// keys and Labels, a float64 data section and a SHA-256 checksum.
// Column names and entry order are preserved exactly.
func Save(w io.Writer, tm *TensorMap) error {
	return serialization.Save(w, tm)
}

// Load reads a TensorMap written by Save.
func Load(r io.Reader) (*TensorMap, error) {
	return serialization.Load(r)
}
