// Copyright 2026 Labtensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package labels provides the public API for labeled tensor metadata in
// the Labtensor framework.
//
// A Labels value is an ordered set of named integer tuples used to
// identify the samples, components, properties and keys of labeled
// tensors:
//
//	samples := labels.MustNew(
//	    []string{"structure", "center"},
//	    []labels.Entry{{0, 0}, {0, 1}},
//	)
//	position, ok := samples.Position(labels.Entry{0, 1})  // 1, true
package labels

import (
	"github.com/labtensor-ml/labtensor/internal/labels"
)

// Type aliases for public API

// Entry is a single row of a Labels set: one int32 value per column.
type Entry = labels.Entry

// Labels is an immutable, ordered set of named integer tuples.
type Labels = labels.Labels

// Builder assembles a Labels set incrementally, deduplicating entries.
type Builder = labels.Builder

// Errors returned by this package; match with errors.Is.
var (
	ErrInvalidLabels      = labels.ErrInvalidLabels
	ErrIncompatibleLabels = labels.ErrIncompatibleLabels
)

// New creates a Labels set with the given column names and entries.
func New(names []string, entries []Entry) (Labels, error) {
	return labels.New(names, entries)
}

// MustNew is like New but panics on error. It is intended for
// statically known label sets, typically in tests.
func MustNew(names []string, entries []Entry) Labels {
	return labels.MustNew(names, entries)
}

// Empty creates a Labels set with the given column names and no
// entries.
func Empty(names ...string) (Labels, error) {
	return labels.Empty(names...)
}

// NewBuilder creates a Builder for Labels with the given column names.
func NewBuilder(names ...string) *Builder {
	return labels.NewBuilder(names...)
}
