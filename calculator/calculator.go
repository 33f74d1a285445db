// Copyright 2026 Labtensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package calculator provides the public API for running descriptor
// computations in the Labtensor framework.
//
// A Calculator wraps a named plugin (e.g. "sorted_distances") created
// from JSON hyperparameters, and computes a TensorMap over a set of
// systems. Selections restrict which samples and properties are
// computed:
//
//	calc, err := calculator.New("sorted_distances",
//	    `{"cutoff": 3.5, "max_neighbors": 4}`)
//	descriptor, err := calc.Compute(systems, calculator.Options{
//	    SelectedSamples: calculator.Subset(wanted),
//	})
package calculator

import (
	"github.com/labtensor-ml/labtensor/internal/calculator"
	"github.com/labtensor-ml/labtensor/internal/labels"
	"github.com/labtensor-ml/labtensor/internal/parallel"
	"github.com/labtensor-ml/labtensor/internal/tensormap"
)

// Type aliases for public API

// Calculator wraps a calculator plugin and runs the full computation
// protocol.
type Calculator = calculator.Calculator

// Base is the interface implemented by calculator plugins.
type Base = calculator.Base

// Factory creates a calculator plugin from its JSON hyperparameters.
type Factory = calculator.Factory

// Options controls a single compute call.
type Options = calculator.Options

// LabelsSelection restricts which samples or properties a compute call
// produces: All, Subset or Predefined.
type LabelsSelection = calculator.LabelsSelection

// ParallelConfig controls per-key fan-out across worker goroutines.
type ParallelConfig = parallel.Config

// Errors returned by this package; match with errors.Is.
var (
	ErrInvalidParameters = calculator.ErrInvalidParameters
	ErrInvalidSelection  = calculator.ErrInvalidSelection
)

// New creates a Calculator from a registered name and its JSON
// hyperparameters.
func New(name, parameters string) (*Calculator, error) {
	return calculator.New(name, parameters)
}

// From wraps an existing plugin implementation.
func From(base Base) *Calculator {
	return calculator.From(base)
}

// Register makes a calculator available to New under the given name.
func Register(name string, factory Factory) {
	calculator.Register(name, factory)
}

// Registered returns the names of all registered calculators, sorted.
func Registered() []string {
	return calculator.Registered()
}

// All selects the calculator's full natural layout.
func All() LabelsSelection {
	return calculator.All()
}

// Subset selects the natural entries matching the given Labels, in the
// given Labels' order.
func Subset(l labels.Labels) LabelsSelection {
	return calculator.Subset(l)
}

// Predefined takes the sample or property Labels verbatim from the
// matching block of the given TensorMap.
func Predefined(tm *tensormap.TensorMap) LabelsSelection {
	return calculator.Predefined(tm)
}

// DefaultParallel returns a parallel configuration using all CPUs.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}
