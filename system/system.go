// Copyright 2026 Labtensor ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package system provides the public API for atomic structures in the
// Labtensor framework: positions, species, a unit cell and an on-demand
// neighbor list, opaque to the tensor core beyond enumeration.
package system

import (
	"github.com/labtensor-ml/labtensor/internal/system"
)

// Type aliases for public API

// Vector3D is a position or displacement in Cartesian coordinates.
type Vector3D = system.Vector3D

// Pair is one entry of a half neighbor list.
type Pair = system.Pair

// UnitCell describes the periodic cell of a structure.
type UnitCell = system.UnitCell

// System is a single atomic structure.
type System = system.System

// SimpleSystem is a basic System implementation to use when no other is
// available.
type SimpleSystem = system.SimpleSystem

// NewSimpleSystem creates an empty system with the given unit cell.
func NewSimpleSystem(cell UnitCell) *SimpleSystem {
	return system.NewSimpleSystem(cell)
}

// Cubic returns a cubic unit cell with the given side length.
func Cubic(a float64) UnitCell {
	return system.Cubic(a)
}

// Infinite returns a non-periodic cell.
func Infinite() UnitCell {
	return system.Infinite()
}
