// Package system describes atomic structures as seen by calculators:
// atom positions, species, a unit cell and an on-demand neighbor list.
package system

import "math"

// Vector3D is a position or displacement in Cartesian coordinates.
type Vector3D [3]float64

// Add returns the element-wise sum of two vectors.
func (v Vector3D) Add(other Vector3D) Vector3D {
	return Vector3D{v[0] + other[0], v[1] + other[1], v[2] + other[2]}
}

// Sub returns the element-wise difference of two vectors.
func (v Vector3D) Sub(other Vector3D) Vector3D {
	return Vector3D{v[0] - other[0], v[1] - other[1], v[2] - other[2]}
}

// Norm returns the Euclidean length of the vector.
func (v Vector3D) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Pair is one entry of a half neighbor list: First < Second, and
// Distance is the distance between the two atoms.
type Pair struct {
	First    int
	Second   int
	Distance float64
}

// UnitCell describes the periodic cell of a structure. Only the cell
// extent is carried; neighbor search does not include periodic images.
type UnitCell struct {
	lengths  Vector3D
	infinite bool
}

// Cubic returns a cubic unit cell with the given side length.
func Cubic(a float64) UnitCell {
	return UnitCell{lengths: Vector3D{a, a, a}}
}

// Infinite returns a non-periodic cell.
func Infinite() UnitCell {
	return UnitCell{infinite: true}
}

// Lengths returns the cell side lengths. Zero for an infinite cell.
func (c UnitCell) Lengths() Vector3D {
	if c.infinite {
		return Vector3D{}
	}
	return c.lengths
}

// IsInfinite reports whether the cell is non-periodic.
func (c UnitCell) IsInfinite() bool {
	return c.infinite
}

// System is a single atomic structure, opaque to the tensor core beyond
// enumerating species, positions and neighbors.
type System interface {
	// Size returns the number of atoms in the system.
	Size() int
	// Species returns the atomic species, one per atom. Read-only.
	Species() []int32
	// Positions returns the atom positions, one per atom. Read-only.
	Positions() []Vector3D
	// Cell returns the unit cell.
	Cell() UnitCell
	// ComputeNeighbors makes sure the neighbor list for the given cutoff
	// is available before calling Pairs or PairsContaining.
	ComputeNeighbors(cutoff float64) error
	// Pairs returns the half neighbor list (First < Second) for the last
	// computed cutoff.
	Pairs() []Pair
	// PairsContaining returns all pairs involving the given atom.
	PairsContaining(center int) []Pair
}
