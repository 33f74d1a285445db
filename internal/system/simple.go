package system

import (
	"fmt"
	"sync"
)

// SimpleSystem is a basic System implementation to use when no other is
// available, typically in tests and examples.
//
// The neighbor list methods are safe for concurrent use: one system is
// shared by every per-key kernel invocation during a parallel compute.
type SimpleSystem struct {
	cell      UnitCell
	species   []int32
	positions []Vector3D

	mu        sync.Mutex
	neighbors *neighborList
}

// NewSimpleSystem creates an empty system with the given unit cell.
func NewSimpleSystem(cell UnitCell) *SimpleSystem {
	return &SimpleSystem{cell: cell}
}

// AddAtom adds an atom with the given species and position.
func (s *SimpleSystem) AddAtom(species int32, position Vector3D) {
	s.species = append(s.species, species)
	s.positions = append(s.positions, position)
	// any change to the atoms invalidates the neighbor list
	s.mu.Lock()
	s.neighbors = nil
	s.mu.Unlock()
}

// Size returns the number of atoms.
func (s *SimpleSystem) Size() int {
	return len(s.species)
}

// Species returns the atomic species, one per atom.
func (s *SimpleSystem) Species() []int32 {
	return s.species
}

// Positions returns the atom positions, one per atom.
func (s *SimpleSystem) Positions() []Vector3D {
	return s.positions
}

// Cell returns the unit cell.
func (s *SimpleSystem) Cell() UnitCell {
	return s.cell
}

// ComputeNeighbors computes the neighbor list for the given cutoff,
// reusing the cached list when the cutoff is unchanged.
func (s *SimpleSystem) ComputeNeighbors(cutoff float64) error {
	if cutoff <= 0 {
		return fmt.Errorf("invalid cutoff: %v (must be > 0)", cutoff)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.neighbors != nil && s.neighbors.cutoff == cutoff {
		return nil
	}
	s.neighbors = newNeighborList(s.positions, cutoff)
	return nil
}

// Pairs returns the half neighbor list for the last computed cutoff.
// ComputeNeighbors must have been called first.
func (s *SimpleSystem) Pairs() []Pair {
	return s.mustNeighbors().pairs
}

// PairsContaining returns all pairs involving the given atom.
// ComputeNeighbors must have been called first.
func (s *SimpleSystem) PairsContaining(center int) []Pair {
	return s.mustNeighbors().byCenter[center]
}

// mustNeighbors snapshots the current list; a neighborList is immutable
// once built, so the caller can use it without holding the lock.
func (s *SimpleSystem) mustNeighbors() *neighborList {
	s.mu.Lock()
	nl := s.neighbors
	s.mu.Unlock()
	if nl == nil {
		panic("system: neighbor list is not initialized, call ComputeNeighbors first")
	}
	return nl
}
