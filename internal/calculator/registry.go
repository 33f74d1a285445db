package calculator

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a calculator plugin from its hyperparameters, given
// as a JSON string. Malformed parameters fail with an error wrapping
// ErrInvalidParameters.
type Factory func(parameters string) (Base, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a calculator available to New under the given name.
// It panics if the name is already taken; registration happens at init
// time and a collision is a programmer error.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("calculator: %q registered twice", name))
	}
	registry[name] = factory
}

// Registered returns the names of all registered calculators, sorted.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a Calculator from a registered name and its
// hyperparameters. Unknown names fail with ErrInvalidParameters.
func New(name, parameters string) (*Calculator, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown calculator %q", ErrInvalidParameters, name)
	}
	base, err := factory(parameters)
	if err != nil {
		return nil, err
	}
	return From(base), nil
}
