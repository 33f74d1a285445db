package calculator

import "github.com/labtensor-ml/labtensor/internal/parallel"

// Options controls a single compute call.
//
// The zero value computes the full natural layout, without gradients,
// sequentially.
type Options struct {
	// Gradients names the origins (e.g. "positions") to compute
	// gradients for. Origins the calculator does not support fail the
	// call with ErrInvalidParameters.
	Gradients []string

	// SelectedSamples restricts which samples are computed. nil means
	// All.
	SelectedSamples LabelsSelection

	// SelectedProperties restricts which properties are computed. nil
	// means All.
	SelectedProperties LabelsSelection

	// Parallel controls per-key fan-out across worker goroutines. The
	// zero value runs keys sequentially; use parallel.DefaultConfig to
	// use all CPUs.
	Parallel parallel.Config
}
