package filter

import "fmt"

// PolyphaseBank is the integer-ratio polyphase decomposition of a FIR
// prototype running at the high (interpolated) rate.
//
// Branch p holds taps h[p], h[p+R], h[p+2R], ... so that output sample
// y[n·R + p] = Σ_k x[n-k]·h[k·R + p]. Taps are stored in REVERSED order,
// which lets a branch be applied directly with a valid-mode correlation.
type PolyphaseBank struct {
	// Branches holds one reversed, zero-padded sub-filter per phase.
	Branches [][]float64

	// Phases is the interpolation factor R.
	Phases int

	// TapsPerPhase is ⌈len(prototype)/R⌉.
	TapsPerPhase int

	// TotalTaps is the prototype length before decomposition.
	TotalTaps int
}

// DecomposePolyphase splits prototype into phases branches. Branches are
// zero-padded to a common length.
func DecomposePolyphase(prototype []float64, phases int) (*PolyphaseBank, error) {
	if phases < 1 {
		return nil, fmt.Errorf("%w: phase count must be >= 1, got %d", ErrInvalidSpec, phases)
	}
	if len(prototype) == 0 {
		return nil, fmt.Errorf("%w: empty prototype", ErrInvalidSpec)
	}

	tapsPerPhase := (len(prototype) + phases - 1) / phases
	bank := &PolyphaseBank{
		Branches:     make([][]float64, phases),
		Phases:       phases,
		TapsPerPhase: tapsPerPhase,
		TotalTaps:    len(prototype),
	}

	for phase := range phases {
		branch := make([]float64, tapsPerPhase)
		for tap := range tapsPerPhase {
			idx := tap*phases + phase
			if idx < len(prototype) {
				branch[tapsPerPhase-1-tap] = prototype[idx]
			}
		}
		bank.Branches[phase] = branch
	}

	return bank, nil
}

// BranchDCGain returns the sum of the taps in one branch. For a CIC
// prototype every branch sums to (R·M)^N / R.
func (b *PolyphaseBank) BranchDCGain(phase int) float64 {
	var sum float64
	for _, c := range b.Branches[phase] {
		sum += c
	}
	return sum
}
