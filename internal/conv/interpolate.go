package conv

import (
	"fmt"

	"github.com/tphakala/go-cic-model/internal/filter"
	"github.com/tphakala/simd/f64"
)

// interleavePair is the phase count served by f64.Interleave2.
const interleavePair = 2

// Interpolator is a floating-point behavioral model of a CIC interpolator:
// zero-stuffing by R followed by the CIC impulse response, evaluated in
// polyphase form. It is not bit-accurate and carries the filter's
// passband gain (R·M)^N / R.
type Interpolator struct {
	spec filter.CICSpec
	bank *filter.PolyphaseBank
}

// NewInterpolator validates spec and decomposes its impulse response.
func NewInterpolator(spec filter.CICSpec) (*Interpolator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	bank, err := filter.DecomposePolyphase(filter.CICImpulseResponse(spec), spec.Rate)
	if err != nil {
		return nil, fmt.Errorf("failed to decompose CIC impulse response: %w", err)
	}

	return &Interpolator{spec: spec, bank: bank}, nil
}

// Gain returns the DC gain seen at the interpolator output.
func (ip *Interpolator) Gain() float64 {
	return ip.spec.DCGain() / float64(ip.spec.Rate)
}

// Process returns len(x)·R output samples. Output sample n·R+p is
// Σ_k x[n-k]·h[k·R+p] with x taken as zero before its first sample.
func (ip *Interpolator) Process(x []float64) []float64 {
	n := len(x)
	phases := ip.bank.Phases
	if n == 0 {
		return []float64{}
	}

	history := make([]float64, n+ip.bank.TapsPerPhase-1)
	copy(history[ip.bank.TapsPerPhase-1:], x)

	phaseOut := make([][]float64, phases)
	for p := range phaseOut {
		phaseOut[p] = make([]float64, n)
	}
	f64.ConvolveValidMulti(phaseOut, history, ip.bank.Branches)

	out := make([]float64, n*phases)
	if phases == interleavePair {
		f64.Interleave2(out, phaseOut[0], phaseOut[1])
		return out
	}
	for i := range n {
		for p := range phases {
			out[i*phases+p] = phaseOut[p][i]
		}
	}
	return out
}

// Interpolate is a one-shot Interpolator.Process.
func Interpolate(x []float64, spec filter.CICSpec) ([]float64, error) {
	ip, err := NewInterpolator(spec)
	if err != nil {
		return nil, err
	}
	return ip.Process(x), nil
}
