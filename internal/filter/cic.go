// Package filter models the CIC interpolation filter and designs the FIR
// filters used to compensate its passband droop.
package filter

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-cic-model/internal/mathutil"
)

// CICSpec describes a cascaded-integrator-comb filter.
// It is a plain value and is never modified after construction.
type CICSpec struct {
	// Rate is the interpolation factor R.
	Rate int `yaml:"rate"`

	// DiffDelay is the differential delay M of each comb section.
	DiffDelay int `yaml:"diff_delay"`

	// Stages is the number of integrator/comb section pairs N.
	Stages int `yaml:"stages"`

	// ClockHz is the filter clock rate in Hz.
	ClockHz float64 `yaml:"clock_hz"`
}

// Validate checks that the filter orders are positive and the clock is
// a positive finite rate. Evaluate does not call it: evaluating an invalid
// spec is a caller error.
func (s CICSpec) Validate() error {
	if s.Rate < 1 {
		return fmt.Errorf("%w: interpolation factor R must be >= 1, got %d", ErrInvalidSpec, s.Rate)
	}
	if s.DiffDelay < 1 {
		return fmt.Errorf("%w: differential delay M must be >= 1, got %d", ErrInvalidSpec, s.DiffDelay)
	}
	if s.Stages < 1 {
		return fmt.Errorf("%w: section count N must be >= 1, got %d", ErrInvalidSpec, s.Stages)
	}
	if s.ClockHz <= 0 || math.IsNaN(s.ClockHz) || math.IsInf(s.ClockHz, 0) {
		return fmt.Errorf("%w: clock rate must be positive and finite, got %g", ErrInvalidSpec, s.ClockHz)
	}
	return nil
}

// CombLength returns R·M, the length of one comb's boxcar.
func (s CICSpec) CombLength() int {
	return s.Rate * s.DiffDelay
}

// DCGain returns (R·M)^N, the gain of the filter at zero frequency.
func (s CICSpec) DCGain() float64 {
	return math.Pow(float64(s.CombLength()), float64(s.Stages))
}

// FrequencyAxis selects the Hz scale attached to the evaluation grid.
type FrequencyAxis int

const (
	// AxisClock spans [0, f_clk/2].
	AxisClock FrequencyAxis = iota

	// AxisOutput spans [0, f_clk/(2R)].
	AxisOutput
)

// String returns the axis name used in configuration files.
func (a FrequencyAxis) String() string {
	switch a {
	case AxisClock:
		return "clock"
	case AxisOutput:
		return "output"
	default:
		return fmt.Sprintf("FrequencyAxis(%d)", int(a))
	}
}

// ParseFrequencyAxis maps "clock" or "output" to an axis. The empty string
// selects AxisClock.
func ParseFrequencyAxis(name string) (FrequencyAxis, error) {
	switch name {
	case "", "clock":
		return AxisClock, nil
	case "output":
		return AxisOutput, nil
	default:
		return AxisClock, fmt.Errorf("%w: unknown frequency axis %q", ErrInvalidSpec, name)
	}
}

// LimitPolicy selects how the removable singularity at z = 1 is resolved.
type LimitPolicy int

const (
	// LimitAnalytic reports the analytic limit (R·M)^N wherever the
	// denominator falls below SingularityThreshold. The denominator only
	// vanishes at z = 1, where the numerator vanishes too.
	LimitAnalytic LimitPolicy = iota

	// LimitClamp replaces a near-zero denominator by SingularityThreshold
	// and divides. At DC this reports 0, which Magnitude floors.
	LimitClamp
)

type evalConfig struct {
	axis   FrequencyAxis
	policy LimitPolicy
}

// EvalOption configures Evaluate.
type EvalOption func(*evalConfig)

// WithAxis sets the frequency axis scale.
func WithAxis(axis FrequencyAxis) EvalOption {
	return func(c *evalConfig) {
		c.axis = axis
	}
}

// WithLimitPolicy sets the singularity policy.
func WithLimitPolicy(policy LimitPolicy) EvalOption {
	return func(c *evalConfig) {
		c.policy = policy
	}
}

// FrequencyResponse holds complex gains sampled on the upper half of the
// unit circle, paired with their frequencies in Hz.
type FrequencyResponse struct {
	// Frequencies in Hz, ascending.
	Frequencies []float64

	// Gain is H(e^jθ) at each frequency.
	Gain []complex128
}

// Len returns the number of evaluation points.
func (r FrequencyResponse) Len() int {
	return len(r.Gain)
}

// Magnitude returns |H| floored at MagnitudeFloor.
func (r FrequencyResponse) Magnitude() []float64 {
	out := make([]float64, len(r.Gain))
	for i, g := range r.Gain {
		out[i] = math.Max(cmplx.Abs(g), MagnitudeFloor)
	}
	return out
}

// MagnitudeDB returns 20·log10 of the floored magnitude.
func (r FrequencyResponse) MagnitudeDB() []float64 {
	mag := r.Magnitude()
	for i, m := range mag {
		mag[i] = mathutil.ToDB(m, MagnitudeFloor)
	}
	return mag
}

// RealKernel returns Re(H) at each point, for use as a convolution kernel.
func (r FrequencyResponse) RealKernel() []float64 {
	out := make([]float64, len(r.Gain))
	for i, g := range r.Gain {
		out[i] = real(g)
	}
	return out
}

// Evaluate samples H(z) = (1 - z^(-R·M))^N / (1 - z^(-1))^N at
// θ_k = π·k/(points-1), k = 0..points-1.
//
// Denominators smaller than SingularityThreshold are resolved by the
// configured LimitPolicy; no error is ever returned. The spec is assumed
// valid (see CICSpec.Validate).
func Evaluate(spec CICSpec, points int, opts ...EvalOption) FrequencyResponse {
	cfg := evalConfig{axis: AxisClock, policy: LimitAnalytic}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if points <= 0 {
		return FrequencyResponse{Frequencies: []float64{}, Gain: []complex128{}}
	}

	nyquist := spec.ClockHz / nyquistDivisor
	if cfg.axis == AxisOutput {
		nyquist /= float64(spec.Rate)
	}

	resp := FrequencyResponse{
		Frequencies: mathutil.Linspace(0, nyquist, points, true),
		Gain:        make([]complex128, points),
	}

	thetas := mathutil.Linspace(0, math.Pi, points, true)
	combLen := float64(spec.CombLength())
	dcGain := complex(spec.DCGain(), 0)

	for k, theta := range thetas {
		num := mathutil.IntPow(1-cmplx.Rect(1, -combLen*theta), spec.Stages)
		den := mathutil.IntPow(1-cmplx.Rect(1, -theta), spec.Stages)

		if cmplx.Abs(den) < SingularityThreshold {
			if cfg.policy == LimitAnalytic {
				resp.Gain[k] = dcGain
				continue
			}
			den = complex(SingularityThreshold, 0)
		}

		resp.Gain[k] = num / den
	}

	return resp
}

// NormalizeDC divides a CIC response by its DC gain (R·M)^N so that the
// passband starts at unity. The input is not modified.
func NormalizeDC(resp FrequencyResponse, spec CICSpec) FrequencyResponse {
	scale := complex(1/spec.DCGain(), 0)

	out := FrequencyResponse{
		Frequencies: append([]float64(nil), resp.Frequencies...),
		Gain:        make([]complex128, len(resp.Gain)),
	}
	for i, g := range resp.Gain {
		out.Gain[i] = g * scale
	}
	return out
}

// CICImpulseResponse returns the impulse response of the CIC filter at the
// high rate: a length R·M boxcar convolved with itself N times. The taps
// are integers, the length is N·(R·M-1)+1 and the sum is (R·M)^N.
func CICImpulseResponse(spec CICSpec) []float64 {
	combLen := spec.CombLength()
	h := []float64{1}

	for range spec.Stages {
		next := make([]float64, len(h)+combLen-1)
		for i, v := range h {
			for j := range combLen {
				next[i+j] += v
			}
		}
		h = next
	}

	return h
}
