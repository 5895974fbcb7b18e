package filter

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-cic-model/internal/mathutil"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// DesignFrequencySampled designs a linear-phase FIR by frequency sampling:
// the piecewise-linear gain curve (freq, gain) is sampled on a dense grid,
// given a linear phase of (numTaps-1)/2 samples, inverse transformed and
// tapered by window.
//
// Frequencies are normalized so that 1 is the Nyquist frequency. freq must
// start at 0, end at 1 and be non-decreasing; a frequency may appear twice
// to describe a step. Even-length filters must have zero gain at Nyquist.
//
// The dense grid has 1 + 2^⌈log2(numTaps)⌉ points, which reproduces the
// usual firwin2 design.
func DesignFrequencySampled(numTaps int, freq, gain []float64, window Window) ([]float64, error) {
	if err := validateFrequencySampled(numTaps, freq, gain); err != nil {
		return nil, err
	}

	nfreqs := 1 + mathutil.NextPowerOfTwo(numTaps)
	grid := mathutil.Linspace(0, 1, nfreqs, true)
	knots := separateSteps(freq)

	delay := float64(numTaps-1) / windowNormalizationFactor
	spectrum := make([]complex128, nfreqs)
	for i, x := range grid {
		shift := cmplx.Rect(1, -delay*math.Pi*x)
		spectrum[i] = complex(interpolateLinear(x, knots, gain), 0) * shift
	}

	fftSize := 2 * (nfreqs - 1)
	fft := fourier.NewFFT(fftSize)
	full := fft.Sequence(nil, spectrum)
	floats.Scale(1/float64(fftSize), full)

	taper, err := window.Coefficients(numTaps)
	if err != nil {
		return nil, err
	}

	taps := make([]float64, numTaps)
	floats.MulTo(taps, full[:numTaps], taper)
	return taps, nil
}

func validateFrequencySampled(numTaps int, freq, gain []float64) error {
	if numTaps < minFrequencySampledTaps {
		return fmt.Errorf("%w: numTaps must be >= %d, got %d", ErrInvalidSpec, minFrequencySampledTaps, numTaps)
	}
	if len(freq) != len(gain) {
		return fmt.Errorf("%w: freq and gain lengths differ (%d vs %d)", ErrInvalidSpec, len(freq), len(gain))
	}
	if len(freq) < 2 {
		return fmt.Errorf("%w: at least two frequency points are required", ErrInvalidSpec)
	}
	if freq[0] != 0 || freq[len(freq)-1] != 1 {
		return fmt.Errorf("%w: freq must start at 0 and end at 1 (Nyquist)", ErrInvalidSpec)
	}
	for i := 1; i < len(freq); i++ {
		if freq[i] < freq[i-1] {
			return fmt.Errorf("%w: freq must be non-decreasing", ErrInvalidSpec)
		}
		if i >= 2 && freq[i] == freq[i-2] {
			return fmt.Errorf("%w: a frequency may appear at most twice", ErrInvalidSpec)
		}
	}
	if freq[1] == 0 || freq[len(freq)-2] == 1 {
		return fmt.Errorf("%w: steps are not allowed at 0 or Nyquist", ErrInvalidSpec)
	}
	if numTaps%2 == 0 && gain[len(gain)-1] != 0 {
		return fmt.Errorf("%w: even-length filters must have zero gain at Nyquist", ErrInvalidSpec)
	}
	return nil
}

// separateSteps nudges repeated frequencies apart so that a step becomes a
// very steep ramp. The input is not modified.
func separateSteps(freq []float64) []float64 {
	out := append([]float64(nil), freq...)
	for i := 1; i < len(out)-2; i++ {
		if out[i] == out[i+1] {
			out[i] -= firwinEdgeEpsilon
			out[i+1] += firwinEdgeEpsilon
		}
	}
	return out
}

// interpolateLinear evaluates the piecewise-linear curve through
// (xp[i], fp[i]) at x, clamping outside the knots.
func interpolateLinear(x float64, xp, fp []float64) float64 {
	if x <= xp[0] {
		return fp[0]
	}
	last := len(xp) - 1
	if x >= xp[last] {
		return fp[last]
	}
	for i := 1; i <= last; i++ {
		if x <= xp[i] {
			span := xp[i] - xp[i-1]
			if span == 0 {
				return fp[i]
			}
			t := (x - xp[i-1]) / span
			return fp[i-1] + t*(fp[i]-fp[i-1])
		}
	}
	return fp[last]
}
