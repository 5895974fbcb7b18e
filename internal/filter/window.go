package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-cic-model/internal/mathutil"
)

// WindowKind identifies a symmetric tapering window.
type WindowKind int

const (
	// WindowHamming is the default window of frequency-sampled design.
	WindowHamming WindowKind = iota

	// WindowKaiser uses Window.Beta.
	WindowKaiser

	// WindowRectangular applies no tapering.
	WindowRectangular
)

// Window selects a window and its shape parameter.
type Window struct {
	Kind WindowKind

	// Beta is the Kaiser β (ignored by other kinds).
	Beta float64
}

// KaiserFor returns a Kaiser window sized for the given stopband
// attenuation in dB (Kaiser & Schafer β formula).
func KaiserFor(attenuation float64) Window {
	return Window{Kind: WindowKaiser, Beta: mathutil.KaiserBeta(attenuation)}
}

// Coefficients returns the symmetric window of the given length.
func (w Window) Coefficients(length int) ([]float64, error) {
	switch w.Kind {
	case WindowHamming:
		return HammingWindow(length), nil
	case WindowKaiser:
		return KaiserWindow(length, w.Beta), nil
	case WindowRectangular:
		out := make([]float64, max(length, 0))
		for i := range out {
			out[i] = 1
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown window kind %d", ErrInvalidSpec, w.Kind)
	}
}

// KaiserWindow generates a Kaiser window of the specified length and β parameter.
//
//	w[n] = I₀(β·sqrt(1 - ((n - α)/α)²)) / I₀(β),  α = (length-1)/2
//
// The window is symmetric, w[i] = w[length-1-i], with a peak of 1 at the
// center.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = sincCenterTap
		return window
	}

	alpha := float64(length-1) / windowNormalizationFactor
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(1.0-x*x)) / i0Beta
	}

	return window
}

// HammingWindow generates the symmetric Hamming window
// w[n] = 0.54 - 0.46·cos(2πn/(length-1)).
func HammingWindow(length int) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = sincCenterTap
		return window
	}

	denom := float64(length - 1)
	for n := range length {
		window[n] = hammingAlpha - hammingBeta*math.Cos(2*math.Pi*float64(n)/denom)
	}

	return window
}
