// Package spectrum computes single-sided amplitude spectra of sampled
// signals.
package spectrum

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/tphakala/go-cic-model/internal/mathutil"
	"github.com/tphakala/go-cic-model/internal/signal"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// DisplayFloor is the smallest magnitude reported by MagnitudeDB.
const DisplayFloor = 1e-12

// ErrInvalidSize is returned for an FFT length that is not a power of two
// of at least 2.
var ErrInvalidSize = errors.New("spectrum: invalid FFT size")

// Spectrum is the one-sided amplitude spectrum over [0, rate/2).
type Spectrum struct {
	// Frequencies in Hz, f_k = k·rate/nfft.
	Frequencies []float64

	// Magnitude is |X_k|/(nfft/2), so a full-scale sine bin reads its
	// amplitude.
	Magnitude []float64
}

// Len returns the number of bins (nfft/2).
func (s Spectrum) Len() int {
	return len(s.Magnitude)
}

// Analyze transforms the first nfft samples of sig, zero-padding a shorter
// signal. No window is applied.
func Analyze(sig signal.Signal, nfft int) (Spectrum, error) {
	if nfft < 2 || !mathutil.IsPowerOfTwo(nfft) {
		return Spectrum{}, fmt.Errorf("%w: %d is not a power of two >= 2", ErrInvalidSize, nfft)
	}

	block := make([]float64, nfft)
	copy(block, sig.Samples)

	coeffs := fourier.NewFFT(nfft).Coefficients(nil, block)

	half := nfft / 2
	out := Spectrum{
		Frequencies: make([]float64, half),
		Magnitude:   make([]float64, half),
	}
	for k := range half {
		out.Frequencies[k] = float64(k) * sig.SampleRate / float64(nfft)
		out.Magnitude[k] = cmplx.Abs(coeffs[k])
	}
	floats.Scale(1/float64(half), out.Magnitude)

	return out, nil
}

// MagnitudeDB returns 20·log10 of each bin, floored at DisplayFloor.
func (s Spectrum) MagnitudeDB() []float64 {
	out := make([]float64, len(s.Magnitude))
	for i, m := range s.Magnitude {
		out[i] = mathutil.ToDB(m, DisplayFloor)
	}
	return out
}

// Peak returns the frequency and magnitude of the largest bin.
func (s Spectrum) Peak() (freqHz, magnitude float64) {
	if s.Len() == 0 {
		return 0, 0
	}
	idx := floats.MaxIdx(s.Magnitude)
	return s.Frequencies[idx], s.Magnitude[idx]
}

// At returns the magnitude of the bin nearest to freqHz.
func (s Spectrum) At(freqHz float64) float64 {
	if s.Len() < 2 {
		if s.Len() == 0 {
			return 0
		}
		return s.Magnitude[0]
	}
	step := s.Frequencies[1] - s.Frequencies[0]
	idx := int(freqHz/step + 0.5)
	idx = max(0, min(idx, s.Len()-1))
	return s.Magnitude[idx]
}

// BandPeak returns the largest magnitude among bins within [lo, hi] Hz.
func (s Spectrum) BandPeak(lo, hi float64) float64 {
	var peak float64
	for i, f := range s.Frequencies {
		if f >= lo && f <= hi && s.Magnitude[i] > peak {
			peak = s.Magnitude[i]
		}
	}
	return peak
}
