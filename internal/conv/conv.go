// Package conv applies FIR kernels to sampled signals.
//
// ConvolveSame follows the numpy "same" convention: the full linear
// convolution, cropped to the longer input and centered with offset
// (m-1)/2 for a shorter input of length m.
package conv

import (
	"github.com/tphakala/go-cic-model/internal/filter"
	"github.com/tphakala/go-cic-model/internal/signal"
)

// ConvolveSame returns the centered part of the linear convolution of x and
// h, of length max(len(x), len(h)). Samples outside the inputs are zero.
// An empty input yields a zero slice.
func ConvolveSame(x, h []float64) []float64 {
	if len(h) > len(x) {
		x, h = h, x
	}
	n, m := len(x), len(h)
	out := make([]float64, n)
	if n == 0 || m == 0 {
		return out
	}

	left := m / 2
	padded := make([]float64, n+m-1)
	copy(padded[left:], x)

	reversed := make([]float64, m)
	for i, v := range h {
		reversed[m-1-i] = v
	}

	correlateValid(out, padded, reversed)
	return out
}

// Apply filters sig with kernel centered over each sample: output i is
// full[i+(m-1)/2] for a kernel of length m, whichever input is longer.
// The result shares the input's rate and a copy of its time axis.
func Apply(sig signal.Signal, kernel []float64) signal.Signal {
	n, m := sig.Len(), len(kernel)
	out := ConvolveSame(sig.Samples, kernel)
	if m > n {
		// ConvolveSame centered on the signal; shift to the kernel's center.
		start := (m-1)/2 - (n-1)/2
		out = out[start : start+n]
	}
	return sig.WithSamples(out)
}

// ApplyResponse filters sig with the sampled CIC response used directly as
// an FIR kernel. For a real signal the real part of the complex
// convolution equals the convolution with Re(H), so only the real kernel
// is evaluated.
func ApplyResponse(sig signal.Signal, resp filter.FrequencyResponse) signal.Signal {
	return Apply(sig, resp.RealKernel())
}
