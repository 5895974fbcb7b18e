package conv

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT correlation constants.
const (
	// Minimum kernel length to use the FFT path (below this, direct is faster).
	// The crossover with gonum's FFT sits around 400-500 taps; the CIC
	// response kernels (1024+ points) always take the FFT path.
	minKernelForFFT = 400

	// Default FFT block size (power of 2 for efficiency)
	defaultFFTBlockSize = 512

	// fftHermitianDivisor is used to calculate unique frequency bins in real FFT.
	// A real FFT of size N has N/2 + 1 unique complex coefficients.
	fftHermitianDivisor = 2
)

// FFTConvolver computes valid-mode sliding dot products against a fixed
// kernel with the overlap-save method:
//
//	dst[i] = Σ_j signal[i+j]·kernel[j],  i = 0..len(signal)-len(kernel)
//
// This matches f64.ConvolveValid, so callers wanting a true convolution
// pass a reversed kernel to either path.
type FFTConvolver struct {
	fft       *fourier.FFT
	fftSize   int
	blockSize int // valid outputs per block = fftSize - kernelLen + 1

	kernelFFT []complex128
	kernelLen int
	scale     float64 // 1/fftSize, gonum's inverse transform is unnormalized

	signalBlock []float64
	signalFFT   []complex128
	productFFT  []complex128
	ifftResult  []float64
}

// NewFFTConvolver transforms kernel once for reuse across calls.
// It returns nil for an empty kernel.
func NewFFTConvolver(kernel []float64) *FFTConvolver {
	kernelLen := len(kernel)
	if kernelLen == 0 {
		return nil
	}

	fftSize := defaultFFTBlockSize
	for fftSize < 2*kernelLen {
		fftSize *= 2
	}

	fft := fourier.NewFFT(fftSize)

	// Circular convolution against the reversed kernel yields the sliding
	// dot product in the last blockSize outputs of each block.
	kernelPadded := make([]float64, fftSize)
	for i := range kernelLen {
		kernelPadded[i] = kernel[kernelLen-1-i]
	}

	fftLen := fftSize/fftHermitianDivisor + 1

	return &FFTConvolver{
		fft:         fft,
		fftSize:     fftSize,
		blockSize:   fftSize - kernelLen + 1,
		kernelFFT:   fft.Coefficients(nil, kernelPadded),
		kernelLen:   kernelLen,
		scale:       1.0 / float64(fftSize),
		signalBlock: make([]float64, fftSize),
		signalFFT:   make([]complex128, fftLen),
		productFFT:  make([]complex128, fftLen),
		ifftResult:  make([]float64, fftSize),
	}
}

// KernelLen returns the kernel length the convolver was built for.
func (c *FFTConvolver) KernelLen() int {
	return c.kernelLen
}

// Convolve fills dst[:len(signal)-kernelLen+1]. It does nothing when the
// signal is shorter than the kernel or dst is too short.
func (c *FFTConvolver) Convolve(dst, signal []float64) {
	signalLen := len(signal)
	outputLen := signalLen - c.kernelLen + 1
	if outputLen <= 0 || len(dst) < outputLen {
		return
	}

	overlap := c.kernelLen - 1
	for outIdx := 0; outIdx < outputLen; {
		clear(c.signalBlock)
		copyLen := min(c.fftSize, signalLen-outIdx)
		copy(c.signalBlock, signal[outIdx:outIdx+copyLen])

		c.signalFFT = c.fft.Coefficients(c.signalFFT, c.signalBlock)
		c128.Mul(c.productFFT, c.signalFFT, c.kernelFFT)
		c.ifftResult = c.fft.Sequence(c.ifftResult, c.productFFT)
		f64.Scale(c.ifftResult, c.ifftResult, c.scale)

		valid := min(c.blockSize, outputLen-outIdx)
		copy(dst[outIdx:outIdx+valid], c.ifftResult[overlap:overlap+valid])
		outIdx += valid
	}
}

// correlateValid dispatches between SIMD direct and FFT evaluation of the
// valid-mode sliding dot product.
func correlateValid(dst, signal, kernel []float64) {
	if len(kernel) < minKernelForFFT {
		f64.ConvolveValid(dst, signal, kernel)
		return
	}

	if c := NewFFTConvolver(kernel); c != nil {
		c.Convolve(dst, signal)
	}
}
