package filter

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/go-cic-model/internal/mathutil"
	"gonum.org/v1/gonum/floats"
)

// defaultFIRResponsePoints is used when ComputeFrequencyResponse is asked for
// a non-positive number of points.
const defaultFIRResponsePoints = 512

// FilterResponse holds the frequency response of a FIR filter.
type FilterResponse struct {
	// Frequencies at which response was calculated (normalized, 0 to 0.5)
	Frequencies []float64

	// Magnitude response at each frequency (linear scale)
	Magnitude []float64

	// Phase response at each frequency (radians)
	Phase []float64
}

// ComputeFrequencyResponse calculates the frequency response of a FIR filter
// by evaluating its DTFT at numPoints frequencies in [0, 0.5) cycles/sample.
func ComputeFrequencyResponse(coeffs []float64, numPoints int) FilterResponse {
	if numPoints <= 0 {
		numPoints = defaultFIRResponsePoints
	}

	response := FilterResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	for k := range numPoints {
		freq := float64(k) / (windowNormalizationFactor * float64(numPoints))
		response.Frequencies[k] = freq

		h := evaluateFIR(coeffs, 2*math.Pi*freq)
		response.Magnitude[k] = cmplx.Abs(h)
		response.Phase[k] = cmplx.Phase(h)
	}

	return response
}

// MagnitudeAt returns |H(e^jω)| of a FIR at a normalized frequency in
// cycles/sample.
func MagnitudeAt(coeffs []float64, freq float64) float64 {
	return cmplx.Abs(evaluateFIR(coeffs, 2*math.Pi*freq))
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	const minMagnitude = 1e-10 // Avoid log(0)
	return mathutil.ToDB(magnitude, minMagnitude)
}

// CascadeResponse returns the magnitude of a DC-normalized CIC response
// followed by a FIR running at the same rate, evaluated at the CIC's own
// angles θ_k = π·k/(n-1). The result is floored at MagnitudeFloor.
func CascadeResponse(cic FrequencyResponse, spec CICSpec, coeffs []float64) []float64 {
	normalized := NormalizeDC(cic, spec).Magnitude()
	thetas := mathutil.Linspace(0, math.Pi, len(normalized), true)

	out := make([]float64, len(normalized))
	for k, theta := range thetas {
		out[k] = math.Max(normalized[k]*cmplx.Abs(evaluateFIR(coeffs, theta)), MagnitudeFloor)
	}
	return out
}

// PassbandDroopDB returns the attenuation in dB of a DC-normalized CIC
// response at the highest frequency not exceeding edgeHz. A positive value
// means the passband edge sits below DC.
func PassbandDroopDB(cic FrequencyResponse, spec CICSpec, edgeHz float64) float64 {
	mag := NormalizeDC(cic, spec).Magnitude()
	if len(mag) == 0 {
		return 0
	}

	idx := 0
	for i, f := range cic.Frequencies {
		if f > edgeHz {
			break
		}
		idx = i
	}

	return -mathutil.ToDB(mag[idx], MagnitudeFloor)
}

// PeakGainDB returns the largest floored magnitude of a response in dB.
func PeakGainDB(resp FrequencyResponse) float64 {
	mag := resp.Magnitude()
	if len(mag) == 0 {
		return mathutil.ToDB(MagnitudeFloor, MagnitudeFloor)
	}
	return mathutil.ToDB(floats.Max(mag), MagnitudeFloor)
}

// evaluateFIR computes H(e^jω) = Σ h[n]·e^(-jωn).
func evaluateFIR(coeffs []float64, omega float64) complex128 {
	var realPart, imagPart float64
	for n, h := range coeffs {
		angle := omega * float64(n)
		realPart += h * math.Cos(angle)
		imagPart -= h * math.Sin(angle)
	}
	return complex(realPart, imagPart)
}
