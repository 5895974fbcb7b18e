// Package mathutil provides the numeric helpers shared by the filter model packages.
package mathutil

import (
	"math"
)

// BesselI0 computes the modified Bessel function of the first kind, order zero: I₀(x).
// This function is used in Kaiser window calculation for filter design.
//
// The implementation uses Chebyshev polynomial approximations for numerical stability:
//   - For |x| ≤ 3.75: Direct polynomial series expansion
//   - For |x| > 3.75: Asymptotic expansion with exponential scaling
//
// Accuracy: ~7 significant digits, enough for window design.
//
// Reference: Abramowitz & Stegun, "Handbook of Mathematical Functions"
func BesselI0(x float64) float64 {
	// Use absolute value since I₀(x) = I₀(-x)
	ax := math.Abs(x)

	// For small arguments, use polynomial approximation
	if ax < besselSmallArgThreshold {
		// I₀(x) ≈ 1 + (x/2)² * P(t) where t = (x/3.75)²
		t := x / besselSmallArgThreshold
		t *= t

		// Polynomial coefficients (Chebyshev approximation)
		return 1.0 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	// For larger arguments, use asymptotic expansion
	// I₀(x) ≈ (eˣ / √(2πx)) * P(t) where t = 3.75/x
	t := besselSmallArgThreshold / ax

	// Polynomial approximation for the scaled function
	// Result = exp(x) * P(t) / sqrt(x)
	result := besselI0AsympCoeff0 + t*(besselI0AsympCoeff1+t*(besselI0AsympCoeff2+
		t*(besselI0AsympCoeff3+t*(besselI0AsympCoeff4+t*(besselI0AsympCoeff5+
			t*(besselI0AsympCoeff6+t*(besselI0AsympCoeff7+t*besselI0AsympCoeff8)))))))

	// Scale by exp(x) / sqrt(x)
	return math.Exp(ax) * result / math.Sqrt(ax)
}

// KaiserBeta computes the Kaiser window β parameter from the desired
// stopband attenuation in decibels.
//
// The β parameter controls the trade-off between main lobe width and
// sidelobe level in the Kaiser window.
//
// Formula from Kaiser & Schafer:
//   - For att > 50 dB: β = 0.1102 * (att - 8.7)
//   - For 21 dB < att ≤ 50 dB: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//   - For att ≤ 21 dB: β = 0
//
// Parameters:
//
//	attenuation: Desired stopband attenuation in dB (typically 50-150 dB)
//
// Returns:
//
//	β parameter for Kaiser window (typically 0-15)
func KaiserBeta(attenuation float64) float64 {
	if attenuation > kaiserAttHigh {
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	} else if attenuation >= kaiserAttMedium {
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	}
	return 0.0
}
