package filter

import "errors"

// Numerical guards for the CIC transfer function.
const (
	// SingularityThreshold is the denominator magnitude below which the
	// denominator is clamped before dividing.
	SingularityThreshold = 1e-9

	// MagnitudeFloor is the smallest magnitude ever reported, so that a
	// dB conversion never reaches -Inf.
	MagnitudeFloor = 1e-9

	// DefaultResponsePoints is the default evaluation grid size.
	DefaultResponsePoints = 1024
)

// Window and sinc design constants.
const (
	windowNormalizationFactor = 2.0
	nyquistDivisor            = 2.0
	sincCenterTap             = 1.0

	hammingAlpha = 0.54
	hammingBeta  = 0.46
)

// Frequency-sampling (firwin2) design constants.
const (
	minFrequencySampledTaps = 1
	firwinEdgeEpsilon       = 1e-12
)

// Remez exchange constants, matching the classic McClellan-Parks-Rabiner
// implementation.
const (
	// DefaultGridDensity is the number of grid points per extremal.
	DefaultGridDensity = 16

	// DefaultMaxIterations bounds the exchange loop.
	DefaultMaxIterations = 25

	// convergenceTolerance is the relative spread of |E| over the
	// extremal set below which the alternation is considered equiripple.
	convergenceTolerance = 1e-4

	// exactFitFloor is the unweighted band error at which the exchange
	// stops regardless of how level the error is.
	exactFitFloor = 1e-9

	// barycentricFloor clamps the barycentric denominator product.
	barycentricFloor = 1e-5

	// barycentricCoincidence is the distance under which a grid point is
	// treated as coinciding with an interpolation node.
	barycentricCoincidence = 1e-7

	// barycentricStrideDivisor spreads the product terms to limit
	// overflow, as in the reference implementation.
	barycentricStrideDivisor = 15

	minCompensatorTaps = 3
	maxCompensatorTaps = 4095

	// halfBand is the Nyquist frequency in cycles/sample.
	halfBand = 0.5
)

// Coefficient artifact format.
const (
	// CoefficientFormat renders one tap per line with 8 decimal digits.
	CoefficientFormat = "%.8f\n"

	// artifactFilePerm is the mode of written artifacts; temporary files
	// start out owner-only.
	artifactFilePerm = 0o644
)

// Errors returned by filter design and evaluation.
var (
	// ErrInvalidSpec reports out-of-range filter parameters.
	ErrInvalidSpec = errors.New("filter: invalid specification")

	// ErrNotConverged reports that equiripple synthesis could not reach an
	// alternating extremal set. Callers should revisit tap count, band
	// edges or weights; the design is never truncated or retried.
	ErrNotConverged = errors.New("synthesis did not converge")
)
