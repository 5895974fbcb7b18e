package cicmodel

// Default parameters of the R=10, M=1, N=3 interpolator.
const (
	defaultRate      = 10
	defaultDiffDelay = 1
	defaultStages    = 3
	defaultClockHz   = 25e6

	defaultDuration = 0.01
	defaultFFTSize  = 1 << 14

	defaultVectorBits    = 16
	defaultVectorSamples = 200

	defaultToneLowHz   = 1e6
	defaultToneLowAmp  = 0.5
	defaultToneHighHz  = 8e6
	defaultToneHighAmp = 0.35
)

// Parameters of the R=1, M=3, N=2 response variant.
const (
	variantRate      = 1
	variantDiffDelay = 3
	variantStages    = 2
	variantClockHz   = 50e6

	variantToneLowHz  = 2e5
	variantToneHighHz = 10e6

	variantVectorSamples = 1000
)

// Default compensator design targets. Band edges are relative to Nyquist.
const (
	defaultCompensatorTaps = 86
	defaultPassbandEdge    = 1.0 / 4
	defaultStopbandEdge    = 1.0 / 3
	defaultRippleDB        = 0.1
	defaultAttenuationDB   = 80
)

// Plot-data artifact names.
const (
	responseCSV     = "response.csv"
	timeCSV         = "time.csv"
	spectrumCSV     = "spectrum.csv"
	compensationCSV = "compensation.csv"

	plotDirPerm = 0o755
)
