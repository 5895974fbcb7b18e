package filter

import (
	"fmt"
	"math"
	"slices"

	"github.com/tphakala/go-cic-model/internal/mathutil"
)

// CompensatorSpec describes a two-band weighted-equiripple lowpass.
//
// Band edges are normalized so that 1 is the Nyquist frequency, matching
// the convention of the coefficient files consumed by the HDL flow.
type CompensatorSpec struct {
	// NumTaps is the exact length of the designed filter.
	NumTaps int `yaml:"num_taps"`

	// PassbandEdge is the upper edge of the unity-gain band.
	PassbandEdge float64 `yaml:"passband_edge"`

	// StopbandEdge is the lower edge of the zero-gain band.
	StopbandEdge float64 `yaml:"stopband_edge"`

	// RippleDB sets the passband weight 10^(RippleDB/20).
	RippleDB float64 `yaml:"ripple_db"`

	// AttenuationDB sets the stopband weight 10^(-AttenuationDB/20).
	AttenuationDB float64 `yaml:"attenuation_db"`

	// GridDensity is the dense-grid oversampling per extremal
	// (0 selects DefaultGridDensity).
	GridDensity int `yaml:"grid_density"`

	// MaxIterations bounds the exchange loop (0 selects DefaultMaxIterations).
	MaxIterations int `yaml:"max_iterations"`
}

// Validate checks the tap count, band ordering and weights.
func (s CompensatorSpec) Validate() error {
	if s.NumTaps < minCompensatorTaps || s.NumTaps > maxCompensatorTaps {
		return fmt.Errorf("%w: numTaps must be in [%d, %d], got %d",
			ErrInvalidSpec, minCompensatorTaps, maxCompensatorTaps, s.NumTaps)
	}
	if !(s.PassbandEdge > 0 && s.PassbandEdge < s.StopbandEdge && s.StopbandEdge < 1) {
		return fmt.Errorf("%w: band edges must satisfy 0 < passband (%g) < stopband (%g) < 1",
			ErrInvalidSpec, s.PassbandEdge, s.StopbandEdge)
	}
	if math.IsNaN(s.RippleDB) || math.IsInf(s.RippleDB, 0) {
		return fmt.Errorf("%w: ripple must be finite, got %g", ErrInvalidSpec, s.RippleDB)
	}
	if math.IsNaN(s.AttenuationDB) || math.IsInf(s.AttenuationDB, 0) {
		return fmt.Errorf("%w: attenuation must be finite, got %g", ErrInvalidSpec, s.AttenuationDB)
	}
	if s.GridDensity < 0 {
		return fmt.Errorf("%w: grid density must be >= 0, got %d", ErrInvalidSpec, s.GridDensity)
	}
	if s.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations must be >= 0, got %d", ErrInvalidSpec, s.MaxIterations)
	}
	return nil
}

// Weights returns the passband and stopband error weights.
func (s CompensatorSpec) Weights() (pass, stop float64) {
	return mathutil.FromDB(s.RippleDB), mathutil.FromDB(-s.AttenuationDB)
}

func (s CompensatorSpec) gridDensity() int {
	if s.GridDensity == 0 {
		return DefaultGridDensity
	}
	return s.GridDensity
}

func (s CompensatorSpec) maxIterations() int {
	if s.MaxIterations == 0 {
		return DefaultMaxIterations
	}
	return s.MaxIterations
}

// DesignCompensator synthesizes a symmetric linear-phase FIR of exactly
// spec.NumTaps taps with the Parks-McClellan exchange algorithm.
//
// Odd lengths give a type I filter. Even lengths give a type II filter,
// designed through the cos(πf) substitution. If the alternation set cannot
// be found or does not settle within MaxIterations the error wraps
// ErrNotConverged; no partial design is returned. The exchange settles when
// the extremal set stops moving, when the error is level across it, or
// when the grid error drops below roundoff in every band. The designed response is
// not checked against the ripple or attenuation targets.
func DesignCompensator(spec CompensatorSpec) ([]float64, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	pass, stop := spec.Weights()
	ex := newExchange(spec.NumTaps, spec.gridDensity(), []band{
		{lo: 0, hi: spec.PassbandEdge / nyquistDivisor, desired: 1, weight: pass},
		{lo: spec.StopbandEdge / nyquistDivisor, hi: halfBand, desired: 0, weight: stop},
	})

	floor := exactFitFloor * min(pass, stop)
	prev := make([]int, len(ex.ext))

	maxIter := spec.maxIterations()
	converged := false
	iter := 0
	for ; iter < maxIter; iter++ {
		ex.calcParams()
		ex.computeError()
		if ex.maxError() < floor {
			converged = true
			break
		}

		copy(prev, ex.ext)
		if !ex.search() {
			return nil, fmt.Errorf("%w: extremal search lost alternation at iteration %d",
				ErrNotConverged, iter+1)
		}
		if ex.done() || slices.Equal(prev, ex.ext) {
			converged = true
			break
		}
	}
	if !converged {
		return nil, fmt.Errorf("%w after %d iterations", ErrNotConverged, iter)
	}

	ex.calcParams()
	return ex.taps(), nil
}

// band is one approximation interval in cycles/sample.
type band struct {
	lo, hi          float64
	desired, weight float64
}

// exchange holds the state of one Remez run. x, y and ad are sized r+1.
type exchange struct {
	numTaps int
	r       int

	grid    []float64
	desired []float64
	weight  []float64
	err     []float64

	ext []int
	ad  []float64
	x   []float64
	y   []float64
}

func newExchange(numTaps, density int, bands []band) *exchange {
	r := numTaps / 2
	if numTaps%2 == 1 {
		r++
	}

	ex := &exchange{
		numTaps: numTaps,
		r:       r,
		ext:     make([]int, r+1),
		ad:      make([]float64, r+1),
		x:       make([]float64, r+1),
		y:       make([]float64, r+1),
	}

	delf := halfBand / float64(density*r)
	for _, b := range bands {
		points := max(int((b.hi-b.lo)/delf+0.5), 1)
		f := b.lo
		for range points {
			ex.grid = append(ex.grid, f)
			ex.desired = append(ex.desired, b.desired)
			ex.weight = append(ex.weight, b.weight)
			f += delf
		}
		ex.grid[len(ex.grid)-1] = b.hi
	}

	last := len(ex.grid) - 1
	if numTaps%2 == 0 {
		// Q(f) = cos(πf) vanishes at Nyquist.
		if ex.grid[last] > halfBand-delf {
			ex.grid[last] = halfBand - delf
		}
		for i, f := range ex.grid {
			c := math.Cos(math.Pi * f)
			ex.desired[i] /= c
			ex.weight[i] *= c
		}
	}
	ex.err = make([]float64, len(ex.grid))

	for i := range ex.ext {
		ex.ext[i] = i * last / r
	}

	return ex
}

// calcParams computes the barycentric weights over the current extremals,
// the levelled deviation δ and the interpolation ordinates.
func (ex *exchange) calcParams() {
	r := ex.r
	for i, e := range ex.ext {
		ex.x[i] = math.Cos(2 * math.Pi * ex.grid[e])
	}

	stride := (r-1)/barycentricStrideDivisor + 1
	for i := 0; i <= r; i++ {
		denom := 1.0
		xi := ex.x[i]
		for j := range stride {
			for k := j; k <= r; k += stride {
				if k != i {
					denom *= 2 * (xi - ex.x[k])
				}
			}
		}
		if math.Abs(denom) < barycentricFloor {
			denom = barycentricFloor
		}
		ex.ad[i] = 1 / denom
	}

	var numer, denom float64
	sign := 1.0
	for i, e := range ex.ext {
		numer += ex.ad[i] * ex.desired[e]
		denom += sign * ex.ad[i] / ex.weight[e]
		sign = -sign
	}
	delta := numer / denom

	sign = 1.0
	for i, e := range ex.ext {
		ex.y[i] = ex.desired[e] - sign*delta/ex.weight[e]
		sign = -sign
	}
}

// amplitude evaluates the current interpolating cosine polynomial at f.
func (ex *exchange) amplitude(f float64) float64 {
	xc := math.Cos(2 * math.Pi * f)
	var numer, denom float64
	for i := 0; i <= ex.r; i++ {
		c := xc - ex.x[i]
		if math.Abs(c) < barycentricCoincidence {
			return ex.y[i]
		}
		c = ex.ad[i] / c
		denom += c
		numer += c * ex.y[i]
	}
	return numer / denom
}

func (ex *exchange) computeError() {
	for i, f := range ex.grid {
		ex.err[i] = ex.weight[i] * (ex.desired[i] - ex.amplitude(f))
	}
}

// search locates the local extrema of the weighted error and keeps the r+1
// that alternate in sign. It reports false when fewer than r+1 are found.
func (ex *exchange) search() bool {
	e := ex.err
	last := len(e) - 1
	found := make([]int, 0, 2*ex.r)

	if (e[0] > 0 && e[0] > e[1]) || (e[0] < 0 && e[0] < e[1]) {
		found = append(found, 0)
	}
	for i := 1; i < last; i++ {
		if (e[i] >= e[i-1] && e[i] > e[i+1] && e[i] > 0) ||
			(e[i] <= e[i-1] && e[i] < e[i+1] && e[i] < 0) {
			found = append(found, i)
		}
	}
	if (e[last] > 0 && e[last] > e[last-1]) || (e[last] < 0 && e[last] < e[last-1]) {
		found = append(found, last)
	}

	if len(found) < ex.r+1 {
		return false
	}

	for extra := len(found) - (ex.r + 1); extra > 0; extra-- {
		drop := -1
		for j := 1; j < len(found); j++ {
			if (e[found[j]] > 0) == (e[found[j-1]] > 0) {
				drop = j
				if math.Abs(e[found[j-1]]) < math.Abs(e[found[j]]) {
					drop = j - 1
				}
				break
			}
		}
		if drop < 0 {
			// All alternate: trim whichever end carries less error.
			drop = 0
			if math.Abs(e[found[len(found)-1]]) < math.Abs(e[found[0]]) {
				drop = len(found) - 1
			}
		}
		found = append(found[:drop], found[drop+1:]...)
	}

	copy(ex.ext, found)
	return true
}

// maxError returns the largest weighted error over the whole grid.
func (ex *exchange) maxError() float64 {
	var peak float64
	for _, v := range ex.err {
		peak = math.Max(peak, math.Abs(v))
	}
	return peak
}

func (ex *exchange) done() bool {
	lo := math.Abs(ex.err[ex.ext[0]])
	hi := lo
	for _, idx := range ex.ext[1:] {
		v := math.Abs(ex.err[idx])
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return (hi-lo)/hi < convergenceTolerance
}

// taps samples the amplitude response at f = i/N and inverts it by
// frequency sampling into the symmetric impulse response.
func (ex *exchange) taps() []float64 {
	n := ex.numTaps
	samples := make([]float64, n/2+1)
	for i := range samples {
		c := 1.0
		if n%2 == 0 {
			c = math.Cos(math.Pi * float64(i) / float64(n))
		}
		samples[i] = ex.amplitude(float64(i)/float64(n)) * c
	}

	upper := (n - 1) / 2
	if n%2 == 0 {
		upper = n/2 - 1
	}

	mid := float64(n-1) / 2
	h := make([]float64, n)
	for i := range h {
		val := samples[0]
		arg := 2 * math.Pi * (float64(i) - mid) / float64(n)
		for k := 1; k <= upper; k++ {
			val += 2 * samples[k] * math.Cos(arg*float64(k))
		}
		h[i] = val / float64(n)
	}

	// Exact symmetry, removing rounding drift between mirrored taps.
	for i := range n / 2 {
		avg := (h[i] + h[n-1-i]) / 2
		h[i], h[n-1-i] = avg, avg
	}
	return h
}
