package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cic-model/internal/filter"
)

// zeroStuffReference interpolates by inserting R-1 zeros and running the
// full impulse response directly.
func zeroStuffReference(x []float64, spec filter.CICSpec) []float64 {
	h := filter.CICImpulseResponse(spec)
	up := make([]float64, len(x)*spec.Rate)
	for i, v := range x {
		up[i*spec.Rate] = v
	}

	out := make([]float64, len(up))
	for i := range out {
		for j, hv := range h {
			if i-j >= 0 {
				out[i] += up[i-j] * hv
			}
		}
	}
	return out
}

func TestInterpolate_MatchesZeroStuffing(t *testing.T) {
	specs := []filter.CICSpec{
		{Rate: 10, DiffDelay: 1, Stages: 3, ClockHz: 25e6},
		{Rate: 2, DiffDelay: 1, Stages: 4, ClockHz: 1e6},
		{Rate: 1, DiffDelay: 3, Stages: 2, ClockHz: 50e6},
		{Rate: 5, DiffDelay: 2, Stages: 2, ClockHz: 1e6},
	}

	x := ramp(64, 0.8)
	for _, spec := range specs {
		got, err := Interpolate(x, spec)
		require.NoError(t, err)
		require.Len(t, got, len(x)*spec.Rate)
		assert.InDeltaSlice(t, zeroStuffReference(x, spec), got, 1e-9,
			"R=%d M=%d N=%d", spec.Rate, spec.DiffDelay, spec.Stages)
	}
}

func TestInterpolator_SteadyStateGain(t *testing.T) {
	spec := filter.CICSpec{Rate: 10, DiffDelay: 1, Stages: 3, ClockHz: 25e6}
	ip, err := NewInterpolator(spec)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, ip.Gain(), 1e-12)

	x := make([]float64, 40)
	for i := range x {
		x[i] = 1
	}
	y := ip.Process(x)

	// The response settles after the impulse-response length.
	for i := len(filter.CICImpulseResponse(spec)); i < len(y); i++ {
		assert.InDelta(t, ip.Gain(), y[i], 1e-9, "sample %d", i)
	}
	assert.Empty(t, ip.Process(nil))
}

func TestInterpolate_InvalidSpec(t *testing.T) {
	_, err := Interpolate([]float64{1}, filter.CICSpec{Rate: 0, DiffDelay: 1, Stages: 1, ClockHz: 1})
	require.ErrorIs(t, err, filter.ErrInvalidSpec)
}
