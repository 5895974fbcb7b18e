package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cic-model/internal/testutil"
)

func TestDesignFrequencySampled_Lowpass(t *testing.T) {
	taps, err := DesignFrequencySampled(31, []float64{0, 0.1, 1}, []float64{1, 1, 0}, Window{})
	require.NoError(t, err)

	require.Len(t, taps, 31)
	testutil.AssertSymmetric(t, taps, 1e-9)
	testutil.AssertNoNaNOrInf(t, taps)
	testutil.AssertDCGain(t, taps, 1.0, 0.05)
	assert.Less(t, MagnitudeAt(taps, 0.45), MagnitudeAt(taps, 0.05),
		"gain falls towards Nyquist")
}

func TestDesignFrequencySampled_Windows(t *testing.T) {
	windows := map[string]Window{
		"hamming":     {Kind: WindowHamming},
		"kaiser":      KaiserFor(60),
		"rectangular": {Kind: WindowRectangular},
	}

	for name, w := range windows {
		t.Run(name, func(t *testing.T) {
			taps, err := DesignFrequencySampled(41, []float64{0, 0.3, 0.3, 1}, []float64{1, 1, 0, 0}, w)
			require.NoError(t, err)
			require.Len(t, taps, 41)
			testutil.AssertSymmetric(t, taps, 1e-9)
			assert.Less(t, MagnitudeAt(taps, 0.4), 0.1, "stopband is attenuated")
		})
	}
}

func TestDesignFrequencySampled_EvenLength(t *testing.T) {
	taps, err := DesignFrequencySampled(30, []float64{0, 0.2, 1}, []float64{1, 1, 0}, Window{})
	require.NoError(t, err)
	require.Len(t, taps, 30)
	testutil.AssertSymmetric(t, taps, 1e-9)
}

func TestDesignFrequencySampled_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		numTaps int
		freq    []float64
		gain    []float64
	}{
		{"zero_taps", 0, []float64{0, 1}, []float64{1, 0}},
		{"length_mismatch", 31, []float64{0, 0.5, 1}, []float64{1, 0}},
		{"single_point", 31, []float64{0}, []float64{1}},
		{"not_ending_at_nyquist", 31, []float64{0, 0.5}, []float64{1, 0}},
		{"decreasing", 31, []float64{0, 0.6, 0.4, 1}, []float64{1, 1, 0, 0}},
		{"triple_point", 31, []float64{0, 0.5, 0.5, 0.5, 1}, []float64{1, 1, 0, 0, 0}},
		{"step_at_dc", 31, []float64{0, 0, 1}, []float64{1, 0, 0}},
		{"even_taps_nonzero_nyquist", 30, []float64{0, 1}, []float64{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DesignFrequencySampled(tt.numTaps, tt.freq, tt.gain, Window{})
			require.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}
