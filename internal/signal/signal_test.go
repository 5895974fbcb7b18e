package signal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cic-model/internal/testutil"
)

var twoTones = []Tone{
	{FrequencyHz: 1e6, Amplitude: 0.5},
	{FrequencyHz: 8e6, Amplitude: 0.35},
}

func TestSynthesize_Length(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		duration float64
		want     int
	}{
		{"interpolator_input", 25e6, 0.01, 250000},
		{"variant_input", 50e6, 0.001, 50000},
		{"truncated", 1000, 0.0105, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := Synthesize(tt.rate, tt.duration, twoTones)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sig.Len())
			assert.Len(t, sig.Time, tt.want)
			assert.Equal(t, tt.rate, sig.SampleRate)
		})
	}
}

func TestSynthesize_TimeAxis(t *testing.T) {
	sig, err := Synthesize(1000, 0.01, nil)
	require.NoError(t, err)

	assert.Zero(t, sig.Time[0])
	assert.InDelta(t, 0.009, sig.Time[len(sig.Time)-1], 1e-15, "interval end is excluded")
	testutil.AssertMonotonic(t, sig.Time)
	for _, x := range sig.Samples {
		assert.Zero(t, x)
	}
}

func TestSynthesize_Values(t *testing.T) {
	const rate = 25e6
	sig, err := Synthesize(rate, 0.0001, twoTones)
	require.NoError(t, err)

	want := testutil.TwoTone(sig.Len(), rate, 1e6, 0.5, 8e6, 0.35)
	for i := range want {
		assert.InDelta(t, want[i], sig.Samples[i], 1e-9, "sample %d", i)
	}
	assert.Zero(t, sig.Samples[0])

	peak := 0.0
	for _, x := range sig.Samples {
		peak = math.Max(peak, math.Abs(x))
	}
	assert.LessOrEqual(t, peak, 0.85)
}

func TestSynthesize_Deterministic(t *testing.T) {
	a, err := Synthesize(25e6, 0.0002, twoTones)
	require.NoError(t, err)
	b, err := Synthesize(25e6, 0.0002, twoTones)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSynthesize_Empty(t *testing.T) {
	for _, tc := range []struct{ rate, duration float64 }{
		{1000, 0}, {1000, 0.0009}, {0, 1}, {-5, 1},
	} {
		_, err := Synthesize(tc.rate, tc.duration, twoTones)
		require.ErrorIs(t, err, ErrEmptySignal, "rate=%g duration=%g", tc.rate, tc.duration)
	}
}

func TestSignal_WindowCopies(t *testing.T) {
	sig, err := Synthesize(1000, 0.01, []Tone{{FrequencyHz: 50, Amplitude: 1}})
	require.NoError(t, err)

	head := sig.Truncate(4)
	require.Equal(t, 4, head.Len())
	head.Samples[1] = 42
	assert.NotEqual(t, 42.0, sig.Samples[1], "truncate must copy")

	mid := sig.Window(3, 6)
	assert.Equal(t, sig.Samples[3:6], mid.Samples)
	assert.Equal(t, sig.Time[3:6], mid.Time)

	assert.Equal(t, sig.Len(), sig.Truncate(1000).Len(), "clipped to signal length")
	assert.Zero(t, sig.Window(8, 2).Len())
}
