package spectrum

import (
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cic-model/internal/signal"
	"github.com/tphakala/go-cic-model/internal/testutil"
)

func binCenteredSignal(t *testing.T) signal.Signal {
	t.Helper()
	sig, err := signal.Synthesize(1024, 1, []signal.Tone{
		{FrequencyHz: 100, Amplitude: 0.5},
		{FrequencyHz: 300, Amplitude: 0.25},
	})
	require.NoError(t, err)
	return sig
}

func TestAnalyze_ToneAmplitudes(t *testing.T) {
	spec, err := Analyze(binCenteredSignal(t), 1024)
	require.NoError(t, err)

	require.Equal(t, 512, spec.Len())
	assert.InDelta(t, 1.0, spec.Frequencies[1], 1e-12)
	assert.InDelta(t, 0.5, spec.At(100), 1e-9)
	assert.InDelta(t, 0.25, spec.At(300), 1e-9)
	assert.InDelta(t, 0.0, spec.At(200), 1e-9)

	f, m := spec.Peak()
	assert.InDelta(t, 100.0, f, 1e-9)
	assert.InDelta(t, 0.5, m, 1e-9)
	assert.InDelta(t, 0.25, spec.BandPeak(250, 350), 1e-9)
}

func TestAnalyze_MatchesReferenceFFT(t *testing.T) {
	sig, err := signal.Synthesize(25e6, 0.001, []signal.Tone{
		{FrequencyHz: 1e6, Amplitude: 0.5},
		{FrequencyHz: 8e6, Amplitude: 0.35},
	})
	require.NoError(t, err)

	const nfft = 1 << 14
	spec, err := Analyze(sig, nfft)
	require.NoError(t, err)

	ref := fft.FFTReal(sig.Samples[:nfft])
	for k := range spec.Len() {
		want := cmplx.Abs(ref[k]) / (nfft / 2)
		require.InDelta(t, want, spec.Magnitude[k], 1e-9, "bin %d", k)
	}
}

func TestAnalyze_ZeroPads(t *testing.T) {
	sig := signal.Signal{SampleRate: 8, Samples: []float64{1}}
	spec, err := Analyze(sig, 8)
	require.NoError(t, err)

	require.Equal(t, 4, spec.Len())
	for _, m := range spec.Magnitude {
		assert.InDelta(t, 0.25, m, 1e-12, "an impulse is flat")
	}
}

func TestAnalyze_InvalidSize(t *testing.T) {
	for _, n := range []int{0, 1, 3, 1000, -16} {
		_, err := Analyze(binCenteredSignal(t), n)
		require.ErrorIs(t, err, ErrInvalidSize, "nfft=%d", n)
	}
}

func TestSpectrum_MagnitudeDB(t *testing.T) {
	spec := Spectrum{Frequencies: []float64{0, 1}, Magnitude: []float64{0, 0.1}}
	db := spec.MagnitudeDB()
	assert.InDelta(t, -240.0, db[0], 1e-9)
	assert.InDelta(t, -20.0, db[1], 1e-9)
	testutil.AssertNoNaNOrInf(t, db)

	empty := Spectrum{}
	f, m := empty.Peak()
	assert.Zero(t, f)
	assert.Zero(t, m)
	assert.Zero(t, empty.At(5))
}
