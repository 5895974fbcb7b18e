// Package signal synthesizes the multi-tone stimuli used to exercise the
// CIC model and carries sampled signals between the processing stages.
package signal

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptySignal is returned when a duration and rate produce no samples.
var ErrEmptySignal = errors.New("signal: empty signal")

// Tone is one sinusoidal component A·sin(2πft).
type Tone struct {
	FrequencyHz float64 `yaml:"frequency_hz"`
	Amplitude   float64 `yaml:"amplitude"`
}

// Signal is a uniformly sampled real signal. Stages never share backing
// arrays: every operation returns fresh slices.
type Signal struct {
	SampleRate float64
	Time       []float64
	Samples    []float64
}

// Len returns the number of samples.
func (s Signal) Len() int {
	return len(s.Samples)
}

// Truncate returns a copy holding at most the first n samples.
func (s Signal) Truncate(n int) Signal {
	return s.Window(0, n)
}

// Window returns a copy of samples [start, end), clipped to the signal.
func (s Signal) Window(start, end int) Signal {
	start = max(start, 0)
	end = min(end, s.Len())
	if end < start {
		end = start
	}

	out := Signal{
		SampleRate: s.SampleRate,
		Samples:    append([]float64(nil), s.Samples[start:end]...),
	}
	if len(s.Time) == s.Len() {
		out.Time = append([]float64(nil), s.Time[start:end]...)
	}
	return out
}

// WithSamples returns a signal sharing s's rate with a copy of its time
// axis and the given samples. len(samples) must equal s.Len().
func (s Signal) WithSamples(samples []float64) Signal {
	return Signal{
		SampleRate: s.SampleRate,
		Time:       append([]float64(nil), s.Time...),
		Samples:    samples,
	}
}

// Synthesize samples the sum of tones over [0, duration).
//
// The sample count is ⌊duration·sampleRate⌋ and t_i = i·duration/n, so the
// interval end is excluded. Output is deterministic.
func Synthesize(sampleRate, duration float64, tones []Tone) (Signal, error) {
	n := int(duration * sampleRate)
	if n < 1 || math.IsNaN(duration*sampleRate) {
		return Signal{}, fmt.Errorf("%w: rate %g over %g s gives %d samples",
			ErrEmptySignal, sampleRate, duration, n)
	}

	sig := Signal{
		SampleRate: sampleRate,
		Time:       make([]float64, n),
		Samples:    make([]float64, n),
	}

	step := duration / float64(n)
	for i := range n {
		t := float64(i) * step
		sig.Time[i] = t

		var x float64
		for _, tone := range tones {
			x += tone.Amplitude * math.Sin(2*math.Pi*tone.FrequencyHz*t)
		}
		sig.Samples[i] = x
	}

	return sig, nil
}
