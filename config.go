package cicmodel

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/tphakala/go-cic-model/internal/filter"
	"github.com/tphakala/go-cic-model/internal/mathutil"
	"github.com/tphakala/go-cic-model/internal/quantize"
	"github.com/tphakala/go-cic-model/internal/signal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates invalid configuration parameters.
var ErrInvalidConfig = errors.New("invalid CIC model configuration")

// KernelSource selects the kernel used to filter the stimulus.
type KernelSource string

const (
	// KernelResponse convolves with the real part of the sampled
	// frequency response, used directly as an FIR kernel.
	KernelResponse KernelSource = "response"

	// KernelImpulse convolves with the CIC impulse response.
	KernelImpulse KernelSource = "impulse"
)

// SignalConfig describes the synthetic stimulus.
type SignalConfig struct {
	// SampleRate in Hz. Zero selects the filter clock.
	SampleRate float64 `yaml:"sample_rate"`

	// Duration in seconds.
	Duration float64 `yaml:"duration"`

	Tones []signal.Tone `yaml:"tones"`
}

// VectorConfig describes the fixed-point test-vector artifact.
type VectorConfig struct {
	// Bits is the word width W.
	Bits int `yaml:"bits"`

	// Samples is the number of leading stimulus samples written.
	Samples int `yaml:"samples"`

	// Dir receives input_signal_<W>bit.dat.
	Dir string `yaml:"dir"`

	// WAV also writes the quantized stimulus as a PCM WAV next to the
	// vector file (16, 24 or 32 bits only).
	WAV bool `yaml:"wav"`
}

// Config is the complete, immutable description of a run. Every stage
// receives the values it needs from here.
type Config struct {
	Filter filter.CICSpec `yaml:"filter"`

	// ResponsePoints is the number of evaluation points on [0, π].
	ResponsePoints int `yaml:"response_points"`

	// Axis is "clock" (0..f_clk/2) or "output" (0..f_clk/(2R)).
	Axis string `yaml:"axis"`

	Kernel KernelSource `yaml:"kernel"`

	Signal SignalConfig `yaml:"signal"`

	// FFTSize is the spectral analysis length, a power of two.
	FFTSize int `yaml:"fft_size"`

	Vector VectorConfig `yaml:"vector"`

	Compensator filter.CompensatorSpec `yaml:"compensator"`
}

// DefaultConfig returns the parameters of the R=10, M=1, N=3 interpolator
// clocked at 25 MHz, driven by 1 MHz and 8 MHz tones.
func DefaultConfig() Config {
	return Config{
		Filter: filter.CICSpec{
			Rate:      defaultRate,
			DiffDelay: defaultDiffDelay,
			Stages:    defaultStages,
			ClockHz:   defaultClockHz,
		},
		ResponsePoints: filter.DefaultResponsePoints,
		Axis:           filter.AxisClock.String(),
		Kernel:         KernelResponse,
		Signal: SignalConfig{
			Duration: defaultDuration,
			Tones: []signal.Tone{
				{FrequencyHz: defaultToneLowHz, Amplitude: defaultToneLowAmp},
				{FrequencyHz: defaultToneHighHz, Amplitude: defaultToneHighAmp},
			},
		},
		FFTSize: defaultFFTSize,
		Vector: VectorConfig{
			Bits:    defaultVectorBits,
			Samples: defaultVectorSamples,
			Dir:     quantize.DefaultVectorDir,
		},
		Compensator: filter.CompensatorSpec{
			NumTaps:       defaultCompensatorTaps,
			PassbandEdge:  defaultPassbandEdge,
			StopbandEdge:  defaultStopbandEdge,
			RippleDB:      defaultRippleDB,
			AttenuationDB: defaultAttenuationDB,
		},
	}
}

// ResponseVariantConfig returns the R=1, M=3, N=2 filter clocked at 50 MHz,
// evaluated on 1024·R points over the output-rate axis and driven by
// 200 kHz and 10 MHz tones.
func ResponseVariantConfig() Config {
	cfg := DefaultConfig()
	cfg.Filter = filter.CICSpec{
		Rate:      variantRate,
		DiffDelay: variantDiffDelay,
		Stages:    variantStages,
		ClockHz:   variantClockHz,
	}
	cfg.ResponsePoints = filter.DefaultResponsePoints * variantRate
	cfg.Axis = filter.AxisOutput.String()
	cfg.Signal.Tones = []signal.Tone{
		{FrequencyHz: variantToneLowHz, Amplitude: defaultToneLowAmp},
		{FrequencyHz: variantToneHighHz, Amplitude: defaultToneHighAmp},
	}
	cfg.Vector.Samples = variantVectorSamples
	return cfg
}

// SampleRate returns the stimulus rate, defaulting to the filter clock.
func (c Config) SampleRate() float64 {
	if c.Signal.SampleRate == 0 {
		return c.Filter.ClockHz
	}
	return c.Signal.SampleRate
}

// FrequencyAxis returns the parsed Axis.
func (c Config) FrequencyAxis() (filter.FrequencyAxis, error) {
	return filter.ParseFrequencyAxis(c.Axis)
}

// Validate checks that the configuration is usable by Run. The compensator
// section is not checked; see ValidateCompensator.
func (c Config) Validate() error {
	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.ResponsePoints < 1 {
		return fmt.Errorf("%w: response points must be at least 1", ErrInvalidConfig)
	}

	if _, err := c.FrequencyAxis(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch c.Kernel {
	case KernelResponse, KernelImpulse:
	default:
		return fmt.Errorf("%w: unknown kernel source %q", ErrInvalidConfig, c.Kernel)
	}

	rate := c.SampleRate()
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: sample rate must be positive and finite", ErrInvalidConfig)
	}
	if c.Signal.Duration <= 0 || math.IsNaN(c.Signal.Duration) || math.IsInf(c.Signal.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive and finite", ErrInvalidConfig)
	}

	if c.FFTSize < 2 || !mathutil.IsPowerOfTwo(c.FFTSize) {
		return fmt.Errorf("%w: FFT size must be a power of two >= 2, got %d", ErrInvalidConfig, c.FFTSize)
	}

	if c.Vector.Bits < quantize.MinBits || c.Vector.Bits > quantize.MaxBits {
		return fmt.Errorf("%w: vector width must be %d-%d bits", ErrInvalidConfig, quantize.MinBits, quantize.MaxBits)
	}
	if c.Vector.Samples < 1 {
		return fmt.Errorf("%w: vector samples must be at least 1", ErrInvalidConfig)
	}
	if c.Vector.Dir == "" {
		return fmt.Errorf("%w: vector directory must be set", ErrInvalidConfig)
	}

	return nil
}

// ValidateCompensator checks the compensator section used by
// DesignCompensation and AnalyzeCompensation.
func (c Config) ValidateCompensator() error {
	if err := c.Compensator.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ParseConfig overlays YAML data on DefaultConfig and validates the result.
// Keys absent from data keep their default values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file. See ParseConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}
