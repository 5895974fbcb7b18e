package cicmodel

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tphakala/go-cic-model/internal/conv"
	"github.com/tphakala/go-cic-model/internal/filter"
	"github.com/tphakala/go-cic-model/internal/pipeline"
	"github.com/tphakala/go-cic-model/internal/quantize"
	"github.com/tphakala/go-cic-model/internal/signal"
	"github.com/tphakala/go-cic-model/internal/spectrum"
	"go.uber.org/zap"
)

// Stage names, in execution order.
const (
	StageResponse   = "response"
	StageSynthesize = "synthesize"
	StageFilter     = "filter"
	StageSpectrum   = "spectrum"
	StageQuantize   = "quantize"
)

// Result holds every array a run produces. Each field is freshly
// allocated; nothing aliases the configuration or another field.
type Result struct {
	Config Config

	// Response is the CIC transfer function on the configured axis.
	Response filter.FrequencyResponse

	// ResponseDB is 20·log10 of the floored response magnitude, paired
	// with Response.Frequencies.
	ResponseDB []float64

	// Raw is the synthesized stimulus, Filtered the stimulus after the
	// CIC kernel.
	Raw      signal.Signal
	Filtered signal.Signal

	// RawSpectrum and FilteredSpectrum are one-sided amplitude spectra.
	RawSpectrum      spectrum.Spectrum
	FilteredSpectrum spectrum.Spectrum

	// VectorPath is the written hex vector file.
	VectorPath string

	// WAVPath is set when Config.Vector.WAV is true.
	WAVPath string

	// Stats reports quantization overflows of the vector samples.
	Stats quantize.Stats

	// Timings lists the duration of each stage.
	Timings []pipeline.StageTiming
}

type runOptions struct {
	logger *zap.Logger
}

// Option configures Run.
type Option func(*runOptions)

// WithLogger sets the logger used for stage progress. The default is a
// no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *runOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Run evaluates the CIC response, filters the stimulus, analyzes both
// signals and writes the test-vector artifact. It is single-threaded and
// synchronous; ctx is checked between stages.
func Run(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	o := runOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	axis, _ := cfg.FrequencyAxis()

	logger := o.logger.With(
		zap.Int("R", cfg.Filter.Rate),
		zap.Int("M", cfg.Filter.DiffDelay),
		zap.Int("N", cfg.Filter.Stages),
		zap.Float64("clock_hz", cfg.Filter.ClockHz))

	res := &Result{Config: cfg}
	p := pipeline.New(logger).Add(
		pipeline.NewStage(StageResponse, func(context.Context) error {
			res.Response = filter.Evaluate(cfg.Filter, cfg.ResponsePoints, filter.WithAxis(axis))
			res.ResponseDB = res.Response.MagnitudeDB()
			return nil
		}),
		pipeline.NewStage(StageSynthesize, func(context.Context) error {
			raw, err := signal.Synthesize(cfg.SampleRate(), cfg.Signal.Duration, cfg.Signal.Tones)
			if err != nil {
				return err
			}
			res.Raw = raw
			return nil
		}),
		pipeline.NewStage(StageFilter, func(context.Context) error {
			res.Filtered = applyKernel(cfg, res.Raw, res.Response)
			return nil
		}),
		pipeline.NewStage(StageSpectrum, func(context.Context) error {
			var err error
			if res.RawSpectrum, err = spectrum.Analyze(res.Raw, cfg.FFTSize); err != nil {
				return err
			}
			res.FilteredSpectrum, err = spectrum.Analyze(res.Filtered, cfg.FFTSize)
			return err
		}),
		pipeline.NewStage(StageQuantize, func(context.Context) error {
			return writeVectors(cfg, res)
		}),
	)

	timings, err := p.Run(ctx)
	res.Timings = timings
	if err != nil {
		return nil, fmt.Errorf("run failed: %w", err)
	}

	logRun(logger, res)
	return res, nil
}

func applyKernel(cfg Config, raw signal.Signal, resp filter.FrequencyResponse) signal.Signal {
	if cfg.Kernel == KernelImpulse {
		return conv.Apply(raw, filter.CICImpulseResponse(cfg.Filter))
	}
	return conv.ApplyResponse(raw, resp)
}

func writeVectors(cfg Config, res *Result) error {
	enc, err := quantize.NewEncoder(cfg.Vector.Bits)
	if err != nil {
		return err
	}

	head := res.Raw.Truncate(cfg.Vector.Samples)
	path := quantize.VectorFileName(cfg.Vector.Dir, cfg.Vector.Bits)
	stats, err := enc.WriteVectorFile(path, head.Samples)
	if err != nil {
		return err
	}
	res.VectorPath = path
	res.Stats = stats

	if cfg.Vector.WAV {
		wavPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
		if _, err := enc.WriteWAV(wavPath, head.Samples, int(head.SampleRate)); err != nil {
			return err
		}
		res.WAVPath = wavPath
	}
	return nil
}

func logRun(logger *zap.Logger, res *Result) {
	peakHz, peakMag := res.RawSpectrum.Peak()
	logger.Info("verification run complete",
		zap.Float64("dc_gain_db", res.ResponseDB[0]),
		zap.Int("samples", res.Raw.Len()),
		zap.Float64("raw_peak_hz", peakHz),
		zap.Float64("raw_peak_magnitude", peakMag),
		zap.String("vector_file", res.VectorPath),
		zap.Int("vector_samples", res.Stats.Samples))

	if res.Stats.Overflows > 0 {
		logger.Warn("test vectors wrapped on overflow",
			zap.Int("overflows", res.Stats.Overflows),
			zap.Int("bits", res.Config.Vector.Bits))
	}
}
