// Package pipeline sequences the stages of a verification run.
//
// A run is a fixed, ordered list of stages. Each stage consumes the values
// produced by earlier stages and publishes fresh values of its own, so a
// stage never mutates another stage's output.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrEmptyPipeline is returned when Run is called with no stages.
var ErrEmptyPipeline = errors.New("pipeline: no stages")

// Stage is a single named step.
type Stage interface {
	// Name identifies the stage in logs and errors.
	Name() string

	// Run performs the step.
	Run(ctx context.Context) error
}

type funcStage struct {
	name string
	fn   func(ctx context.Context) error
}

func (s funcStage) Name() string                  { return s.name }
func (s funcStage) Run(ctx context.Context) error { return s.fn(ctx) }

// NewStage wraps fn as a Stage.
func NewStage(name string, fn func(ctx context.Context) error) Stage {
	return funcStage{name: name, fn: fn}
}

// StageTiming records how long a completed stage took.
type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Pipeline runs its stages in order, stopping at the first failure.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

// New returns an empty pipeline. A nil logger is replaced by a no-op one.
func New(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// Add appends stages and returns the pipeline for chaining.
func (p *Pipeline) Add(stages ...Stage) *Pipeline {
	p.stages = append(p.stages, stages...)
	return p
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes every stage in order. The context is checked before each
// stage. Timings of the completed stages are returned even on failure.
func (p *Pipeline) Run(ctx context.Context) ([]StageTiming, error) {
	if len(p.stages) == 0 {
		return nil, ErrEmptyPipeline
	}

	timings := make([]StageTiming, 0, len(p.stages))
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return timings, fmt.Errorf("stage %q not started: %w", stage.Name(), err)
		}

		start := time.Now()
		if err := stage.Run(ctx); err != nil {
			p.logger.Error("stage failed",
				zap.String("stage", stage.Name()),
				zap.Error(err))
			return timings, fmt.Errorf("stage %q: %w", stage.Name(), err)
		}

		elapsed := time.Since(start)
		timings = append(timings, StageTiming{Name: stage.Name(), Duration: elapsed})
		p.logger.Debug("stage complete",
			zap.String("stage", stage.Name()),
			zap.Duration("elapsed", elapsed))
	}

	return timings, nil
}
