// Package logging builds the zap loggers used by the command-line tools.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option adjusts the zap configuration before the logger is built.
type Option func(*zap.Config)

// WithLevel sets the minimum level by name. Unknown names fall back to info.
func WithLevel(name string) Option {
	return func(cfg *zap.Config) {
		cfg.Level = zap.NewAtomicLevelAt(ParseLevel(name))
	}
}

// WithDevelopment switches to zap's development mode, which prints stack
// traces on warnings and panics on DPanic.
func WithDevelopment(dev bool) Option {
	return func(cfg *zap.Config) {
		cfg.Development = dev
	}
}

// WithFields attaches fields to every log line. Empty keys are skipped.
func WithFields(fields map[string]any) Option {
	return func(cfg *zap.Config) {
		if cfg.InitialFields == nil {
			cfg.InitialFields = map[string]any{}
		}
		for key, value := range fields {
			if key == "" {
				continue
			}
			cfg.InitialFields[key] = value
		}
	}
}

// WithConsole renders human-readable lines instead of JSON.
func WithConsole() Option {
	return func(cfg *zap.Config) {
		cfg.Encoding = "console"
	}
}

// New returns a production logger writing to stderr with ISO8601 timestamps.
func New(opts ...Option) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
