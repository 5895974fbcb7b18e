package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cicmodel "github.com/tphakala/go-cic-model"
)

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", opts.logLevel)
	assert.Empty(t, opts.set)

	cfg, err := loadConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, cicmodel.DefaultConfig(), cfg)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown_flag", []string{"-rate", "48"}},
		{"positional", []string{"input.wav"}},
		{"variant_and_config", []string{"-variant", "-config", "cic.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	opts, err := parseFlags([]string{"-variant", "-bits", "12", "-samples", "64", "-kernel", "impulse", "-dir", dir, "-wav"})
	require.NoError(t, err)

	cfg, err := loadConfig(opts)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Filter.DiffDelay, "variant base")
	assert.Equal(t, "output", cfg.Axis)
	assert.Equal(t, 12, cfg.Vector.Bits)
	assert.Equal(t, 64, cfg.Vector.Samples)
	assert.Equal(t, cicmodel.KernelImpulse, cfg.Kernel)
	assert.Equal(t, dir, cfg.Vector.Dir)
	assert.True(t, cfg.Vector.WAV)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter:\n  stages: 4\n"), 0o600))

	opts, err := parseFlags([]string{"-config", path, "-axis", "output"})
	require.NoError(t, err)

	cfg, err := loadConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Filter.Stages)
	assert.Equal(t, "output", cfg.Axis)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	opts, err := parseFlags([]string{"-bits", "1"})
	require.NoError(t, err)

	_, err = loadConfig(opts)
	require.ErrorIs(t, err, cicmodel.ErrInvalidConfig)

	opts, err = parseFlags([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)
	_, err = loadConfig(opts)
	require.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	cfg := cicmodel.DefaultConfig()
	cfg.Signal.Duration = 0.001
	cfg.Vector.Dir = t.TempDir()
	cfg.Vector.WAV = true

	res, err := cicmodel.Run(context.Background(), cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	printSummary(&buf, res, 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "CIC R=10 M=1 N=3 at 2.5e+07 Hz")
	assert.Contains(t, out, "DC gain: 60.00 dB")
	assert.Contains(t, out, "200 samples, 0 overflows")
	assert.Contains(t, out, "WAV: ")
	assert.Contains(t, out, "Total: 1.500s")
}
