package filter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCoefficients_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCoefficients(&buf, []float64{0.5, -0.125, 1e-9}))
	assert.Equal(t, "0.50000000\n-0.12500000\n0.00000000\n", buf.String())
}

func TestSaveCoefficients_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), CoefficientFileName)
	coeffs := []float64{0.01234567, -0.5, 0.25, -0.5, 0.01234567}

	require.NoError(t, SaveCoefficients(path, coeffs))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := ReadCoefficients(f)
	require.NoError(t, err)
	assert.InDeltaSlice(t, coeffs, got, 5e-9)
}

func TestSaveCoefficients_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	err := SaveCoefficients(filepath.Join(dir, CoefficientFileName), []float64{1})
	require.Error(t, err)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveCoefficients_NoTempLeftBehind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveCoefficients(filepath.Join(dir, CoefficientFileName), []float64{1, 2}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, CoefficientFileName, entries[0].Name())
}

func TestReadCoefficients_Invalid(t *testing.T) {
	_, err := ReadCoefficients(strings.NewReader("0.1\n\nabc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestSaveCoefficients_WorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), CoefficientFileName)
	require.NoError(t, SaveCoefficients(path, []float64{0.5, 0.5}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
