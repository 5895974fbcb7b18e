package cicmodel

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWritePlotData(t *testing.T) {
	cfg := testConfig(t)
	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "plots")
	require.NoError(t, WritePlotData(dir, res))

	resp := readCSV(t, filepath.Join(dir, "response.csv"))
	require.Len(t, resp, cfg.ResponsePoints+1)
	assert.Equal(t, []string{"frequency_hz", "magnitude_db"}, resp[0])
	dc, err := strconv.ParseFloat(resp[1][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, dc, 1e-6)

	timeRows := readCSV(t, filepath.Join(dir, "time.csv"))
	require.Len(t, timeRows, cfg.Vector.Samples+1)
	assert.Equal(t, []string{"time_s", "raw", "filtered"}, timeRows[0])
	assert.Equal(t, []string{"0", "0"}, timeRows[1][:2])

	spec := readCSV(t, filepath.Join(dir, "spectrum.csv"))
	require.Len(t, spec, cfg.FFTSize/2+1)
	assert.Equal(t, []string{"frequency_hz", "raw", "filtered"}, spec[0])
}

func TestWriteCompensationData(t *testing.T) {
	comp, err := AnalyzeCompensation(DefaultConfig(), []float64{0.5, 0.5})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteCompensationData(dir, comp))

	rows := readCSV(t, filepath.Join(dir, "compensation.csv"))
	require.Len(t, rows, len(comp.Frequencies)+1)
	assert.Equal(t, []string{"frequency_hz", "cic_db", "cascade_db"}, rows[0])
	assert.Equal(t, []string{"0", "0", "0"}, rows[1])
}

func TestWritePlotData_BadDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := WriteCompensationData(filepath.Join(blocker, "plots"), &Compensation{})
	require.Error(t, err)
}
