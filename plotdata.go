package cicmodel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WritePlotData exports the arrays of a run for external plotting:
//
//	response.csv  frequency_hz, magnitude_db
//	time.csv      time_s, raw, filtered (first Vector.Samples samples)
//	spectrum.csv  frequency_hz, raw, filtered
//
// dir is created if needed.
func WritePlotData(dir string, res *Result) error {
	if err := os.MkdirAll(dir, plotDirPerm); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}

	resp := make([][]float64, len(res.ResponseDB))
	for i, db := range res.ResponseDB {
		resp[i] = []float64{res.Response.Frequencies[i], db}
	}
	if err := writeCSV(filepath.Join(dir, responseCSV), []string{"frequency_hz", "magnitude_db"}, resp); err != nil {
		return err
	}

	raw := res.Raw.Truncate(res.Config.Vector.Samples)
	filtered := res.Filtered.Truncate(res.Config.Vector.Samples)
	timeRows := make([][]float64, raw.Len())
	for i := range timeRows {
		timeRows[i] = []float64{raw.Time[i], raw.Samples[i], filtered.Samples[i]}
	}
	if err := writeCSV(filepath.Join(dir, timeCSV), []string{"time_s", "raw", "filtered"}, timeRows); err != nil {
		return err
	}

	specRows := make([][]float64, res.RawSpectrum.Len())
	for i := range specRows {
		specRows[i] = []float64{
			res.RawSpectrum.Frequencies[i],
			res.RawSpectrum.Magnitude[i],
			res.FilteredSpectrum.Magnitude[i],
		}
	}
	return writeCSV(filepath.Join(dir, spectrumCSV), []string{"frequency_hz", "raw", "filtered"}, specRows)
}

// WriteCompensationData exports a compensation analysis as
// compensation.csv (frequency_hz, cic_db, cascade_db).
func WriteCompensationData(dir string, comp *Compensation) error {
	if err := os.MkdirAll(dir, plotDirPerm); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}

	rows := make([][]float64, len(comp.Frequencies))
	for i := range rows {
		rows[i] = []float64{comp.Frequencies[i], comp.CICDB[i], comp.CascadeDB[i]}
	}
	return writeCSV(filepath.Join(dir, compensationCSV), []string{"frequency_hz", "cic_db", "cascade_db"}, rows)
}

func writeCSV(path string, header []string, rows [][]float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", filepath.Base(path), cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", filepath.Base(path), err)
	}
	return nil
}
