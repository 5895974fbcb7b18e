package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CoefficientFileName is the artifact name consumed by the HDL flow.
const CoefficientFileName = "fir_compensator_lowpass_coef.txt"

// WriteCoefficients writes one coefficient per line using CoefficientFormat.
func WriteCoefficients(w io.Writer, coeffs []float64) error {
	bw := bufio.NewWriter(w)
	for i, c := range coeffs {
		if _, err := fmt.Fprintf(bw, CoefficientFormat, c); err != nil {
			return fmt.Errorf("failed to write coefficient %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush coefficients: %w", err)
	}
	return nil
}

// SaveCoefficients writes coeffs to path. The file is written next to its
// destination and renamed into place, so a failed write leaves no file.
func SaveCoefficients(path string, coeffs []float64) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".coef-*")
	if err != nil {
		return fmt.Errorf("failed to create coefficient file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = WriteCoefficients(tmp, coeffs); err != nil {
		return err
	}
	if err = tmp.Chmod(artifactFilePerm); err != nil {
		return fmt.Errorf("failed to set coefficient file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close coefficient file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename coefficient file: %w", err)
	}
	return nil
}

// ReadCoefficients parses one coefficient per line. Blank lines are skipped.
func ReadCoefficients(r io.Reader) ([]float64, error) {
	var coeffs []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		c, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		coeffs = append(coeffs, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read coefficients: %w", err)
	}
	return coeffs, nil
}
