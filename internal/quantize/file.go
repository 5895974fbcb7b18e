package quantize

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultVectorDir is where the testbench expects its stimulus files.
const DefaultVectorDir = "sim/data"

const (
	vectorDirPerm    = 0o755
	artifactFilePerm = 0o644
)

// VectorFileName returns dir/input_signal_<bits>bit.dat.
func VectorFileName(dir string, bits int) string {
	return filepath.Join(dir, fmt.Sprintf("input_signal_%dbit.dat", bits))
}

// WriteVectors writes one word per line with no header.
func (e *Encoder) WriteVectors(w io.Writer, samples []float64) (Stats, error) {
	bw := bufio.NewWriter(w)
	stats := Stats{Samples: len(samples)}

	for i, x := range samples {
		word, overflow := e.Word(x)
		if overflow {
			stats.Overflows++
		}
		if _, err := fmt.Fprintf(bw, "%0*X\n", e.digits, word); err != nil {
			return stats, fmt.Errorf("failed to write sample %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush vectors: %w", err)
	}
	return stats, nil
}

// WriteVectorFile writes the vector file at path, creating its directory.
// Data goes to a temporary file in the same directory that is renamed on
// success; on any failure no file is left at path.
func (e *Encoder) WriteVectorFile(path string, samples []float64) (stats Stats, err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, vectorDirPerm); err != nil {
		return stats, fmt.Errorf("failed to create vector directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vectors-*")
	if err != nil {
		return stats, fmt.Errorf("failed to create vector file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if stats, err = e.WriteVectors(tmp, samples); err != nil {
		return stats, err
	}
	if err = tmp.Chmod(artifactFilePerm); err != nil {
		return stats, fmt.Errorf("failed to set vector file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return stats, fmt.Errorf("failed to close vector file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return stats, fmt.Errorf("failed to rename vector file: %w", err)
	}
	return stats, nil
}

// ReadVectors decodes one word per line. Blank lines are skipped.
func (e *Encoder) ReadVectors(r io.Reader) ([]float64, error) {
	var out []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := e.Decode(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vectors: %w", err)
	}
	return out, nil
}

// ReadVectorFile decodes the vector file at path.
func (e *Encoder) ReadVectorFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return e.ReadVectors(f)
}
