package quantize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag.
const wavFormatPCM = 1

// WAVData is a decoded mono PCM stream.
type WAVData struct {
	SampleRate int
	BitDepth   int
	Samples    []int
}

// wavBitDepth reports whether PCM WAV stores W-bit words as signed
// integers. 8-bit WAV is offset binary and is not supported.
func wavBitDepth(bits int) bool {
	switch bits {
	case 16, 24, 32:
		return true
	default:
		return false
	}
}

// WriteWAV stores the same quantized integers as the vector file in a mono
// PCM WAV, so the stimulus can be inspected with audio tooling. The word
// width must be 16, 24 or 32 bits.
func (e *Encoder) WriteWAV(path string, samples []float64, sampleRate int) (stats Stats, err error) {
	if !wavBitDepth(e.bits) {
		return stats, fmt.Errorf("%w: WAV output needs 16, 24 or 32 bits, got %d", ErrInvalidBits, e.bits)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: e.bits,
	}
	stats.Samples = len(samples)
	for i, x := range samples {
		word, overflow := e.Word(x)
		if overflow {
			stats.Overflows++
		}
		buf.Data[i] = int(e.Signed(word))
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".wav-*")
	if err != nil {
		return stats, fmt.Errorf("failed to create WAV file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := wav.NewEncoder(tmp, sampleRate, e.bits, 1, wavFormatPCM)
	if err = enc.Write(buf); err != nil {
		return stats, fmt.Errorf("failed to encode WAV: %w", err)
	}
	if err = enc.Close(); err != nil {
		return stats, fmt.Errorf("failed to finalize WAV: %w", err)
	}
	if err = tmp.Chmod(artifactFilePerm); err != nil {
		return stats, fmt.Errorf("failed to set WAV file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return stats, fmt.Errorf("failed to close WAV file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return stats, fmt.Errorf("failed to rename WAV file: %w", err)
	}
	return stats, nil
}

// ReadWAV decodes a mono PCM WAV written by WriteWAV.
func ReadWAV(path string) (WAVData, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVData{}, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return WAVData{}, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return WAVData{}, fmt.Errorf("failed to decode WAV: %w", err)
	}

	return WAVData{
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Samples:    buf.Data,
	}, nil
}
