// Package quantize scales samples to W-bit two's-complement integers and
// encodes them as the hexadecimal test vectors read by the HDL testbench.
package quantize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Word width limits.
const (
	MinBits = 2
	MaxBits = 32

	hexBitsPerDigit = 4
)

var (
	// ErrInvalidBits is returned for a word width outside [MinBits, MaxBits].
	ErrInvalidBits = errors.New("quantize: invalid word width")

	// ErrInvalidScale is returned for a non-positive or non-finite scale.
	ErrInvalidScale = errors.New("quantize: invalid scale")

	// ErrInvalidWord is returned when a vector line is not a W-bit hex word.
	ErrInvalidWord = errors.New("quantize: invalid word")
)

// Stats reports what happened while encoding a block of samples.
type Stats struct {
	// Samples is the number of samples encoded.
	Samples int

	// Overflows counts samples whose rounded value fell outside the signed
	// W-bit range and was wrapped modulo 2^W. Non-finite samples are
	// encoded as zero and counted here too.
	Overflows int
}

// Encoder converts samples in [-1, 1) to W-bit two's-complement words.
type Encoder struct {
	bits    int
	scale   float64
	modulus float64
	digits  int
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithScale overrides the default full-scale factor 2^(W-1).
func WithScale(scale float64) Option {
	return func(e *Encoder) {
		e.scale = scale
	}
}

// NewEncoder returns an encoder for bits-wide words.
func NewEncoder(bits int, opts ...Option) (*Encoder, error) {
	if bits < MinBits || bits > MaxBits {
		return nil, fmt.Errorf("%w: %d bits (want %d..%d)", ErrInvalidBits, bits, MinBits, MaxBits)
	}

	e := &Encoder{
		bits:    bits,
		scale:   math.Ldexp(1, bits-1),
		modulus: math.Ldexp(1, bits),
		digits:  (bits + hexBitsPerDigit - 1) / hexBitsPerDigit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if e.scale <= 0 || math.IsNaN(e.scale) || math.IsInf(e.scale, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidScale, e.scale)
	}
	return e, nil
}

// Bits returns the word width W.
func (e *Encoder) Bits() int { return e.bits }

// Scale returns the full-scale factor.
func (e *Encoder) Scale() float64 { return e.scale }

// Digits returns the number of hex digits per word, ⌈W/4⌉.
func (e *Encoder) Digits() int { return e.digits }

// Word returns the two's-complement word for x: round-half-to-even of
// x·scale, wrapped modulo 2^W. overflow reports that wrapping changed the
// value.
func (e *Encoder) Word(x float64) (word uint64, overflow bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, true
	}

	y := math.RoundToEven(x * e.scale)
	half := e.modulus / 2
	overflow = y < -half || y >= half

	wrapped := math.Mod(y, e.modulus)
	if wrapped < 0 {
		wrapped += e.modulus
	}
	return uint64(wrapped), overflow
}

// Signed converts a word back to its signed integer value.
func (e *Encoder) Signed(word uint64) int64 {
	v := int64(word)
	if word >= uint64(e.modulus/2) {
		v -= int64(e.modulus)
	}
	return v
}

// Format renders word as ⌈W/4⌉ uppercase hex digits.
func (e *Encoder) Format(word uint64) string {
	return fmt.Sprintf("%0*X", e.digits, word)
}

// Encode returns one formatted word per sample.
func (e *Encoder) Encode(samples []float64) ([]string, Stats) {
	out := make([]string, len(samples))
	stats := Stats{Samples: len(samples)}
	for i, x := range samples {
		word, overflow := e.Word(x)
		if overflow {
			stats.Overflows++
		}
		out[i] = e.Format(word)
	}
	return out, stats
}

// Decode parses one hex word and returns signed/scale.
func (e *Encoder) Decode(word string) (float64, error) {
	word = strings.TrimSpace(word)
	if word == "" || len(word) > e.digits {
		return 0, fmt.Errorf("%w: %q is not %d hex digits", ErrInvalidWord, word, e.digits)
	}

	v, err := strconv.ParseUint(word, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidWord, word, err)
	}
	if float64(v) >= e.modulus {
		return 0, fmt.Errorf("%w: %q exceeds %d bits", ErrInvalidWord, word, e.bits)
	}

	return float64(e.Signed(v)) / e.scale, nil
}
