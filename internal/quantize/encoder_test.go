package quantize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEncoder16(t *testing.T) *Encoder {
	t.Helper()
	e, err := NewEncoder(16)
	require.NoError(t, err)
	return e
}

func TestNewEncoder(t *testing.T) {
	tests := []struct {
		name    string
		bits    int
		opts    []Option
		digits  int
		scale   float64
		wantErr error
	}{
		{"16_bit", 16, nil, 4, 32768, nil},
		{"12_bit", 12, nil, 3, 2048, nil},
		{"18_bit", 18, nil, 5, 131072, nil},
		{"custom_scale", 16, []Option{WithScale(1000)}, 4, 1000, nil},
		{"too_narrow", 1, nil, 0, 0, ErrInvalidBits},
		{"too_wide", 33, nil, 0, 0, ErrInvalidBits},
		{"zero_scale", 16, []Option{WithScale(0)}, 0, 0, ErrInvalidScale},
		{"nan_scale", 16, []Option{WithScale(math.NaN())}, 0, 0, ErrInvalidScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEncoder(tt.bits, tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bits, e.Bits())
			assert.Equal(t, tt.digits, e.Digits())
			assert.Equal(t, tt.scale, e.Scale())
		})
	}
}

func TestEncode_KnownWords(t *testing.T) {
	e := newEncoder16(t)

	tests := []struct {
		x    float64
		want string
	}{
		{-1.0, "8000"},
		{(math.Exp2(15) - 1) / math.Exp2(15), "7FFF"},
		{0, "0000"},
		{-1.0 / 32768, "FFFF"},
		{0.5, "4000"},
		{-0.5, "C000"},
		{1.5 / 32768, "0002"},  // half to even
		{2.5 / 32768, "0002"},  // half to even
		{-2.5 / 32768, "FFFE"}, // half to even
	}

	for _, tt := range tests {
		words, stats := e.Encode([]float64{tt.x})
		assert.Equal(t, tt.want, words[0], "x=%g", tt.x)
		assert.Zero(t, stats.Overflows, "x=%g", tt.x)
	}
}

func TestEncode_OverflowWraps(t *testing.T) {
	e := newEncoder16(t)

	words, stats := e.Encode([]float64{1.0, -1.0 - 1.0/32768, 2.0, math.NaN(), 0.25})
	assert.Equal(t, []string{"8000", "7FFF", "0000", "0000", "2000"}, words)
	assert.Equal(t, 5, stats.Samples)
	assert.Equal(t, 4, stats.Overflows)
}

func TestEncode_NarrowWidth(t *testing.T) {
	e, err := NewEncoder(12)
	require.NoError(t, err)

	words, _ := e.Encode([]float64{-1, 0.5, -1.0 / 2048})
	assert.Equal(t, []string{"800", "400", "FFF"}, words)
}

func TestDecode_RoundTrip(t *testing.T) {
	for _, bits := range []int{8, 12, 16, 24, 32} {
		e, err := NewEncoder(bits)
		require.NoError(t, err)

		for i := range 200 {
			x := -1 + 2*float64(i)/200
			words, stats := e.Encode([]float64{x})
			require.Zero(t, stats.Overflows)

			got, err := e.Decode(words[0])
			require.NoError(t, err)
			assert.LessOrEqual(t, math.Abs(got-x), 0.5/e.Scale(), "bits=%d x=%g", bits, x)
		}
	}
}

func TestDecode_Invalid(t *testing.T) {
	e := newEncoder16(t)

	for _, word := range []string{"", "12345", "GGGG", "-001"} {
		_, err := e.Decode(word)
		require.ErrorIs(t, err, ErrInvalidWord, "word=%q", word)
	}

	e10, err := NewEncoder(10)
	require.NoError(t, err)
	_, err = e10.Decode("7FF")
	require.ErrorIs(t, err, ErrInvalidWord, "exceeds 10 bits")
}

func TestSigned(t *testing.T) {
	e := newEncoder16(t)
	assert.Equal(t, int64(-32768), e.Signed(0x8000))
	assert.Equal(t, int64(32767), e.Signed(0x7FFF))
	assert.Equal(t, int64(-1), e.Signed(0xFFFF))
	assert.Equal(t, int64(0), e.Signed(0))
}
