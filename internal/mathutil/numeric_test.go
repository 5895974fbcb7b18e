package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		stop     float64
		num      int
		endpoint bool
		want     []float64
	}{
		{"closed", 0, 1, 5, true, []float64{0, 0.25, 0.5, 0.75, 1}},
		{"half_open", 0, 1, 4, false, []float64{0, 0.25, 0.5, 0.75}},
		{"single", 3, 9, 1, true, []float64{3}},
		{"empty", 0, 1, 0, true, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linspace(tt.start, tt.stop, tt.num, tt.endpoint)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-15, "index %d", i)
			}
		})
	}
}

func TestLinspace_EndpointExact(t *testing.T) {
	got := Linspace(0, 12.5e6, 1024, true)
	assert.Equal(t, 12.5e6, got[len(got)-1])
	assert.Zero(t, got[0])
}

func TestPowerOfTwoHelpers(t *testing.T) {
	for _, n := range []int{1, 2, 4, 1024, 1 << 14} {
		assert.True(t, IsPowerOfTwo(n), "%d", n)
		assert.Equal(t, n, NextPowerOfTwo(n))
	}
	for _, n := range []int{0, -4, 3, 1000} {
		assert.False(t, IsPowerOfTwo(n), "%d", n)
	}
	assert.Equal(t, 32, NextPowerOfTwo(31))
	assert.Equal(t, 128, NextPowerOfTwo(86))
	assert.Equal(t, 1, NextPowerOfTwo(0))
}

func TestToDB(t *testing.T) {
	assert.InDelta(t, 60.0, ToDB(1000, 1e-9), 1e-12)
	assert.InDelta(t, -180.0, ToDB(0, 1e-9), 1e-9, "zero is floored")
	assert.False(t, math.IsInf(ToDB(-1, 1e-12), 0))
}

func TestFromDB(t *testing.T) {
	assert.InDelta(t, 1e-4, FromDB(-80), 1e-15)
	assert.InDelta(t, 1.0116, FromDB(0.1), 1e-4)
	assert.InDelta(t, 1000.0, FromDB(ToDB(1000, 0)), 1e-9)
}

func TestIntPow(t *testing.T) {
	z := complex(0.3, -0.7)
	want := z * z * z
	got := IntPow(z, 3)
	assert.InDelta(t, real(want), real(got), 1e-15)
	assert.InDelta(t, imag(want), imag(got), 1e-15)

	assert.Equal(t, complex(1, 0), IntPow(z, 0))
	assert.Equal(t, complex(0, 0), IntPow(0, 4), "exact zero stays exact")
}
