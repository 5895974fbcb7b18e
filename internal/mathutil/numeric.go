package mathutil

import (
	"math"
	"math/bits"
)

// Linspace returns num evenly spaced values over [start, stop].
// When endpoint is false the interval is half-open and stop is excluded,
// the step becoming (stop-start)/num.
func Linspace(start, stop float64, num int, endpoint bool) []float64 {
	if num <= 0 {
		return []float64{}
	}

	out := make([]float64, num)
	if num == 1 {
		out[0] = start
		return out
	}

	div := float64(num)
	if endpoint {
		div = float64(num - 1)
	}
	step := (stop - start) / div

	for i := range out {
		out[i] = start + float64(i)*step
	}
	if endpoint {
		out[num-1] = stop
	}

	return out
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// ToDB converts a linear amplitude to decibels after flooring it at floor.
func ToDB(magnitude, floor float64) float64 {
	if magnitude < floor {
		magnitude = floor
	}
	return dbMagnitudeMultiplier * math.Log10(magnitude)
}

// FromDB converts decibels to a linear amplitude ratio: 10^(db/20).
func FromDB(db float64) float64 {
	return math.Pow(dbPowerBase, db/dbMagnitudeMultiplier)
}

// IntPow raises a complex value to a non-negative integer power by
// repeated squaring. Integer exponents avoid the branch-cut handling of
// cmplx.Pow and keep exact zeros exact.
func IntPow(z complex128, n int) complex128 {
	result := complex(1, 0)
	for n > 0 {
		if n&1 == 1 {
			result *= z
		}
		z *= z
		n >>= 1
	}
	return result
}
