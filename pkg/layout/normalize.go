package layout

import (
	"gonum.org/v1/gonum/floats"
)

// FlatValue is the normalized position of every value in a zero-width range.
const FlatValue = 0.5

// Unit maps v from [lo, hi] to [0, 1]. A zero-width range maps to FlatValue
// instead of dividing by zero.
func Unit(v, lo, hi float64) float64 {
	if hi <= lo {
		return FlatValue
	}
	return (v - lo) / (hi - lo)
}

// Normalize min-max scales values into [0, 1] in place and returns the range
// it scaled from.
func Normalize(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = floats.Min(values), floats.Max(values)
	for i, v := range values {
		values[i] = Unit(v, lo, hi)
	}
	return lo, hi
}
