package common

import "math"

// Present returns the dereferenced non-nil values, skipping NaN.
func Present(values []*float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		out = append(out, *v)
	}
	return out
}

// Mean returns the arithmetic mean of values. ok is false for an empty slice.
func Mean(values []float64) (mean float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// MinMax returns the smallest and largest of values. ok is false for an empty slice.
func MinMax(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
