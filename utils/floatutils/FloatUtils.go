// Package floatutils provides utilities for working with floats
package floatutils

import "math"

// IsFinite returns whether a floating point is neither NaN nor infinite
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// Max gets the maximum value and indices of the maximum values in
// a slice of float64.
func MaxSlice(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}

	for i, value := range values[1:] {
		if value > max {
			max = value
			indices = []int{i + 1}
		} else if value == max {
			indices = append(indices, i+1)
		}
	}
	return
}
