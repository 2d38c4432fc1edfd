package services

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmpty is returned by reductions over no values
var ErrEmpty = errors.New("no values")

// Mean returns the arithmetic mean
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmpty
	}
	return stat.Mean(xs, nil), nil
}

// Median returns the middle value, averaging the two middle values when the
// count is even
func Median(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmpty
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// Mode returns the most frequent value. Ties go to the value seen first.
func Mode(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmpty
	}
	counts := make(map[float64]int, len(xs))
	best, bestCount := xs[0], 0
	for _, x := range xs {
		counts[x]++
	}
	for _, x := range xs {
		if counts[x] > bestCount {
			best, bestCount = x, counts[x]
		}
	}
	return best, nil
}

// StdDev returns the sample standard deviation (n-1), NaN for a single value
func StdDev(xs []float64) (float64, error) {
	switch len(xs) {
	case 0:
		return 0, ErrEmpty
	case 1:
		return math.NaN(), nil
	}
	return stat.StdDev(xs, nil), nil
}

// MinMax returns the smallest and largest value
func MinMax(xs []float64) (float64, float64, error) {
	if len(xs) == 0 {
		return 0, 0, ErrEmpty
	}
	return floats.Min(xs), floats.Max(xs), nil
}
