package detect

import (
	"math"
	"slices"
)

// median returns the median of xs without modifying it.
// Even-length inputs average the two middle values. Empty input returns NaN.
func median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// mad returns the median absolute deviation of xs around center.
func mad(xs []float64, center float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	dev := make([]float64, len(xs))
	for i, x := range xs {
		dev[i] = math.Abs(x - center)
	}
	return median(dev)
}

// theilSenSlope returns the median of all pairwise slopes (ys[j]-ys[i])/(j-i)
// for i < j, with ys indexed by position. Fewer than two points returns 0.
//
// O(n^2) in time and space; n is a window of daily points.
func theilSenSlope(ys []float64) float64 {
	n := len(ys)
	if n < 2 {
		return 0
	}
	slopes := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			slopes = append(slopes, (ys[j]-ys[i])/float64(j-i))
		}
	}
	return median(slopes)
}
