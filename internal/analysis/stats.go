/**
 * @description
 * Small statistics helpers shared by the benchmarking and scoring stages.
 * All of them are total functions: empty inputs yield documented neutral
 * values instead of errors, because upstream pools are frequently empty.
 *
 * @dependencies
 * - standard "math" and "sort"
 */

package analysis

import (
	"math"
	"sort"
)

// PercentileRank returns the percentage of data strictly below value.
// Ties do not count toward rank: the minimum of a dataset ranks 0 and the
// maximum ranks below 100. An empty dataset yields the neutral prior 50.
func PercentileRank(value float64, data []float64) float64 {
	if len(data) == 0 {
		return 50.0
	}
	below := 0
	for _, x := range data {
		if x < value {
			below++
		}
	}
	return float64(below) / float64(len(data)) * 100
}

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range data {
		sum += x
	}
	return sum / float64(len(data))
}

// median returns the middle value, or 0 for an empty slice.
func median(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// safeMedian returns the median, or the given default for an empty slice.
func safeMedian(data []float64, fallback float64) float64 {
	if len(data) == 0 {
		return fallback
	}
	return median(data)
}

// stdDev returns the sample standard deviation. Fewer than two samples
// yield 0, matching the benchmarking contract.
func stdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	m := mean(data)
	sumSq := 0.0
	for _, x := range data {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(data)-1))
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimal place (presentation precision for scores).
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round3 rounds to three decimal places (presentation precision for weights).
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
