// Package stats holds the numeric helpers shared by the report engine. Every
// aggregate is guarded against empty input and returns 0 rather than NaN.
package stats

import (
	"math"
	"time"

	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/aggregator"
	mstats "github.com/montanaflynn/stats"
)

func points(xs []float64) []aggregator.Point {
	out := make([]aggregator.Point, len(xs))
	for i, x := range xs {
		out[i] = aggregator.Point{Value: x}
	}
	return out
}

func Sum(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return aggregator.Sum(points(xs))
}

func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return aggregator.Average(points(xs))
}

// SampleStdDev uses the n-1 denominator. Fewer than two values yield 0.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd, err := mstats.StandardDeviationSample(xs)
	if err != nil || math.IsNaN(sd) {
		return 0
	}
	return sd
}

func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m, err := mstats.Median(xs)
	if err != nil {
		return 0
	}
	return m
}

func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Min(m, x)
	}
	return m
}

func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Max(m, x)
	}
	return m
}

// ArgMax returns the index of the first maximum, or -1 for empty input.
func ArgMax(xs []float64) int {
	idx := -1
	for i, x := range xs {
		if idx < 0 || x > xs[idx] {
			idx = i
		}
	}
	return idx
}

// Round rounds half away from zero to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// MedianGap is the median spacing between consecutive timestamps.
func MedianGap(ts []time.Time) (time.Duration, bool) {
	if len(ts) < 2 {
		return 0, false
	}
	gaps := make([]float64, 0, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		gaps = append(gaps, float64(ts[i].Sub(ts[i-1])))
	}
	return time.Duration(Median(gaps)), true
}

// Trend compares the mean of the second half of a series with the first half.
// The split is at len/2, so for odd lengths the middle value goes to the
// second half.
func Trend(xs []float64) string {
	mid := len(xs) / 2
	if mid == 0 {
		return "stable"
	}
	first, second := Mean(xs[:mid]), Mean(xs[mid:])
	switch {
	case second > first*1.1:
		return "rising"
	case second < first*0.9:
		return "falling"
	default:
		return "stable"
	}
}
