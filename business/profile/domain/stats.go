// Package domain contains the core domain types and statistics primitives for
// the fee profiling context.
package domain

import (
	"math"
	"math/big"
	"sort"

	"github.com/shopspring/decimal"
)

// WeiToGwei converts an amount in wei to gwei (1e9 wei). Nil reads as zero.
// The shift is done in base 10, so no binary rounding error is introduced
// before the float conversion.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	return decimal.NewFromBigInt(wei, -9).InexactFloat64()
}

// Median returns the statistical median: the middle element for odd-length
// input, the average of the two middle elements for even-length input.
// Empty input yields 0. The input slice is not mutated.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Percentile returns the nearest-rank percentile of values at quantile q.
// q is clamped to [0, 1], with NaN reading as 1; the rank is
// round-half-to-even of q*(n-1), so Percentile(v, 0) is the minimum and
// Percentile(v, 1) the maximum. Empty input yields 0. The input slice is
// not mutated.
func Percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// NaN would survive the clamp below and blow up the index conversion.
	if math.IsNaN(q) {
		q = 1
	}
	q = math.Max(0.0, math.Min(1.0, q))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	idx := int(math.RoundToEven(q * float64(len(sorted)-1)))
	return sorted[idx]
}

// Min returns the smallest value, 0 for empty input.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value, 0 for empty input.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Round3 rounds to 3 decimal places using banker's rounding, which keeps
// presented values stable across runs.
func Round3(v float64) float64 {
	return decimal.NewFromFloat(v).RoundBank(3).InexactFloat64()
}

// Round2 rounds to 2 decimal places using banker's rounding.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).RoundBank(2).InexactFloat64()
}
