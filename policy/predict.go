// Copyright (c) 2025 BVK Chaitanya

package policy

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/item"
)

// DefaultAlpha is the exponential weighting used for price prediction.
const DefaultAlpha = 0.2

// DefaultOutlierCap is the quantile at which price history is clipped
// on both ends before prediction.
const DefaultOutlierCap = 0.025

// Predict estimates the fair price and volatility from an item's price
// history. Observations are clipped to the [cap, 1-cap] quantile range
// to drop outliers, then averaged with exponential weighting so recent
// prices dominate. Returns false when the history is empty.
func Predict(points []item.PricePoint, alpha, cap float64) (price, stddev decimal.Decimal, ok bool) {
	if len(points) == 0 {
		return decimal.Zero, decimal.Zero, false
	}
	sorted := make([]item.PricePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i], _ = p.Price.Float64()
	}

	lo := quantile(values, cap)
	hi := quantile(values, 1-cap)
	for i, v := range values {
		values[i] = math.Min(math.Max(v, lo), hi)
	}

	mean := ewmMean(values, alpha)
	return decimal.NewFromFloat(mean).Round(0), decimal.NewFromFloat(sampleStdDev(values)).Round(0), true
}

// ewmMean is the adjusted exponentially weighted mean of the series at
// its final observation: sum((1-a)^i * x[n-i]) / sum((1-a)^i).
func ewmMean(values []float64, alpha float64) float64 {
	var num, den float64
	w := 1.0
	for i := len(values) - 1; i >= 0; i-- {
		num += w * values[i]
		den += w
		w *= 1 - alpha
	}
	return num / den
}

func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// quantile returns the q-th quantile with linear interpolation between
// order statistics.
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
