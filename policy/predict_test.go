// Copyright (c) 2025 BVK Chaitanya

package policy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/item"
)

func points(prices ...int64) []item.PricePoint {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]item.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = item.PricePoint{At: base.Add(time.Duration(i) * time.Hour), Price: decimal.NewFromInt(p)}
	}
	return out
}

func TestPredictEmptyHistory(t *testing.T) {
	if _, _, ok := Predict(nil, DefaultAlpha, DefaultOutlierCap); ok {
		t.Errorf("empty history must not predict")
	}
}

func TestPredictConstantSeries(t *testing.T) {
	price, stddev, ok := Predict(points(100, 100, 100, 100), DefaultAlpha, DefaultOutlierCap)
	if !ok {
		t.Fatalf("want prediction")
	}
	if !price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("constant series: want 100, got %s", price)
	}
	if !stddev.IsZero() {
		t.Errorf("constant series: want zero stddev, got %s", stddev)
	}
}

func TestPredictWeighsRecentPrices(t *testing.T) {
	rising, _, _ := Predict(points(100, 100, 100, 200), DefaultAlpha, 0)
	falling, _, _ := Predict(points(200, 100, 100, 100), DefaultAlpha, 0)
	if rising.LessThanOrEqual(falling) {
		t.Errorf("recent prices must dominate: rising %s vs falling %s", rising, falling)
	}
	if rising.LessThanOrEqual(decimal.NewFromInt(100)) || rising.GreaterThanOrEqual(decimal.NewFromInt(200)) {
		t.Errorf("prediction must fall inside the observed range, got %s", rising)
	}
}

func TestPredictClipsOutliers(t *testing.T) {
	series := points(100, 101, 99, 100, 101, 99, 100, 101, 99, 1000000)
	clipped, _, _ := Predict(series, DefaultAlpha, 0.25)
	raw, _, _ := Predict(series, DefaultAlpha, 0)
	if clipped.GreaterThanOrEqual(raw) {
		t.Errorf("clipping must pull the outlier in: clipped %s, raw %s", clipped, raw)
	}
	if clipped.GreaterThan(decimal.NewFromInt(1000)) {
		t.Errorf("clipped prediction still dominated by outlier: %s", clipped)
	}
}

func TestPredictSortsByTime(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	shuffled := []item.PricePoint{
		{At: base.Add(3 * time.Hour), Price: decimal.NewFromInt(200)},
		{At: base, Price: decimal.NewFromInt(100)},
		{At: base.Add(time.Hour), Price: decimal.NewFromInt(100)},
		{At: base.Add(2 * time.Hour), Price: decimal.NewFromInt(100)},
	}
	got, _, _ := Predict(shuffled, DefaultAlpha, 0)
	want, _, _ := Predict(points(100, 100, 100, 200), DefaultAlpha, 0)
	if !got.Equal(want) {
		t.Errorf("prediction must order observations by time: got %s, want %s", got, want)
	}
}
