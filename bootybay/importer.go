// Copyright (c) 2025 BVK Chaitanya

package bootybay

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/config"
	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/policy"
	"github.com/wowtools/pricer/pricedb"
)

// HistoryWindow is how far back cached price points stay relevant for
// prediction. It matches the fortnight of scans the remote API serves.
const HistoryWindow = 14 * 24 * time.Hour

// Importer refreshes the datastore's market statistics from the remote
// API. Fetch failures degrade to last-known-good cached data per item.
type Importer struct {
	client *Client
	store  *pricedb.Store
}

func NewImporter(client *Client, store *pricedb.Store) *Importer {
	return &Importer{client: client, store: store}
}

// Refresh fetches statistics for every configured item. Vendor-priced
// items are skipped. Returns the number of items refreshed; per-item
// failures are logged and counted, not fatal, so one flaky item cannot
// lose a whole run.
func (im *Importer) Refresh(ctx context.Context, items map[string]*item.Item, now time.Time) (int, error) {
	refreshed := 0
	var failed []string
	for _, name := range config.SortedNames(items) {
		v := items[name]
		if v.VendorPrice.IsPositive() {
			continue
		}
		stats, err := im.client.ItemStats(ctx, v.ID)
		if err != nil {
			slog.Warn("could not fetch market data; keeping cached statistic",
				"item", name, "err", err)
			failed = append(failed, name)
			continue
		}
		stat, err := statFromHistory(name, stats, now)
		if err != nil {
			slog.Warn("could not derive market statistic", "item", name, "err", err)
			failed = append(failed, name)
			continue
		}
		if err := im.store.SetMarketStat(ctx, stat); err != nil {
			return refreshed, fmt.Errorf("could not store market stat for %q: %w", name, err)
		}
		refreshed++
	}
	if refreshed == 0 && len(failed) > 0 {
		return 0, fmt.Errorf("all %d market fetches failed", len(failed))
	}
	return refreshed, nil
}

// statFromHistory turns the fetched scan series into one MarketStat
// using the exponentially weighted prediction.
func statFromHistory(name string, stats *Stats, now time.Time) (*item.MarketStat, error) {
	fortnight := stats.Fortnight()
	if len(fortnight) == 0 {
		return nil, fmt.Errorf("no scan history for %q", name)
	}
	points := make([]item.PricePoint, 0, len(fortnight))
	for _, p := range fortnight {
		points = append(points, item.PricePoint{
			At:       p.Time(),
			Price:    decimal.NewFromInt(p.Silver),
			Quantity: p.Quantity,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })

	price, stddev, ok := policy.Predict(points, policy.DefaultAlpha, policy.DefaultOutlierCap)
	if !ok {
		return nil, fmt.Errorf("prediction failed for %q", name)
	}
	latest := points[len(points)-1]
	return &item.MarketStat{
		Item:        name,
		MarketPrice: price,
		RecentPrice: latest.Price,
		StdDev:      stddev,
		Quantity:    stats.ListedQuantity(),
		Snapshot:    latest.At,
	}, nil
}

// RecomputeFromCache rebuilds market statistics from the stored price
// history without touching the network. Used by offline fetches when
// the prediction should reflect the full cached history even though no
// new data is available. Items with no usable history keep their last
// stored statistic. Returns the number of items recomputed.
func (im *Importer) RecomputeFromCache(ctx context.Context, items map[string]*item.Item, window time.Duration, now time.Time) (int, error) {
	recomputed := 0
	for _, name := range config.SortedNames(items) {
		v := items[name]
		if v.VendorPrice.IsPositive() {
			continue
		}
		points, err := im.store.PriceHistory(ctx, name, now.Add(-window))
		if err != nil {
			return recomputed, fmt.Errorf("could not read price history for %q: %w", name, err)
		}
		if len(points) == 0 {
			continue
		}
		price, stddev, ok := policy.Predict(points, policy.DefaultAlpha, policy.DefaultOutlierCap)
		if !ok {
			continue
		}
		latest := points[len(points)-1]
		stat := &item.MarketStat{
			Item:        name,
			MarketPrice: price,
			RecentPrice: latest.Price,
			StdDev:      stddev,
			Quantity:    latest.Quantity,
			Snapshot:    latest.At,
		}
		if err := im.store.SetMarketStat(ctx, stat); err != nil {
			return recomputed, fmt.Errorf("could not store recomputed stat for %q: %w", name, err)
		}
		recomputed++
	}
	return recomputed, nil
}
