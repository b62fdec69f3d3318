// Copyright (c) 2025 BVK Chaitanya

package pricedb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/policy"
)

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testStat(name string, market int64, at time.Time) *item.MarketStat {
	return &item.MarketStat{
		Item:        name,
		MarketPrice: decimal.NewFromInt(market),
		RecentPrice: decimal.NewFromInt(market),
		StdDev:      decimal.NewFromInt(1),
		Quantity:    100,
		Snapshot:    at,
	}
}

func TestMarketStats(t *testing.T) {
	ctx := context.Background()
	store := New(kvmemdb.New())

	if _, err := store.MarketStat(ctx, "Peacebloom"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted ErrNotExist, got %v", err)
	}

	if err := store.SetMarketStat(ctx, testStat("Peacebloom", 100, testTime.Add(-2*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := store.SetMarketStat(ctx, testStat("Peacebloom", 120, testTime)); err != nil {
		t.Fatal(err)
	}
	if err := store.SetMarketStat(ctx, testStat("Briarthorn", 300, testTime)); err != nil {
		t.Fatal(err)
	}

	stat, err := store.MarketStat(ctx, "Peacebloom")
	if err != nil {
		t.Fatal(err)
	}
	if !stat.MarketPrice.Equal(decimal.NewFromInt(120)) {
		t.Errorf("latest stat must win: got %s", stat.MarketPrice)
	}

	stats, err := store.MarketStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Errorf("want 2 items, got %d", len(stats))
	}

	// Both Peacebloom stats landed in the history.
	points, err := store.PriceHistory(ctx, "Peacebloom", testTime.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("want 2 history points, got %d", len(points))
	}
	if !points[0].At.Before(points[1].At) {
		t.Errorf("history must be chronological")
	}
	if !points[1].Price.Equal(decimal.NewFromInt(120)) {
		t.Errorf("latest point: want 120, got %s", points[1].Price)
	}

	// The since filter cuts the older point.
	points, err = store.PriceHistory(ctx, "Peacebloom", testTime.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 {
		t.Errorf("want 1 recent point, got %d", len(points))
	}
}

func TestSetMarketStatRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := New(kvmemdb.New())
	bad := &item.MarketStat{Item: "", MarketPrice: decimal.NewFromInt(1)}
	if err := store.SetMarketStat(ctx, bad); err == nil {
		t.Errorf("invalid stat must be rejected")
	}
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	store := New(kvmemdb.New())

	if _, err := store.LastSnapshot(ctx); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted ErrNotExist, got %v", err)
	}
	if _, err := store.FirstSnapshot(ctx); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted ErrNotExist, got %v", err)
	}

	for i, count := range []int64{10, 20, 30} {
		snap := item.NewSnapshot(testTime.Add(time.Duration(i) * time.Hour))
		snap.Items["Peacebloom"] = &item.Inventory{
			Counts: map[item.Location]int64{item.Bag: count},
		}
		snap.Monies["Amazona"] = decimal.NewFromInt(1000 + count)
		if err := store.AddSnapshot(ctx, snap); err != nil {
			t.Fatal(err)
		}
	}

	last, err := store.LastSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n := last.Inventory("Peacebloom").Stock(); n != 30 {
		t.Errorf("last snapshot stock: want 30, got %d", n)
	}
	if !last.Monies["Amazona"].Equal(decimal.NewFromInt(1030)) {
		t.Errorf("last snapshot money: got %s", last.Monies["Amazona"])
	}

	first, err := store.FirstSnapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n := first.Inventory("Peacebloom").Stock(); n != 10 {
		t.Errorf("first snapshot stock: want 10, got %d", n)
	}
	if !first.Timestamp.Equal(testTime) {
		t.Errorf("first snapshot time: want %v, got %v", testTime, first.Timestamp)
	}

	var seen []int64
	err = store.Snapshots(ctx, func(snap *item.Snapshot) error {
		seen = append(seen, snap.Inventory("Peacebloom").Stock())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen[0] != 10 || seen[2] != 30 {
		t.Errorf("snapshot iteration: got %v", seen)
	}

	bad := item.NewSnapshot(time.Time{})
	if err := store.AddSnapshot(ctx, bad); err == nil {
		t.Errorf("snapshot without timestamp must be rejected")
	}
}

func TestPolicies(t *testing.T) {
	ctx := context.Background()
	store := New(kvmemdb.New())

	first := []*policy.Policy{
		{Item: "Briarthorn", ItemID: 2450, Buy: &policy.BuyPolicy{Volume: 3, Ceiling: decimal.NewFromInt(900)}},
		{Item: "Peacebloom", ItemID: 2447, Buy: &policy.BuyPolicy{Volume: 8, Ceiling: decimal.NewFromInt(110)}},
	}
	if err := store.SetPolicies(ctx, first); err != nil {
		t.Fatal(err)
	}

	// A later run with fewer items must fully replace the set.
	second := []*policy.Policy{
		{Item: "Peacebloom", ItemID: 2447, Sell: &policy.SellPolicy{
			Low:   decimal.NewFromInt(100),
			High:  decimal.NewFromInt(150),
			Count: 2, Stack: 5, Duration: 1440,
		}},
	}
	if err := store.SetPolicies(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := store.Policies(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("stale policies must be replaced, got %d", len(got))
	}
	p := got[0]
	if p.Item != "Peacebloom" || p.Buy != nil || p.Sell == nil {
		t.Errorf("unexpected policy: %+v", p)
	}
	if !p.Sell.High.Equal(decimal.NewFromInt(150)) {
		t.Errorf("sell high: want 150, got %s", p.Sell.High)
	}
}
