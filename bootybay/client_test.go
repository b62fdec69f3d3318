// Copyright (c) 2025 BVK Chaitanya

package bootybay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/pricedb"
)

var statsTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func statsBody(price int64) string {
	base := statsTime.Unix()
	return fmt.Sprintf(`{
		"history": [[
			{"snapshot": %d, "silver": %d, "quantity": 120},
			{"snapshot": %d, "silver": %d, "quantity": 150},
			{"snapshot": %d, "silver": %d, "quantity": 90}
		]],
		"daily": [{"date": "2025-02-27", "silver": %d, "quantity": 100}],
		"auctions": {"data": [
			{"quantity": 20, "buy": 40000, "sellername": "Rival"},
			{"quantity": 5, "buy": 9000, "sellername": "Other"}
		]}
	}`, base-7200, price, base-3600, price, base, price, price)
}

func newTestServer(t *testing.T, price int64, wantItem string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/item.php", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("house"); got != "grobbulus-a" {
			t.Errorf("house: want grobbulus-a, got %q", got)
		}
		if got := r.URL.Query().Get("item"); got != wantItem {
			t.Errorf("item: want %q, got %q", wantItem, got)
		}
		fmt.Fprint(w, statsBody(price))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestItemStats(t *testing.T) {
	server := newTestServer(t, 2000, "2447")
	client := NewClient(server.URL, "grobbulus-a", 600)

	stats, err := client.ItemStats(context.Background(), 2447)
	if err != nil {
		t.Fatal(err)
	}
	fortnight := stats.Fortnight()
	if len(fortnight) != 3 {
		t.Fatalf("want 3 history points, got %d", len(fortnight))
	}
	if fortnight[2].Silver != 2000 {
		t.Errorf("price: want 2000, got %d", fortnight[2].Silver)
	}
	if !fortnight[2].Time().Equal(statsTime) {
		t.Errorf("snapshot time: want %v, got %v", statsTime, fortnight[2].Time())
	}
	if n := stats.ListedQuantity(); n != 25 {
		t.Errorf("listed quantity: want 25, got %d", n)
	}
}

func TestItemStatsCaptcha(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/item.php", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>Please solve this CAPTCHA</body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, "grobbulus-a", 600)
	if _, err := client.ItemStats(context.Background(), 2447); !errors.Is(err, ErrCaptcha) {
		t.Errorf("want ErrCaptcha, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, 2000, "2447")
	client := NewClient(server.URL, "grobbulus-a", 600)
	store := pricedb.New(kvmemdb.New())

	items := map[string]*item.Item{
		"Peacebloom": {Name: "Peacebloom", ID: 2447, Group: item.GroupBuy, TargetStock: 100},
		"Crystal Vial": {
			Name: "Crystal Vial", ID: 8925, Group: item.GroupBuy,
			VendorPrice: decimal.NewFromInt(400),
		},
	}
	n, err := NewImporter(client, store).Refresh(ctx, items, statsTime.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	// The vendor-priced item is not fetched.
	if n != 1 {
		t.Fatalf("want 1 refreshed item, got %d", n)
	}

	stat, err := store.MarketStat(ctx, "Peacebloom")
	if err != nil {
		t.Fatal(err)
	}
	// A constant series predicts its own value.
	if !stat.MarketPrice.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("market price: want 2000, got %s", stat.MarketPrice)
	}
	if !stat.StdDev.IsZero() {
		t.Errorf("stddev of constant series: want 0, got %s", stat.StdDev)
	}
	if stat.Quantity != 25 {
		t.Errorf("quantity: want 25, got %d", stat.Quantity)
	}
	if !stat.Snapshot.Equal(statsTime) {
		t.Errorf("snapshot: want %v, got %v", statsTime, stat.Snapshot)
	}

	points, err := store.PriceHistory(ctx, "Peacebloom", statsTime.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 {
		t.Errorf("refresh must record one history point, got %d", len(points))
	}
}

func TestRecomputeFromCache(t *testing.T) {
	ctx := context.Background()
	store := pricedb.New(kvmemdb.New())

	// An ancient point outside the history window must not influence
	// the recomputed prediction.
	old := &item.MarketStat{
		Item:        "Peacebloom",
		MarketPrice: decimal.NewFromInt(9999),
		RecentPrice: decimal.NewFromInt(9999),
		Quantity:    10,
		Snapshot:    statsTime.Add(-20 * 24 * time.Hour),
	}
	if err := store.SetMarketStat(ctx, old); err != nil {
		t.Fatal(err)
	}
	for _, age := range []time.Duration{2 * time.Hour, time.Hour, 0} {
		stat := &item.MarketStat{
			Item:        "Peacebloom",
			MarketPrice: decimal.NewFromInt(2000),
			RecentPrice: decimal.NewFromInt(2000),
			Quantity:    50,
			Snapshot:    statsTime.Add(-age),
		}
		if err := store.SetMarketStat(ctx, stat); err != nil {
			t.Fatal(err)
		}
	}

	items := map[string]*item.Item{
		"Peacebloom": {Name: "Peacebloom", ID: 2447, Group: item.GroupBuy, TargetStock: 100},
		"Crystal Vial": {
			Name: "Crystal Vial", ID: 8925, Group: item.GroupBuy,
			VendorPrice: decimal.NewFromInt(400),
		},
		"Briarthorn": {Name: "Briarthorn", ID: 2450, Group: item.GroupBuy},
	}

	// No network client: recompute works purely from the store.
	n, err := NewImporter(nil, store).RecomputeFromCache(ctx, items, HistoryWindow, statsTime.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	// Vendor-priced and history-less items are skipped.
	if n != 1 {
		t.Fatalf("want 1 recomputed item, got %d", n)
	}

	stat, err := store.MarketStat(ctx, "Peacebloom")
	if err != nil {
		t.Fatal(err)
	}
	if !stat.MarketPrice.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("market price: want 2000, got %s", stat.MarketPrice)
	}
	if !stat.StdDev.IsZero() {
		t.Errorf("stddev of constant series: want 0, got %s", stat.StdDev)
	}
	if !stat.Snapshot.Equal(statsTime) {
		t.Errorf("snapshot: want %v, got %v", statsTime, stat.Snapshot)
	}

	if _, err := store.MarketStat(ctx, "Briarthorn"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("history-less item must stay absent, got %v", err)
	}
}

func TestRefreshAllFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "grobbulus-a", 600)
	store := pricedb.New(kvmemdb.New())
	items := map[string]*item.Item{
		"Peacebloom": {Name: "Peacebloom", ID: 2447, Group: item.GroupBuy},
	}
	if _, err := NewImporter(client, store).Refresh(context.Background(), items, statsTime); err == nil {
		t.Errorf("want error when every fetch fails")
	}
}
