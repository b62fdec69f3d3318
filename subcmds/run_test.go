// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/config"
	"github.com/wowtools/pricer/item"
)

func testRunConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		WowDir:           t.TempDir(),
		DataDir:          t.TempDir(),
		Account:          "MYACCOUNT",
		Realm:            "Grobbulus",
		Characters:       []string{"Amazona"},
		AuctionCharacter: "Amazona",
		Market:           config.MarketConfig{FreshnessHours: 24},
		Policy: config.PolicyConfig{
			StackSize:    5,
			AuctionHours: 24,
			MaxSell:      20,
		},
	}
}

func TestPolicyParamsOverrides(t *testing.T) {
	cfg := testRunConfig(t)
	cfg.Policy.MinProfit = decimal.NewFromInt(500)

	c := &Run{stackSize: 10, auctionHours: 12}
	params := c.policyParams(cfg)
	if params.StackSize != 10 {
		t.Errorf("stack size override: want 10, got %d", params.StackSize)
	}
	if params.AuctionMinutes != 720 {
		t.Errorf("duration override: want 720 minutes, got %d", params.AuctionMinutes)
	}
	if !params.MinProfit.Equal(decimal.NewFromInt(500)) {
		t.Errorf("min profit: want 500, got %s", params.MinProfit)
	}
	if params.Freshness != 24*time.Hour {
		t.Errorf("freshness: want 24h, got %s", params.Freshness)
	}

	// Without overrides the configured values survive.
	params = new(Run).policyParams(cfg)
	if params.StackSize != 5 || params.AuctionMinutes != 24*60 {
		t.Errorf("configured values: want 5/1440, got %d/%d", params.StackSize, params.AuctionMinutes)
	}
}

func TestReadAddonDataMissingFiles(t *testing.T) {
	cfg := testRunConfig(t)
	items := map[string]*item.Item{
		"Peacebloom": {Name: "Peacebloom", ID: 2447, Group: item.GroupBuy, TargetStock: 10},
	}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	snap, history, listings, err := readAddonData(cfg, items, now)
	if err != nil {
		t.Fatal(err)
	}
	// Missing addon files read as empty data, not failures.
	if got := snap.Inventory("Peacebloom").Stock(); got != 0 {
		t.Errorf("missing inventory must read as zero stock, got %d", got)
	}
	if !snap.Timestamp.Equal(now) {
		t.Errorf("snapshot timestamp: want %v, got %v", now, snap.Timestamp)
	}
	if len(history.Results) != 0 || len(history.Purchases) != 0 {
		t.Errorf("missing history must be empty, got %+v", history)
	}
	if len(listings) != 0 {
		t.Errorf("missing scan data must yield no listings, got %d", len(listings))
	}
}
