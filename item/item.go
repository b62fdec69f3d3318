// Copyright (c) 2025 BVK Chaitanya

// Package item defines the data model shared by the pricer pipeline:
// user items of interest, market statistics and inventory snapshots.
// All money values are decimal copper amounts.
package item

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Group classifies how an item participates in trading.
type Group string

const (
	// GroupBuy items are raw materials we replenish from the auction house.
	GroupBuy Group = "Buy"

	// GroupSell items are goods we manufacture and list for sale.
	GroupSell Group = "Sell"

	// GroupSkip items are tracked for inventory value only.
	GroupSkip Group = "Skip"
)

// Item is one user-configured item of interest.
type Item struct {
	// Name is the unique in-game item name and the key used everywhere.
	Name string

	// ID is the game client's numeric item id, required to address the
	// item in addon data files.
	ID int64

	Group Group

	// TargetStock is the mean holding level the user wants to maintain
	// across bags and bank.
	TargetStock int64

	// StockDeviation is the acceptable holding variability, in items.
	StockDeviation int64

	// BuyMargin is the fraction above market price the user tolerates
	// when bidding (0.10 means bids up to 110% of market).
	BuyMargin decimal.Decimal

	// SellMargin is the fraction around market price used to derive the
	// sell price band.
	SellMargin decimal.Decimal

	// VendorPrice, when non-zero, overrides market data for items bought
	// from NPC vendors at a fixed price.
	VendorPrice decimal.Decimal

	// Deposit is the full listing deposit for one auction cycle.
	Deposit decimal.Decimal

	// MadeFrom maps ingredient item names to per-unit quantities for
	// craftable items. Empty for raw materials.
	MadeFrom map[string]int64

	// MaxSell caps how many units are listed in a single run. Zero means
	// use the run's default.
	MaxSell int64
}

// Craftable reports whether the item has a crafting recipe.
func (v *Item) Craftable() bool {
	return len(v.MadeFrom) > 0
}

// Check validates the fields that the policy engine depends on.
func (v *Item) Check() error {
	if len(v.Name) == 0 {
		return fmt.Errorf("item name cannot be empty")
	}
	if v.Group != GroupBuy && v.Group != GroupSell && v.Group != GroupSkip {
		return fmt.Errorf("item %q has invalid group %q", v.Name, v.Group)
	}
	if v.TargetStock < 0 {
		return fmt.Errorf("item %q target stock cannot be negative", v.Name)
	}
	if v.BuyMargin.IsNegative() || v.SellMargin.IsNegative() {
		return fmt.Errorf("item %q margins cannot be negative", v.Name)
	}
	if v.VendorPrice.IsNegative() {
		return fmt.Errorf("item %q vendor price cannot be negative", v.Name)
	}
	for name, count := range v.MadeFrom {
		if count <= 0 {
			return fmt.Errorf("item %q ingredient %q has invalid count %d", v.Name, name, count)
		}
	}
	return nil
}

// MarketStat holds externally sourced price statistics for one item at
// one snapshot time.
type MarketStat struct {
	Item string

	// MarketPrice is the predicted fair price.
	MarketPrice decimal.Decimal

	// RecentPrice is the most recently observed listing price.
	RecentPrice decimal.Decimal

	// StdDev is the price volatility over the statistic window.
	StdDev decimal.Decimal

	// Quantity is the number of units listed at the snapshot.
	Quantity int64

	// Snapshot is when the statistic was captured at the source.
	Snapshot time.Time
}

// Age returns how old the statistic is at the given instant.
func (s *MarketStat) Age(now time.Time) time.Duration {
	return now.Sub(s.Snapshot)
}

// Fresh reports whether the statistic is younger than the freshness
// threshold. Stale statistics must not drive buy/sell decisions.
func (s *MarketStat) Fresh(now time.Time, threshold time.Duration) bool {
	age := s.Age(now)
	return age >= 0 && age <= threshold
}

// Check validates a market statistic before it enters the datastore.
func (s *MarketStat) Check() error {
	if len(s.Item) == 0 {
		return fmt.Errorf("market stat item name cannot be empty")
	}
	if s.MarketPrice.IsNegative() || s.RecentPrice.IsNegative() {
		return fmt.Errorf("market stat for %q has negative price", s.Item)
	}
	if s.StdDev.IsNegative() {
		return fmt.Errorf("market stat for %q has negative stddev", s.Item)
	}
	if s.Snapshot.IsZero() {
		return fmt.Errorf("market stat for %q has no snapshot time", s.Item)
	}
	return nil
}

// PricePoint is one observation in an item's price history.
type PricePoint struct {
	At       time.Time
	Price    decimal.Decimal
	Quantity int64
}

// Location identifies where in the game an item stack is held.
type Location string

const (
	Bag     Location = "bag"
	Bank    Location = "bank"
	Auction Location = "auction"
	Mailbox Location = "mail"
)

// Locations lists the tracked locations in display order.
var Locations = []Location{Bag, Bank, Auction, Mailbox}

// Inventory holds the per-location counts of one item, summed across
// all characters.
type Inventory struct {
	Counts map[Location]int64
}

func NewInventory() *Inventory {
	return &Inventory{Counts: make(map[Location]int64)}
}

func (v *Inventory) Add(loc Location, count int64) {
	if v.Counts == nil {
		v.Counts = make(map[Location]int64)
	}
	v.Counts[loc] += count
}

// Stock is the immediately tradable holding: bags plus bank.
func (v *Inventory) Stock() int64 {
	if v == nil {
		return 0
	}
	return v.Counts[Bag] + v.Counts[Bank]
}

// Total counts holdings across every tracked location.
func (v *Inventory) Total() int64 {
	if v == nil {
		return 0
	}
	var total int64
	for _, n := range v.Counts {
		total += n
	}
	return total
}

// Listed is the count currently sitting in the auction house.
func (v *Inventory) Listed() int64 {
	if v == nil {
		return 0
	}
	return v.Counts[Auction]
}

// Snapshot captures one run's view of all characters' inventories.
type Snapshot struct {
	Timestamp time.Time

	// Items maps item name to location counts summed over characters.
	Items map[string]*Inventory

	// BagsByCharacter maps character name to per-item bag counts; the
	// sell policy only lists from the auction character's bags.
	BagsByCharacter map[string]map[string]int64

	// Monies maps character name to copper on hand.
	Monies map[string]decimal.Decimal
}

func NewSnapshot(at time.Time) *Snapshot {
	return &Snapshot{
		Timestamp:       at,
		Items:           make(map[string]*Inventory),
		BagsByCharacter: make(map[string]map[string]int64),
		Monies:          make(map[string]decimal.Decimal),
	}
}

// Inventory returns the per-location counts for an item. Missing items
// return nil, which reads as zero stock everywhere.
func (s *Snapshot) Inventory(name string) *Inventory {
	if s == nil {
		return nil
	}
	return s.Items[name]
}

// TotalMoney sums copper across all characters.
func (s *Snapshot) TotalMoney() decimal.Decimal {
	var total decimal.Decimal
	for _, m := range s.Monies {
		total = total.Add(m)
	}
	return total
}

// Listing is one live auction-house listing from the latest scan.
type Listing struct {
	Item      string
	Count     int64
	Price     decimal.Decimal
	PricePer  decimal.Decimal
	Seller    string
	TimeLeft  time.Duration
	Timestamp time.Time
}
