// Copyright (c) 2025 BVK Chaitanya

package policy

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/item"
)

var one = decimal.NewFromInt(1)

// Input collects everything one policy computation reads.
type Input struct {
	// Items is the configured item list keyed by name.
	Items map[string]*item.Item

	// Stats holds the latest market statistic per item. Missing or
	// stale entries suppress that item's policy.
	Stats map[string]*item.MarketStat

	// Snapshot is the current inventory across all characters.
	Snapshot *item.Snapshot

	// Listings are the live auction-house listings from the last scan.
	Listings []*item.Listing

	// SuccessRates holds the per-item auction success history. Items
	// without an entry use the configured default.
	SuccessRates map[string]decimal.Decimal

	// AuctionCharacter is the character whose bags feed sell listings.
	AuctionCharacter string

	// Now is the run time used for freshness checks.
	Now time.Time
}

// Compute returns one policy per actionable item, sorted by item name.
// Items with stale or missing market data are skipped with a warning;
// the run continues with the remaining items.
func Compute(in *Input, params *Params) []*Policy {
	demand := derivedDemand(in)

	names := make([]string, 0, len(in.Items))
	for name := range in.Items {
		names = append(names, name)
	}
	sort.Strings(names)

	var policies []*Policy
	for _, name := range names {
		v := in.Items[name]
		market, stddev, ok := marketPrice(in, params, v)
		if !ok {
			slog.Warn("no fresh market data; skipping item", "item", name)
			continue
		}

		p := &Policy{Item: name, ItemID: v.ID}
		inv := in.Snapshot.Inventory(name)
		shortfall := v.TargetStock - inv.Stock()

		if volume := max(shortfall, 0) + demand[name]; volume > 0 && v.Group == item.GroupBuy {
			p.Buy = &BuyPolicy{
				Volume:  volume,
				Ceiling: market.Mul(one.Add(v.BuyMargin)),
			}
		}

		if v.Group == item.GroupSell {
			p.Sell = sellPolicy(in, params, v, market, stddev)
			p.Craft = craftPolicy(in, params, v, market, stddev, shortfall)
		}

		if p.Buy != nil || p.Sell != nil || p.Craft != nil {
			policies = append(policies, p)
		}
	}
	return policies
}

// marketPrice resolves the effective unit price and volatility for an
// item. Vendor-priced items bypass market data entirely.
func marketPrice(in *Input, params *Params, v *item.Item) (price, stddev decimal.Decimal, ok bool) {
	if v.VendorPrice.IsPositive() {
		return v.VendorPrice, decimal.Zero, true
	}
	stat, ok := in.Stats[v.Name]
	if !ok || !stat.Fresh(in.Now, params.Freshness) {
		return decimal.Zero, decimal.Zero, false
	}
	return stat.MarketPrice, stat.StdDev, true
}

// derivedDemand expands replenishment shortfalls through crafting
// recipes: ingredients inherit the demand of what they make.
func derivedDemand(in *Input) map[string]int64 {
	demand := make(map[string]int64)
	var expand func(name string, units int64, seen map[string]bool)
	expand = func(name string, units int64, seen map[string]bool) {
		v, ok := in.Items[name]
		if !ok || seen[name] {
			return
		}
		seen[name] = true
		defer delete(seen, name)
		for ing, per := range v.MadeFrom {
			n := units * per
			demand[ing] += n
			expand(ing, n, seen)
		}
	}
	for name, v := range in.Items {
		shortfall := v.TargetStock - in.Snapshot.Inventory(name).Stock()
		if shortfall > 0 {
			expand(name, shortfall, make(map[string]bool))
		}
	}
	return demand
}

// craftCost sums ingredient prices for one unit. Returns false when any
// ingredient has no usable price.
func craftCost(in *Input, params *Params, v *item.Item) (decimal.Decimal, bool) {
	if !v.Craftable() {
		return decimal.Zero, false
	}
	total := decimal.Zero
	for ing, per := range v.MadeFrom {
		iv, ok := in.Items[ing]
		if !ok {
			return decimal.Zero, false
		}
		price, _, ok := marketPrice(in, params, iv)
		if !ok {
			return decimal.Zero, false
		}
		total = total.Add(price.Mul(decimal.NewFromInt(per)))
	}
	return total, true
}

func sellPolicy(in *Input, params *Params, v *item.Item, market, stddev decimal.Decimal) *SellPolicy {
	low := market.Mul(one.Sub(v.SellMargin))
	high := market.Mul(one.Add(v.SellMargin)).Add(stddev.Mul(params.DeviationFactor))

	// The cost floor covers materials, expected deposit loss and the
	// minimum profit, grossed up for the house cut.
	mats, _ := craftCost(in, params, v)
	success := params.DefaultSuccessRate
	if rate, ok := in.SuccessRates[v.Name]; ok {
		success = rate
	}
	floor := mats.
		Add(v.Deposit.Mul(one.Sub(success))).
		Add(params.MinProfit).
		Mul(one.Add(params.AuctionCut))
	if floor.GreaterThan(low) {
		low = floor
	}
	if low.GreaterThan(high) {
		slog.Warn("sell side infeasible; cost floor exceeds price band",
			"item", v.Name, "floor", floor, "high", high)
		return nil
	}

	undercuts, leads, competitorMin := scanCompetition(in, v.Name, high)
	if competitorMin.IsPositive() {
		undercut := competitorMin.Mul(params.UndercutFactor)
		if undercut.GreaterThanOrEqual(low) && undercut.LessThan(high) {
			high = undercut
		}
	}

	available := int64(0)
	if bags, ok := in.Snapshot.BagsByCharacter[in.AuctionCharacter]; ok {
		available = bags[v.Name]
	}
	maxSell := v.MaxSell
	if maxSell == 0 {
		maxSell = params.MaxSell
	}
	units := min(available, maxSell) - leads
	if units <= 0 {
		return nil
	}

	stack := params.StackSize
	count := units / stack
	if units < stack {
		stack, count = 1, units
	}
	return &SellPolicy{
		Low:       low,
		High:      high,
		Count:     count,
		Stack:     stack,
		Duration:  params.AuctionMinutes,
		Undercuts: undercuts,
		Leads:     leads,
	}
}

// scanCompetition inspects live listings for one item: how many
// competitor listings sit below our asking price, how many units we
// already lead with, and the lowest competitor unit price.
func scanCompetition(in *Input, name string, asking decimal.Decimal) (undercuts, leads int64, competitorMin decimal.Decimal) {
	for _, l := range in.Listings {
		if l.Item != name {
			continue
		}
		if l.Seller == in.AuctionCharacter {
			continue
		}
		if competitorMin.IsZero() || l.PricePer.LessThan(competitorMin) {
			competitorMin = l.PricePer
		}
		if l.PricePer.LessThan(asking) {
			undercuts++
		}
	}
	for _, l := range in.Listings {
		if l.Item != name || l.Seller != in.AuctionCharacter {
			continue
		}
		if competitorMin.IsZero() || l.PricePer.LessThanOrEqual(competitorMin) {
			leads += l.Count
		}
	}
	return undercuts, leads, competitorMin
}

func craftPolicy(in *Input, params *Params, v *item.Item, market, stddev decimal.Decimal, shortfall int64) *CraftPolicy {
	if shortfall <= 0 {
		return nil
	}
	cost, ok := craftCost(in, params, v)
	if !ok {
		return nil
	}
	high := market.Mul(one.Add(v.SellMargin)).Add(stddev.Mul(params.DeviationFactor))
	if cost.Mul(one.Add(v.SellMargin)).GreaterThanOrEqual(high) {
		return nil
	}
	return &CraftPolicy{Quantity: shortfall, UnitCost: cost}
}
