// Copyright (c) 2025 BVK Chaitanya

// Package policy computes per-item buy, sell and craft decisions from
// market statistics, inventory holdings and user configuration. The
// computation is a pure function of its inputs: the same inputs always
// produce the same policies, and nothing here persists state.
package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy is the per-item decision for one run. Nil sub-policies mean no
// action on that side.
type Policy struct {
	Item   string
	ItemID int64

	Buy   *BuyPolicy
	Sell  *SellPolicy
	Craft *CraftPolicy
}

// BuyPolicy asks the buyer to acquire Volume units at or below Ceiling.
type BuyPolicy struct {
	// Volume is the number of units to acquire, including demand derived
	// from crafting recipes that consume this item.
	Volume int64

	// Ceiling is the maximum acceptable unit price in copper.
	Ceiling decimal.Decimal
}

// SellPolicy asks the seller to list Count stacks of Stack units.
type SellPolicy struct {
	// Low is the minimum acceptable unit price: the bid price.
	Low decimal.Decimal

	// High is the asking unit price: the buyout price.
	High decimal.Decimal

	// Count is the number of stacks to list.
	Count int64

	// Stack is the units per listing.
	Stack int64

	// Duration is the listing duration in minutes.
	Duration int64

	// Undercuts counts live listings below our asking price; reported
	// for the run summary.
	Undercuts int64

	// Leads is the quantity we already list at or below the current
	// market minimum. Leads reduce how much new stock is listed.
	Leads int64
}

// CraftPolicy asks the crafter to produce Quantity units.
type CraftPolicy struct {
	Quantity int64

	// UnitCost is the per-unit material cost at current market prices.
	UnitCost decimal.Decimal
}

// Params are the analysis constants shared by all items.
type Params struct {
	// MinProfit is the minimum acceptable profit per listing, in copper.
	MinProfit decimal.Decimal

	// DeviationFactor scales price stddev into the sell-high markup.
	DeviationFactor decimal.Decimal

	// UndercutFactor multiplies a competitor's minimum when undercutting.
	UndercutFactor decimal.Decimal

	// AuctionCut is the house's share of a successful sale.
	AuctionCut decimal.Decimal

	// DefaultSuccessRate stands in for items without enough history.
	DefaultSuccessRate decimal.Decimal

	// StackSize is the default listing stack size.
	StackSize int64

	// AuctionMinutes is the listing duration in minutes.
	AuctionMinutes int64

	// MaxSell caps per-item listing counts when the item has no
	// override.
	MaxSell int64

	// Freshness is the maximum market data age; older statistics
	// produce no policy for the item.
	Freshness time.Duration
}
