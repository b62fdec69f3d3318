// Copyright (c) 2025 BVK Chaitanya

// Package report summarizes auction history into per-item profit rows
// and exports run results as spreadsheets and charts.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/addon"
)

// ProfitRow aggregates one item's trading activity for one day. Sales
// credit the net received amount, failed auctions cost their deposit
// and purchases cost their buyout (or winning bid).
type ProfitRow struct {
	Item string
	Day  time.Time

	Sold   int64
	Failed int64
	Bought int64

	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

type rowKey struct {
	item string
	day  time.Time
}

// Profits folds the auction history within the window ending at now
// into daily rows, sorted by day then item name.
func Profits(h *addon.History, now time.Time, window time.Duration) []ProfitRow {
	since := now.Add(-window)
	rows := make(map[rowKey]*ProfitRow)

	row := func(item string, at time.Time) *ProfitRow {
		day := at.UTC().Truncate(24 * time.Hour)
		k := rowKey{item: item, day: day}
		r, ok := rows[k]
		if !ok {
			r = &ProfitRow{Item: item, Day: day}
			rows[k] = r
		}
		return r
	}

	for _, v := range h.Results {
		if v.Time.Before(since) {
			continue
		}
		r := row(v.Item, v.Time)
		if v.Success {
			r.Sold += v.Quantity
			r.Income = r.Income.Add(v.Received)
		} else {
			r.Failed += v.Quantity
			r.Expense = r.Expense.Add(v.Deposit)
		}
	}
	for _, v := range h.Purchases {
		if v.Time.Before(since) {
			continue
		}
		r := row(v.Item, v.Time)
		r.Bought += v.Quantity
		cost := v.Buyout
		if cost.IsZero() {
			cost = v.Bid
		}
		r.Expense = r.Expense.Add(cost)
	}

	out := make([]ProfitRow, 0, len(rows))
	for _, r := range rows {
		r.Net = r.Income.Sub(r.Expense)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].Item < out[j].Item
	})
	return out
}

// TotalNet sums the net column.
func TotalNet(rows []ProfitRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Net)
	}
	return total
}
