// Copyright (c) 2025 BVK Chaitanya

package addon

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/lua"
)

// BeanCounter record kinds.
const (
	completedAuctions    = "completedAuctions"
	failedAuctions       = "failedAuctions"
	completedBidsBuyouts = "completedBidsBuyouts"
)

// AuctionResult is one expired listing: a sale when Success is set,
// otherwise a failed auction that returned to the mailbox.
type AuctionResult struct {
	Item      string
	Character string
	Quantity  int64
	Received  decimal.Decimal
	Deposit   decimal.Decimal
	HouseCut  decimal.Decimal
	Buyout    decimal.Decimal
	Bid       decimal.Decimal
	Buyer     string
	Time      time.Time
	Success   bool
}

// Purchase is one completed bid or buyout made by us.
type Purchase struct {
	Item      string
	Character string
	Quantity  int64
	Buyout    decimal.Decimal
	Bid       decimal.Decimal
	Seller    string
	Time      time.Time
}

// History is the parsed BeanCounter auction history for one realm.
type History struct {
	Results   []AuctionResult
	Purchases []Purchase
}

// ReadHistory parses a BeanCounter SavedVariables file. Item ids are
// resolved through the given id-to-name map; unknown items are skipped.
// Malformed records are skipped rather than failing the whole read.
func ReadHistory(path, realm string, names map[int64]string) (*History, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open history file: %w", err)
	}
	defer fp.Close()

	file, err := lua.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("could not parse history file %q: %w", path, err)
	}
	db := file.GlobalTable("BeanCounterDB")
	if db == nil {
		return nil, fmt.Errorf("history file %q has no BeanCounterDB global", path)
	}
	realmData := db.Table(realm)
	if realmData == nil {
		return nil, fmt.Errorf("history file %q has no realm %q", path, realm)
	}

	h := new(History)
	for _, charField := range realmData.Fields() {
		character := charField.Key.Name
		charData, ok := charField.Value.(*lua.Table)
		if !ok {
			continue
		}
		for _, kindField := range charData.Fields() {
			kind := kindField.Key.Name
			if kind != completedAuctions && kind != failedAuctions && kind != completedBidsBuyouts {
				continue
			}
			itemsTable, ok := kindField.Value.(*lua.Table)
			if !ok {
				continue
			}
			h.readKind(kind, character, itemsTable, names)
		}
	}
	return h, nil
}

func (h *History) readKind(kind, character string, items *lua.Table, names map[int64]string) {
	for _, itemField := range items.Fields() {
		id, err := itemKeyID(itemField.Key)
		if err != nil {
			continue
		}
		name, ok := names[id]
		if !ok {
			continue
		}
		listings, ok := itemField.Value.(*lua.Table)
		if !ok {
			continue
		}
		for _, listField := range listings.Fields() {
			records, ok := listField.Value.(*lua.Table)
			if !ok {
				continue
			}
			for _, rec := range records.Fields() {
				text, ok := rec.Value.(string)
				if !ok {
					continue
				}
				h.addRecord(kind, character, name, text)
			}
		}
	}
}

// itemKeyID parses an item table key, which BeanCounter stores as a
// numeric id, possibly with a ":suffix" variant part.
func itemKeyID(k lua.Key) (int64, error) {
	if k.IsInt {
		return k.Index, nil
	}
	id, _, _ := strings.Cut(k.Name, ":")
	return strconv.ParseInt(id, 10, 64)
}

// addRecord parses one semicolon-delimited BeanCounter record. Field
// layout differs per record kind.
func (h *History) addRecord(kind, character, name, text string) {
	f := strings.Split(text, ";")
	if len(f) < 8 {
		return
	}
	ts, err := strconv.ParseInt(f[7], 10, 64)
	if err != nil {
		return
	}
	at := time.Unix(ts, 0).UTC()
	qty, err := strconv.ParseInt(f[0], 10, 64)
	if err != nil {
		return
	}

	switch kind {
	case completedAuctions:
		h.Results = append(h.Results, AuctionResult{
			Item:      name,
			Character: character,
			Quantity:  qty,
			Received:  recordMoney(f[1]),
			Deposit:   recordMoney(f[2]),
			HouseCut:  recordMoney(f[3]),
			Buyout:    recordMoney(f[4]),
			Bid:       recordMoney(f[5]),
			Buyer:     f[6],
			Time:      at,
			Success:   true,
		})
	case failedAuctions:
		h.Results = append(h.Results, AuctionResult{
			Item:      name,
			Character: character,
			Quantity:  qty,
			Deposit:   recordMoney(f[2]),
			Buyout:    recordMoney(f[4]),
			Bid:       recordMoney(f[5]),
			Time:      at,
		})
	case completedBidsBuyouts:
		h.Purchases = append(h.Purchases, Purchase{
			Item:      name,
			Character: character,
			Quantity:  qty,
			Buyout:    recordMoney(f[4]),
			Bid:       recordMoney(f[5]),
			Seller:    f[6],
			Time:      at,
		})
	}
}

// recordMoney parses a copper amount; BeanCounter leaves some fields
// empty or "nil".
func recordMoney(s string) decimal.Decimal {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(n)
}

// SuccessRates computes the per-item fraction of listings that sold
// within the window ending at now. Items with no history are omitted.
func (h *History) SuccessRates(now time.Time, window time.Duration) map[string]decimal.Decimal {
	sold := make(map[string]int64)
	total := make(map[string]int64)
	for _, r := range h.Results {
		if now.Sub(r.Time) > window {
			continue
		}
		total[r.Item]++
		if r.Success {
			sold[r.Item]++
		}
	}
	rates := make(map[string]decimal.Decimal, len(total))
	for name, n := range total {
		rates[name] = decimal.NewFromInt(sold[name]).Div(decimal.NewFromInt(n))
	}
	return rates
}
