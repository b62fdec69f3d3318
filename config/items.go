// Copyright (c) 2025 BVK Chaitanya

package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/wowtools/pricer/item"
)

// itemEntry is the YAML shape of one item in items.yaml.
type itemEntry struct {
	ID             int64            `yaml:"id"`
	Group          string           `yaml:"group"`
	TargetStock    int64            `yaml:"target_stock"`
	StockDeviation int64            `yaml:"stock_deviation"`
	BuyMargin      *float64         `yaml:"buy_margin"`
	SellMargin     *float64         `yaml:"sell_margin"`
	VendorPrice    string           `yaml:"vendor_price"`
	Deposit        string           `yaml:"deposit"`
	MadeFrom       map[string]int64 `yaml:"made_from"`
	MaxSell        int64            `yaml:"max_sell"`
}

// LoadItems reads the item list keyed by item name. Recipe references
// must resolve within the list; a dangling ingredient is fatal.
func LoadItems(path string) (map[string]*item.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read items file: %w", err)
	}
	var entries map[string]*itemEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("could not parse items file %q: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("items file %q has no items", path)
	}

	items := make(map[string]*item.Item, len(entries))
	for name, e := range entries {
		v, err := e.toItem(name)
		if err != nil {
			return nil, fmt.Errorf("invalid items file %q: %w", path, err)
		}
		items[name] = v
	}

	// Recipes may only reference other configured items.
	for name, v := range items {
		for ing := range v.MadeFrom {
			if _, ok := items[ing]; !ok {
				return nil, fmt.Errorf("item %q ingredient %q is not in the items file", name, ing)
			}
			if ing == name {
				return nil, fmt.Errorf("item %q cannot be made from itself", name)
			}
		}
	}
	return items, nil
}

func (e *itemEntry) toItem(name string) (*item.Item, error) {
	v := &item.Item{
		Name:           name,
		ID:             e.ID,
		Group:          item.Group(e.Group),
		TargetStock:    e.TargetStock,
		StockDeviation: e.StockDeviation,
		MadeFrom:       e.MadeFrom,
		MaxSell:        e.MaxSell,
	}
	if e.BuyMargin != nil {
		v.BuyMargin = decimal.NewFromFloat(*e.BuyMargin)
	}
	if e.SellMargin != nil {
		v.SellMargin = decimal.NewFromFloat(*e.SellMargin)
	}
	if len(e.VendorPrice) > 0 {
		p, err := item.ParseMoney(e.VendorPrice)
		if err != nil {
			return nil, fmt.Errorf("item %q vendor price: %w", name, err)
		}
		v.VendorPrice = p
	}
	if len(e.Deposit) > 0 {
		d, err := item.ParseMoney(e.Deposit)
		if err != nil {
			return nil, fmt.Errorf("item %q deposit: %w", name, err)
		}
		v.Deposit = d
	}
	if err := v.Check(); err != nil {
		return nil, err
	}
	return v, nil
}

// SortedNames returns item names in deterministic order.
func SortedNames(items map[string]*item.Item) []string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
