// Copyright (c) 2025 BVK Chaitanya

package addon

import (
	"fmt"
	"os"

	"github.com/wowtools/pricer/lua"
	"github.com/wowtools/pricer/policy"
)

// WritePolicies rewrites the Auc-Advanced SavedVariables file with the
// computed buy and sell policies: buys become the snatch search list,
// sells become the appraiser configuration. The rest of the file is
// preserved as-is.
func WritePolicies(path string, policies []*policy.Policy) error {
	fp, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open auctioneer file: %w", err)
	}
	file, err := lua.Decode(fp)
	fp.Close()
	if err != nil {
		return fmt.Errorf("could not parse auctioneer file %q: %w", path, err)
	}

	if err := setSnatchList(file, policies); err != nil {
		return fmt.Errorf("auctioneer file %q: %w", path, err)
	}
	if err := setAppraiser(file, policies); err != nil {
		return fmt.Errorf("auctioneer file %q: %w", path, err)
	}

	out, err := lua.EncodeString(file)
	if err != nil {
		return fmt.Errorf("could not encode auctioneer file: %w", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("could not write auctioneer file: %w", err)
	}
	return nil
}

// setSnatchList replaces the snatch search list with one entry per buy
// policy. Snatch keys are "itemid:suffix:factor" triples; we only deal
// in plain items.
func setSnatchList(file *lua.File, policies []*policy.Policy) error {
	data := file.GlobalTable("AucAdvancedData")
	if data == nil {
		return fmt.Errorf("no AucAdvancedData global: %w", os.ErrNotExist)
	}
	current, err := data.Walk("UtilSearchUiData", "Current")
	if err != nil {
		return err
	}

	snatch := lua.NewTable()
	for _, p := range policies {
		if p.Buy == nil {
			continue
		}
		entry := lua.NewTable()
		entry.Set("price", p.Buy.Ceiling.Round(0).IntPart())
		entry.Set("link", ItemLink(p.ItemID, p.Item))
		snatch.Set(fmt.Sprintf("%d:0:0", p.ItemID), entry)
	}
	current.Set("snatch.itemsList", snatch)
	return nil
}

// setAppraiser replaces the appraiser configuration with one fixed-price
// model entry per sell policy.
func setAppraiser(file *lua.File, policies []*policy.Policy) error {
	cfg := file.GlobalTable("AucAdvancedConfig")
	if cfg == nil {
		return fmt.Errorf("no AucAdvancedConfig global: %w", os.ErrNotExist)
	}
	util, err := cfg.Walk("profile.Default", "util")
	if err != nil {
		return err
	}

	appraiser := lua.NewTable()
	appraiser.Set("bid.markdown", int64(0))
	appraiser.Set("columnsortcurDir", int64(1))
	appraiser.Set("columnsortcurSort", int64(6))
	appraiser.Set("duration", int64(720))
	appraiser.Set("bid.deposit", true)

	for _, p := range policies {
		if p.Sell == nil {
			continue
		}
		key := func(suffix string) string {
			return fmt.Sprintf("item.%d.%s", p.ItemID, suffix)
		}
		appraiser.Set(key("fixed.bid"), p.Sell.Low.Round(0).IntPart())
		appraiser.Set(key("fixed.buy"), p.Sell.High.Round(0).IntPart())
		appraiser.Set(key("duration"), p.Sell.Duration)
		appraiser.Set(key("number"), p.Sell.Count)
		appraiser.Set(key("stack"), p.Sell.Stack)
		appraiser.Set(key("bulk"), true)
		appraiser.Set(key("match"), false)
		appraiser.Set(key("model"), "fixed")
	}
	util.Set("appraiser", appraiser)
	return nil
}
