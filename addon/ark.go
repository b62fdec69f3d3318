// Copyright (c) 2025 BVK Chaitanya

package addon

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/lua"
)

// ArkInventory location ids for the slots we track. Other locations
// (keyring, wearing, pets) are ignored.
var arkLocations = map[int64]item.Location{
	1:  item.Bag,
	3:  item.Bank,
	5:  item.Mailbox,
	10: item.Auction,
}

// ReadInventory parses an ArkInventory SavedVariables file into one
// inventory snapshot summed across all characters. Character entries
// are keyed "Name - Realm"; only the given realm is read.
func ReadInventory(path, realm string, at time.Time) (*item.Snapshot, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open inventory file: %w", err)
	}
	defer fp.Close()

	file, err := lua.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("could not parse inventory file %q: %w", path, err)
	}
	db := file.GlobalTable("ARKINVDB")
	if db == nil {
		return nil, fmt.Errorf("inventory file %q has no ARKINVDB global", path)
	}
	data, err := db.Walk("global", "player", "data")
	if err != nil {
		return nil, fmt.Errorf("inventory file %q: %w", path, err)
	}

	snap := item.NewSnapshot(at)
	for _, field := range data.Fields() {
		charData, ok := field.Value.(*lua.Table)
		if !ok {
			continue
		}
		name, charRealm, ok := splitCharacterKey(field.Key.Name)
		if !ok || charRealm != realm {
			continue
		}
		readCharacter(snap, name, charData)
	}
	return snap, nil
}

// splitCharacterKey splits ArkInventory's "Name - Realm" keys.
func splitCharacterKey(key string) (name, realm string, ok bool) {
	name, realm, ok = strings.Cut(key, " - ")
	return name, realm, ok
}

func readCharacter(snap *item.Snapshot, name string, data *lua.Table) {
	if info := data.Table("info"); info != nil {
		snap.Monies[name] = decimal.NewFromInt(info.Int("money"))
	}

	locations := data.Table("location")
	if locations == nil {
		return
	}
	for _, field := range locations.Fields() {
		if !field.Key.IsInt {
			continue
		}
		loc, tracked := arkLocations[field.Key.Index]
		if !tracked {
			continue
		}
		slot, ok := field.Value.(*lua.Table)
		if !ok {
			continue
		}
		counts := bagCounts(slot.Table("bag"))
		for itemName, count := range counts {
			inv := snap.Items[itemName]
			if inv == nil {
				inv = item.NewInventory()
				snap.Items[itemName] = inv
			}
			inv.Add(loc, count)
		}
		if loc == item.Bag {
			bags := snap.BagsByCharacter[name]
			if bags == nil {
				bags = make(map[string]int64)
				snap.BagsByCharacter[name] = bags
			}
			for itemName, count := range counts {
				bags[itemName] += count
			}
		}
	}
}

// bagCounts sums item counts across the bags of one location. Slots
// without an item link or a count are empty and skipped.
func bagCounts(bags *lua.Table) map[string]int64 {
	counts := make(map[string]int64)
	if bags == nil {
		return counts
	}
	for _, bagField := range bags.Fields() {
		bag, ok := bagField.Value.(*lua.Table)
		if !ok {
			continue
		}
		slots := bag.Table("slot")
		if slots == nil {
			continue
		}
		for _, slotField := range slots.Fields() {
			slot, ok := slotField.Value.(*lua.Table)
			if !ok {
				continue
			}
			link := slot.String("h")
			count := slot.Int("count")
			if len(link) == 0 || count == 0 {
				continue
			}
			if name, ok := linkName(link); ok {
				counts[name] += count
			}
		}
	}
	return counts
}
