// Copyright (c) 2025 BVK Chaitanya

// Package addon reads and writes the game addon SavedVariables files:
// ArkInventory for holdings, BeanCounter for auction history,
// Auc-ScanData for live listings, and Auc-Advanced for the snatch buy
// list and appraiser sell configuration.
package addon

import (
	"fmt"
	"path/filepath"
	"strings"
)

// File names under the account SavedVariables directory.
const (
	ArkInventoryFile = "ArkInventory.lua"
	BeanCounterFile  = "BeanCounter.lua"
	ScanDataFile     = "Auc-ScanData.lua"
	AucAdvancedFile  = "Auc-Advanced.lua"
)

// Path joins the SavedVariables directory with an addon file name.
func Path(savedVarsDir, name string) string {
	return filepath.Join(savedVarsDir, name)
}

// ItemLink builds the in-game hyperlink for an item, as the snatch list
// expects it.
func ItemLink(id int64, name string) string {
	return fmt.Sprintf("|cffffffff|Hitem:%d::::::::39:::::::|h[%s]|h|r", id, name)
}

// linkName extracts the item name from an in-game hyperlink, which
// carries it in square brackets.
func linkName(link string) (string, bool) {
	open := strings.IndexByte(link, '[')
	if open < 0 {
		return "", false
	}
	end := strings.IndexByte(link[open:], ']')
	if end < 0 {
		return "", false
	}
	return link[open+1 : open+end], true
}
