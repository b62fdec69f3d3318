// Copyright (c) 2025 BVK Chaitanya

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

const testConfig = `
wow_dir: /games/wow
data_dir: /home/user/.pricer
account: MYACCOUNT
realm: Grobbulus
characters: [Amazona, Bankalt]
auction_character: Amazona
market:
  base_url: https://api.example.org
  realm_slug: grobbulus-a
policy:
  min_profit: 500
  stack_size: 5
  auction_hours: 24
`

const testItems = `
Peacebloom:
  id: 2447
  group: Buy
  target_stock: 200
  buy_margin: 0.1
Briarthorn:
  id: 2450
  group: Buy
  target_stock: 100
  buy_margin: 0.1
Minor Healing Potion:
  id: 118
  group: Sell
  target_stock: 40
  sell_margin: 0.15
  deposit: 1s 20c
  made_from:
    Peacebloom: 1
    Briarthorn: 1
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeFile(t, "config.yaml", testConfig))
	if err != nil {
		t.Fatal(err)
	}
	if c.Realm != "Grobbulus" {
		t.Errorf("realm: want Grobbulus, got %q", c.Realm)
	}
	if c.Freshness() != 24*time.Hour {
		t.Errorf("default freshness: want 24h, got %v", c.Freshness())
	}
	if c.Market.RequestsPerMinute != 20 {
		t.Errorf("default rate: want 20, got %d", c.Market.RequestsPerMinute)
	}
	if !c.Policy.UndercutFactor.Equal(mustDecimal(t, "0.9933")) {
		t.Errorf("default undercut factor: got %s", c.Policy.UndercutFactor)
	}
	want := filepath.Join("/games/wow", "WTF", "Account", "MYACCOUNT", "SavedVariables")
	if got := c.SavedVariablesDir(); got != want {
		t.Errorf("saved variables dir: want %q, got %q", want, got)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		edit func(string) string
	}{
		{"missing wow dir", func(s string) string { return strings.Replace(s, "wow_dir: /games/wow", "wow_dir: \"\"", 1) }},
		{"unknown auction character", func(s string) string {
			return strings.Replace(s, "auction_character: Amazona", "auction_character: Stranger", 1)
		}},
		{"bad auction hours", func(s string) string { return strings.Replace(s, "auction_hours: 24", "auction_hours: 13", 1) }},
		{"not yaml", func(s string) string { return "{{{" }},
	}
	for _, tc := range tests {
		if _, err := Load(writeFile(t, "config.yaml", tc.edit(testConfig))); err == nil {
			t.Errorf("%s: want error, got none", tc.name)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "no-such-file.yaml")); err == nil {
		t.Errorf("missing config file must be an error")
	}
}

func TestLoadItems(t *testing.T) {
	items, err := LoadItems(writeFile(t, "items.yaml", testItems))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("want 3 items, got %d", len(items))
	}
	potion := items["Minor Healing Potion"]
	if potion == nil {
		t.Fatalf("potion not loaded")
	}
	if !potion.Craftable() {
		t.Errorf("potion must be craftable")
	}
	if !potion.Deposit.Equal(mustDecimal(t, "120")) {
		t.Errorf("deposit: want 120 copper, got %s", potion.Deposit)
	}
	names := SortedNames(items)
	if names[0] != "Briarthorn" || names[2] != "Peacebloom" {
		t.Errorf("sorted names: got %v", names)
	}
}

func TestLoadItemsRejectsDanglingIngredient(t *testing.T) {
	bad := strings.Replace(testItems, "Peacebloom: 1", "Dreamfoil: 1", 1)
	if _, err := LoadItems(writeFile(t, "items.yaml", bad)); err == nil {
		t.Errorf("dangling ingredient must be an error")
	}
}

func TestLoadSecrets(t *testing.T) {
	path := writeFile(t, "pricer.env", "BATTLE_NET_EMAIL=user@example.org\nTELEGRAM_BOT_TOKEN=tok123\n")
	s, err := LoadSecrets(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.BattleNetEmail != "user@example.org" || s.TelegramBotToken != "tok123" {
		t.Errorf("unexpected secrets: %+v", s)
	}

	// Missing secrets file is fine; features degrade.
	s, err = LoadSecrets(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.BattleNetPassword) != 0 && len(os.Getenv("BATTLE_NET_PASSWORD")) == 0 {
		t.Errorf("absent secrets file must yield empty credentials")
	}
}
