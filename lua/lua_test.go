// Copyright (c) 2025 BVK Chaitanya

package lua

import (
	"strings"
	"testing"
)

const savedVars = `
AucAdvancedConfig = {
	["profile.Default"] = {
		["util"] = {
			["appraiser"] = {
				["bid.markdown"] = 0,
				["duration"] = 720,
				["bid.deposit"] = true,
			},
		},
	},
	["users.Grobbulus.Amazona"] = "Default",
}
ARKINVDB = {
	["global"] = {
		["player"] = {
			["data"] = {
				["Amazona - Grobbulus"] = {
					["info"] = {
						["money"] = 1234567,
					},
					["location"] = {
						[1] = {
							["bag"] = {
								{
									["slot"] = {
										{
											["h"] = "|cffffffff|Hitem:2447::::::::39:::::::|h[Peacebloom]|h|r",
											["count"] = 20,
										},
									},
								},
							},
						},
					},
				},
			},
		},
	},
}
`

func TestDecodeSavedVariables(t *testing.T) {
	f, err := DecodeString(savedVars)
	if err != nil {
		t.Fatal(err)
	}

	cfg := f.GlobalTable("AucAdvancedConfig")
	if cfg == nil {
		t.Fatalf("AucAdvancedConfig global not found")
	}
	appraiser, err := cfg.Walk("profile.Default", "util", "appraiser")
	if err != nil {
		t.Fatal(err)
	}
	if v := appraiser.Int("duration"); v != 720 {
		t.Errorf("duration: want 720, got %d", v)
	}
	if v, ok := appraiser.Get("bid.deposit"); !ok || v != true {
		t.Errorf("bid.deposit: want true, got %v", v)
	}
	if v := cfg.String("users.Grobbulus.Amazona"); v != "Default" {
		t.Errorf("profile name: want Default, got %q", v)
	}

	inv := f.GlobalTable("ARKINVDB")
	if inv == nil {
		t.Fatalf("ARKINVDB global not found")
	}
	data, err := inv.Walk("global", "player", "data")
	if err != nil {
		t.Fatal(err)
	}
	char := data.Table("Amazona - Grobbulus")
	if char == nil {
		t.Fatalf("character table not found")
	}
	if v := char.Table("info").Int("money"); v != 1234567 {
		t.Errorf("money: want 1234567, got %d", v)
	}

	locs := char.Table("location")
	v, ok := locs.GetInt(1)
	if !ok {
		t.Fatalf("location [1] not found")
	}
	bags := v.(*Table).Table("bag")
	if bags.Len() != 1 {
		t.Fatalf("want 1 bag, got %d", bags.Len())
	}
	slot := bags.Fields()[0].Value.(*Table).Table("slot").Fields()[0].Value.(*Table)
	if n := slot.Int("count"); n != 20 {
		t.Errorf("slot count: want 20, got %d", n)
	}
	if h := slot.String("h"); !strings.Contains(h, "[Peacebloom]") {
		t.Errorf("item link missing name: %q", h)
	}
}

func TestDecodeScalars(t *testing.T) {
	f, err := DecodeString(`X = { ["a"] = -12, ["b"] = 1.5, ["c"] = nil, ["d"] = false, "pos1", "pos2" }`)
	if err != nil {
		t.Fatal(err)
	}
	x := f.GlobalTable("X")
	if v := x.Int("a"); v != -12 {
		t.Errorf("a: want -12, got %d", v)
	}
	if v, _ := x.Get("b"); v != 1.5 {
		t.Errorf("b: want 1.5, got %v", v)
	}
	if v, ok := x.Get("c"); !ok || v != nil {
		t.Errorf("c: want present nil, got %v %v", v, ok)
	}
	if v, _ := x.Get("d"); v != false {
		t.Errorf("d: want false, got %v", v)
	}
	var positional []string
	for _, field := range x.Fields() {
		if field.Key.Positional {
			positional = append(positional, field.Value.(string))
		}
	}
	if len(positional) != 2 || positional[0] != "pos1" || positional[1] != "pos2" {
		t.Errorf("positional entries: got %v", positional)
	}
}

func TestDecodeComments(t *testing.T) {
	f, err := DecodeString("-- header comment\nX = { -- trailing\n\t[\"k\"] = \"v\", -- another\n}\n")
	if err != nil {
		t.Fatal(err)
	}
	if v := f.GlobalTable("X").String("k"); v != "v" {
		t.Errorf("k: want v, got %q", v)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	f, err := DecodeString(savedVars)
	if err != nil {
		t.Fatal(err)
	}
	out, err := EncodeString(f)
	if err != nil {
		t.Fatal(err)
	}
	g, err := DecodeString(out)
	if err != nil {
		t.Fatalf("could not reparse encoded output: %v\n%s", err, out)
	}
	appraiser, err := g.GlobalTable("AucAdvancedConfig").Walk("profile.Default", "util", "appraiser")
	if err != nil {
		t.Fatal(err)
	}
	if v := appraiser.Int("duration"); v != 720 {
		t.Errorf("duration after round trip: want 720, got %d", v)
	}
	// Second encode must be byte-identical to the first.
	out2, err := EncodeString(g)
	if err != nil {
		t.Fatal(err)
	}
	if out != out2 {
		t.Errorf("encode is not stable across round trips")
	}
}

func TestDecodeErrors(t *testing.T) {
	bad := []string{
		`X = {`,
		`X = { ["a"] 1 }`,
		`X = { ["a"] = "unterminated }`,
		`= {}`,
	}
	for _, input := range bad {
		if _, err := DecodeString(input); err == nil {
			t.Errorf("want parse error for %q", input)
		}
	}
}

func TestSetAndDelete(t *testing.T) {
	tb := NewTable()
	tb.Set("price", int64(4200))
	tb.Set("price", int64(4300))
	if tb.Len() != 1 {
		t.Fatalf("set must replace, got %d entries", tb.Len())
	}
	if v := tb.Int("price"); v != 4300 {
		t.Errorf("price: want 4300, got %d", v)
	}
	tb.Delete("price")
	if tb.Len() != 0 {
		t.Errorf("delete left %d entries", tb.Len())
	}
}
