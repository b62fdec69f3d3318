// Copyright (c) 2025 BVK Chaitanya

package item

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	copperPerSilver = decimal.NewFromInt(100)
	copperPerGold   = decimal.NewFromInt(10000)
)

// Gold converts a whole gold amount to copper.
func Gold(n int64) decimal.Decimal {
	return decimal.NewFromInt(n).Mul(copperPerGold)
}

// Silver converts a whole silver amount to copper.
func Silver(n int64) decimal.Decimal {
	return decimal.NewFromInt(n).Mul(copperPerSilver)
}

// FormatMoney renders a copper amount in the game's g/s/c notation,
// e.g. 1234567 copper becomes "123g 45s 67c". Fractional copper is
// rounded away before formatting.
func FormatMoney(copper decimal.Decimal) string {
	neg := copper.IsNegative()
	c := copper.Abs().Round(0)

	gold := c.Div(copperPerGold).Floor()
	c = c.Sub(gold.Mul(copperPerGold))
	silver := c.Div(copperPerSilver).Floor()
	c = c.Sub(silver.Mul(copperPerSilver))

	var parts []string
	if gold.IsPositive() {
		parts = append(parts, gold.String()+"g")
	}
	if silver.IsPositive() || len(parts) > 0 {
		parts = append(parts, silver.String()+"s")
	}
	parts = append(parts, c.String()+"c")

	out := strings.Join(parts, " ")
	if neg {
		return "-" + out
	}
	return out
}

// ParseMoney parses the g/s/c notation back into copper. Plain integers
// without unit suffixes are taken as copper.
func ParseMoney(s string) (decimal.Decimal, error) {
	text := strings.TrimSpace(s)
	if len(text) == 0 {
		return decimal.Zero, fmt.Errorf("money string cannot be empty")
	}
	neg := false
	if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	}

	total := decimal.Zero
	seen := false
	for _, field := range strings.Fields(text) {
		unit := decimal.NewFromInt(1)
		num := field
		switch {
		case strings.HasSuffix(field, "g"):
			unit = copperPerGold
			num = strings.TrimSuffix(field, "g")
		case strings.HasSuffix(field, "s"):
			unit = copperPerSilver
			num = strings.TrimSuffix(field, "s")
		case strings.HasSuffix(field, "c"):
			num = strings.TrimSuffix(field, "c")
		}
		d, err := decimal.NewFromString(num)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid money component %q: %w", field, err)
		}
		total = total.Add(d.Mul(unit))
		seen = true
	}
	if !seen {
		return decimal.Zero, fmt.Errorf("invalid money string %q", s)
	}
	if neg {
		total = total.Neg()
	}
	return total, nil
}
