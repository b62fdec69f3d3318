// Copyright (c) 2025 BVK Chaitanya

package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/policy"
)

var policyHeader = []any{
	"Item", "Buy Volume", "Buy Ceiling",
	"Sell Low", "Sell High", "Stacks", "Stack Size", "Undercuts",
	"Craft Quantity", "Craft Unit Cost",
}

var profitHeader = []any{
	"Day", "Item", "Sold", "Failed", "Bought", "Income", "Expense", "Net",
}

// WriteWorkbook writes an xlsx file with one sheet of computed policies
// and one sheet of daily profit rows.
func WriteWorkbook(path string, policies []*policy.Policy, profits []ProfitRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writePolicySheet(f, policies); err != nil {
		return err
	}
	if err := writeProfitSheet(f, profits); err != nil {
		return err
	}
	// Drop the default sheet so the workbook opens on policies.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("could not remove default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save workbook %q: %w", path, err)
	}
	return nil
}

func writePolicySheet(f *excelize.File, policies []*policy.Policy) error {
	const sheet = "Policies"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("could not create sheet %q: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &policyHeader); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	for i, p := range policies {
		row := []any{p.Item, "", "", "", "", "", "", "", "", ""}
		if p.Buy != nil {
			row[1] = p.Buy.Volume
			row[2] = item.FormatMoney(p.Buy.Ceiling)
		}
		if p.Sell != nil {
			row[3] = item.FormatMoney(p.Sell.Low)
			row[4] = item.FormatMoney(p.Sell.High)
			row[5] = p.Sell.Count
			row[6] = p.Sell.Stack
			row[7] = p.Sell.Undercuts
		}
		if p.Craft != nil {
			row[8] = p.Craft.Quantity
			row[9] = item.FormatMoney(p.Craft.UnitCost)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("could not write policy row for %q: %w", p.Item, err)
		}
	}
	return nil
}

func writeProfitSheet(f *excelize.File, profits []ProfitRow) error {
	const sheet = "Profits"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("could not create sheet %q: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &profitHeader); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	for i, r := range profits {
		row := []any{
			r.Day.Format("2006-01-02"), r.Item, r.Sold, r.Failed, r.Bought,
			item.FormatMoney(r.Income), item.FormatMoney(r.Expense),
			item.FormatMoney(r.Net),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("could not write profit row: %w", err)
		}
	}
	total := []any{"Total", "", "", "", "", "", "", item.FormatMoney(TotalNet(profits))}
	cell, err := excelize.CoordinatesToCellName(1, len(profits)+2)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &total); err != nil {
		return fmt.Errorf("could not write totals row: %w", err)
	}
	return nil
}
