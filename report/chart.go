// Copyright (c) 2025 BVK Chaitanya

package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/wowtools/pricer/item"
)

// WriteMoneyChart plots total gold on hand across the stored inventory
// snapshots and saves it as a PNG.
func WriteMoneyChart(path string, snapshots []*item.Snapshot) error {
	if len(snapshots) == 0 {
		return fmt.Errorf("no snapshots to chart")
	}

	pts := make(plotter.XYs, 0, len(snapshots))
	for _, s := range snapshots {
		gold, _ := s.TotalMoney().Div(item.Gold(1)).Float64()
		pts = append(pts, plotter.XY{
			X: float64(s.Timestamp.Unix()),
			Y: gold,
		})
	}

	p := plot.New()
	p.Title.Text = "Gold on hand"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Gold"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("could not build chart line: %w", err)
	}
	p.Add(plotter.NewGrid(), line)

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("could not save chart %q: %w", path, err)
	}
	return nil
}
