// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wowtools/pricer/addon"
	"github.com/wowtools/pricer/cli"
	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/pricedb"
	"github.com/wowtools/pricer/report"
	"github.com/wowtools/pricer/subcmds/cmdutil"
)

type Report struct {
	cmdutil.DBFlags
	cmdutil.ConfigFlags

	output string
	chart  string

	windowDays int
}

func (c *Report) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("report", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	c.ConfigFlags.SetFlags(fset)
	fset.StringVar(&c.output, "output", "", "path for the xlsx report (default <data-dir>/report.xlsx)")
	fset.StringVar(&c.chart, "chart", "", "path for the gold chart png (default <data-dir>/money.png)")
	fset.IntVar(&c.windowDays, "window-days", 30, "number of days of history to summarize")
	return fset, cli.CmdFunc(c.run)
}

func (c *Report) Synopsis() string {
	return "Exports the latest policies and trading profits as xlsx and a gold chart"
}

func (c *Report) run(ctx context.Context, args []string) error {
	cfg, err := c.ConfigFlags.LoadConfig()
	if err != nil {
		return err
	}
	items, err := c.ConfigFlags.LoadItems()
	if err != nil {
		return err
	}
	if len(c.DataDir) == 0 {
		c.DataDir = cfg.DataDir
	}
	dataDir, err := c.ResolveDataDir()
	if err != nil {
		return err
	}
	if len(c.output) == 0 {
		c.output = filepath.Join(dataDir, "report.xlsx")
	}
	if len(c.chart) == 0 {
		c.chart = filepath.Join(dataDir, "money.png")
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()
	store := pricedb.New(db)

	policies, err := store.Policies(ctx)
	if err != nil {
		return fmt.Errorf("could not load stored policies: %w", err)
	}

	now := time.Now().UTC()
	names := make(map[int64]string, len(items))
	for name, v := range items {
		names[v.ID] = name
	}
	history, err := addon.ReadHistory(addon.Path(cfg.SavedVariablesDir(), addon.BeanCounterFile), cfg.Realm, names)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not read auction history: %w", err)
		}
		slog.Warn("auction history missing; profit sheet will be empty", "err", err)
		history = new(addon.History)
	}
	window := time.Duration(c.windowDays) * 24 * time.Hour
	rows := report.Profits(history, now, window)

	if err := report.WriteWorkbook(c.output, policies, rows); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", c.output)

	var snapshots []*item.Snapshot
	collect := func(s *item.Snapshot) error {
		snapshots = append(snapshots, s)
		return nil
	}
	if err := store.Snapshots(ctx, collect); err != nil {
		return fmt.Errorf("could not load inventory snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		slog.Warn("no inventory snapshots; skipping the gold chart")
		return nil
	}
	if err := report.WriteMoneyChart(c.chart, snapshots); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", c.chart)
	return nil
}
