// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/wowtools/pricer/cli"
	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/pricedb"
	"github.com/wowtools/pricer/subcmds/cmdutil"
)

type Status struct {
	cmdutil.DBFlags
	cmdutil.ConfigFlags
}

func (c *Status) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("status", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	c.ConfigFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.run)
}

func (c *Status) Synopsis() string {
	return "Prints datastore freshness, inventory summary and disk usage"
}

func (c *Status) run(ctx context.Context, args []string) error {
	cfg, err := c.ConfigFlags.LoadConfig()
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

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()
	store := pricedb.New(db)

	now := time.Now().UTC()

	stats, err := store.MarketStats(ctx)
	if err != nil {
		return fmt.Errorf("could not load market statistics: %w", err)
	}
	fresh, stale := 0, 0
	for _, s := range stats {
		if s.Fresh(now, cfg.Freshness()) {
			fresh++
		} else {
			stale++
		}
	}
	fmt.Printf("Market Stats: %d (%d fresh, %d stale)\n", len(stats), fresh, stale)

	snap, err := store.LastSnapshot(ctx)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not load last inventory snapshot: %w", err)
	}
	if snap != nil {
		fmt.Printf("Last Snapshot: %s (%s ago)\n", snap.Timestamp.Format(time.RFC3339), now.Sub(snap.Timestamp).Round(time.Minute))
		first, err := store.FirstSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("could not load first inventory snapshot: %w", err)
		}
		fmt.Printf("Snapshot History: since %s (%s)\n", first.Timestamp.Format(time.RFC3339), now.Sub(first.Timestamp).Round(time.Hour))
		fmt.Printf("Tracked Items: %d\n", len(snap.Items))
		fmt.Printf("Total Money: %s\n", item.FormatMoney(snap.TotalMoney()))
	} else {
		fmt.Println("Last Snapshot: none")
	}

	policies, err := store.Policies(ctx)
	if err != nil {
		return fmt.Errorf("could not load stored policies: %w", err)
	}
	fmt.Printf("Stored Policies: %d\n", len(policies))

	if usage, err := disk.Usage(dataDir); err == nil {
		fmt.Printf("Data Dir: %s (%.1f%% of disk used)\n", dataDir, usage.UsedPercent)
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			fmt.Printf("Process RSS: %d MiB\n", mem.RSS/(1024*1024))
		}
	}

	if len(stats) > 0 {
		names := make([]string, 0, len(stats))
		for name := range stats {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println()
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "Item\tMarket\tStdDev\tAH\tHeld\tListed\tAge\t\n")
		for _, name := range names {
			s := stats[name]
			inv := snap.Inventory(name)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t\n", name,
				item.FormatMoney(s.MarketPrice), item.FormatMoney(s.StdDev),
				s.Quantity, inv.Total(), inv.Listed(), s.Age(now).Round(time.Minute))
		}
		tw.Flush()
	}
	return nil
}
