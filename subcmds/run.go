// Copyright (c) 2025 BVK Chaitanya

// Package subcmds implements the command-line subcommands.
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

	"github.com/google/uuid"
	"github.com/nightlyone/lockfile"

	"github.com/wowtools/pricer/addon"
	"github.com/wowtools/pricer/cli"
	"github.com/wowtools/pricer/config"
	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/logdir"
	"github.com/wowtools/pricer/notify"
	"github.com/wowtools/pricer/policy"
	"github.com/wowtools/pricer/pricedb"
	"github.com/wowtools/pricer/subcmds/cmdutil"
)

// successRateWindow is how far back the auction history counts toward
// per-item success rates.
const successRateWindow = 30 * 24 * time.Hour

type Run struct {
	cmdutil.DBFlags
	cmdutil.ConfigFlags

	dryRun bool
	debug  bool

	stackSize    int64
	auctionHours int64
}

func (c *Run) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("run", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	c.ConfigFlags.SetFlags(fset)
	fset.BoolVar(&c.dryRun, "dry-run", false, "compute policies without writing any output")
	fset.BoolVar(&c.debug, "debug", false, "enable debug logging")
	fset.Int64Var(&c.stackSize, "stack-size", 0, "override the configured listing stack size")
	fset.Int64Var(&c.auctionHours, "duration", 0, "override the configured auction duration in hours")
	return fset, cli.CmdFunc(c.run)
}

func (c *Run) Synopsis() string {
	return "Computes buy/sell/craft policies and writes them to the addon files"
}

func (c *Run) CommandHelp() string {
	return `

Command "run" performs one full pricing pass: it reads the addon data
files (inventory, auction history and the latest auction-house scan),
combines them with cached market statistics, computes per-item buy,
sell and craft policies, and writes the snatch list and appraiser
configuration back into the addon data for the game client to pick up.

Market statistics come from the datastore; use the "fetch" command to
refresh them. Items whose market data is stale are skipped with a
warning and keep their previous addon entries out of the output.

With -dry-run the policies are computed and summarized but neither the
addon files nor the datastore are modified.

`
}

func (c *Run) run(ctx context.Context, args []string) error {
	cfg, err := c.ConfigFlags.LoadConfig()
	if err != nil {
		return err
	}
	items, err := c.ConfigFlags.LoadItems()
	if err != nil {
		return err
	}
	secrets, err := c.ConfigFlags.LoadSecrets()
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

	logger, backend, err := logdir.NewLogger(filepath.Join(dataDir, "logs"), "pricer", logLevel(c.debug), os.Stderr)
	if err != nil {
		return err
	}
	defer backend.Close()
	slog.SetDefault(logger)

	flock, err := lockfile.New(filepath.Join(dataDir, "pricer.lock"))
	if err != nil {
		return fmt.Errorf("could not create lock file: %w", err)
	}
	if err := flock.TryLock(); err != nil {
		return fmt.Errorf("could not lock the data directory (is another run active?): %w", err)
	}
	defer flock.Unlock()

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()
	store := pricedb.New(db)

	now := time.Now().UTC()
	runID := uuid.New().String()
	slog.Info("starting pricing run", "run", runID, "realm", cfg.Realm, "items", len(items), "dry-run", c.dryRun)

	snap, history, listings, err := readAddonData(cfg, items, now)
	if err != nil {
		return err
	}

	stats, err := store.MarketStats(ctx)
	if err != nil {
		return fmt.Errorf("could not load market statistics: %w", err)
	}

	in := &policy.Input{
		Items:            items,
		Stats:            stats,
		Snapshot:         snap,
		Listings:         listings,
		SuccessRates:     history.SuccessRates(now, successRateWindow),
		AuctionCharacter: cfg.AuctionCharacter,
		Now:              now,
	}
	policies := policy.Compute(in, c.policyParams(cfg))

	var nbuy, nsell, ncraft int
	for _, p := range policies {
		if p.Buy != nil {
			nbuy++
		}
		if p.Sell != nil {
			nsell++
		}
		if p.Craft != nil {
			ncraft++
		}
	}
	summary := fmt.Sprintf("pricing run %s: %d policies (%d buy, %d sell, %d craft) from %d items",
		runID, len(policies), nbuy, nsell, ncraft, len(items))

	if c.dryRun {
		fmt.Println(summary + " (dry run, nothing written)")
		return nil
	}

	aucAdvPath := addon.Path(cfg.SavedVariablesDir(), addon.AucAdvancedFile)
	if err := addon.WritePolicies(aucAdvPath, policies); err != nil {
		return fmt.Errorf("could not write addon policies: %w", err)
	}
	if err := store.AddSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("could not record inventory snapshot: %w", err)
	}
	if err := store.SetPolicies(ctx, policies); err != nil {
		return fmt.Errorf("could not record policies: %w", err)
	}

	notifier, err := notify.New(secrets.TelegramBotToken, cfg.Notify.TelegramChatID)
	if err != nil {
		slog.Warn("could not set up notifications (ignored)", "err", err)
	}
	notifier.SendMessage(ctx, now, summary)

	slog.Info("pricing run complete", "run", runID, "policies", len(policies))
	fmt.Println(summary)
	return nil
}

// policyParams merges the configured analysis constants with the
// command-line overrides.
func (c *Run) policyParams(cfg *config.Config) *policy.Params {
	pc := cfg.Policy
	if c.stackSize > 0 {
		pc.StackSize = c.stackSize
	}
	if c.auctionHours > 0 {
		pc.AuctionHours = c.auctionHours
	}
	return &policy.Params{
		MinProfit:          pc.MinProfit,
		DeviationFactor:    pc.DeviationFactor,
		UndercutFactor:     pc.UndercutFactor,
		AuctionCut:         pc.AuctionCut,
		DefaultSuccessRate: pc.DefaultSuccessRate,
		StackSize:          pc.StackSize,
		AuctionMinutes:     pc.AuctionHours * 60,
		MaxSell:            pc.MaxSell,
		Freshness:          cfg.Freshness(),
	}
}

// readAddonData loads the three addon inputs. A missing file degrades
// to empty data with a warning; characters that never ran an addon
// simply have nothing to report.
func readAddonData(cfg *config.Config, items map[string]*item.Item, now time.Time) (*item.Snapshot, *addon.History, []*item.Listing, error) {
	svDir := cfg.SavedVariablesDir()

	snap, err := addon.ReadInventory(addon.Path(svDir, addon.ArkInventoryFile), cfg.Realm, now)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil, fmt.Errorf("could not read inventory: %w", err)
		}
		slog.Warn("inventory file missing; assuming empty stock", "err", err)
		snap = item.NewSnapshot(now)
	}

	names := make(map[int64]string, len(items))
	for name, v := range items {
		names[v.ID] = name
	}
	history, err := addon.ReadHistory(addon.Path(svDir, addon.BeanCounterFile), cfg.Realm, names)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil, fmt.Errorf("could not read auction history: %w", err)
		}
		slog.Warn("auction history missing; using default success rates", "err", err)
		history = new(addon.History)
	}

	listings, err := addon.ReadListings(addon.Path(svDir, addon.ScanDataFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil, fmt.Errorf("could not read scan data: %w", err)
		}
		slog.Warn("scan data missing; assuming no competition", "err", err)
	}
	return snap, history, listings, nil
}

func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
