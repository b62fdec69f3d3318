// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/wowtools/pricer/bootybay"
	"github.com/wowtools/pricer/cli"
	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/pricedb"
	"github.com/wowtools/pricer/subcmds/cmdutil"
)

type Fetch struct {
	cmdutil.DBFlags
	cmdutil.ConfigFlags

	force   bool
	offline bool
}

func (c *Fetch) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("fetch", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	c.ConfigFlags.SetFlags(fset)
	fset.BoolVar(&c.force, "force", false, "refresh even when cached data is still fresh")
	fset.BoolVar(&c.offline, "offline", false, "recompute statistics from cached history without fetching")
	return fset, cli.CmdFunc(c.run)
}

func (c *Fetch) Synopsis() string {
	return "Refreshes cached market statistics from the price source"
}

func (c *Fetch) CommandHelp() string {
	return `

Command "fetch" logs into the market data source through a browser
window (the login may need an authenticator confirmation) and refreshes
the cached per-item price statistics. Fetches are rate limited; a large
item list takes a while.

Credentials come from the secrets file; a missing password is prompted
on the terminal. Without -force, the command exits early when every
item's cached statistic is still fresh.

With -offline, nothing is fetched: statistics are recomputed from the
cached price history instead, which needs no login.

`
}

func (c *Fetch) run(ctx context.Context, args []string) error {
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

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()
	store := pricedb.New(db)

	now := time.Now().UTC()
	if c.offline {
		n, err := bootybay.NewImporter(nil, store).RecomputeFromCache(ctx, items, bootybay.HistoryWindow, now)
		if err != nil {
			return err
		}
		fmt.Printf("recomputed market data for %d items from cached history\n", n)
		return nil
	}

	secrets, err := c.ConfigFlags.LoadSecrets()
	if err != nil {
		return err
	}
	if !c.force {
		stale, err := staleItems(ctx, store, cfg.Freshness(), items, now)
		if err != nil {
			return err
		}
		if stale == 0 {
			fmt.Println("all cached market data is fresh; use -force to refresh anyway")
			return nil
		}
		slog.Info("refreshing market data", "stale", stale, "items", len(items))
	}

	creds := &bootybay.Credentials{
		Email:    secrets.BattleNetEmail,
		Password: secrets.BattleNetPassword,
	}
	cookies, err := bootybay.Login(ctx, cfg.Market.BaseURL, creds)
	if err != nil {
		return err
	}

	client := bootybay.NewClient(cfg.Market.BaseURL, cfg.Market.RealmSlug, cfg.Market.RequestsPerMinute)
	client.SetCookies(cookies)

	n, err := bootybay.NewImporter(client, store).Refresh(ctx, items, now)
	if err != nil {
		return err
	}
	fmt.Printf("refreshed market data for %d items\n", n)
	return nil
}

// staleItems counts configured items whose cached statistic is missing
// or older than the freshness threshold. Vendor-priced items never need
// market data.
func staleItems(ctx context.Context, store *pricedb.Store, freshness time.Duration, items map[string]*item.Item, now time.Time) (int, error) {
	stale := 0
	for name, v := range items {
		if v.VendorPrice.IsPositive() {
			continue
		}
		stat, err := store.MarketStat(ctx, name)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return 0, fmt.Errorf("could not read cached stat for %q: %w", name, err)
			}
			stale++
			continue
		}
		if !stat.Fresh(now, freshness) {
			stale++
		}
	}
	return stale, nil
}
