// Copyright (c) 2025 BVK Chaitanya

// Package pricedb is the run-to-run datastore: market statistics and
// their history, inventory snapshots, and the last computed policies,
// all kept in a kv database under separate keyspaces.
//
// Key layout:
//
//	/stats/{item}                 latest market statistic
//	/history/{item}/{timestamp}   price history points
//	/snapshots/{timestamp}        inventory snapshots
//	/policies/{item}              last computed policies
package pricedb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/bvkgo/kv"

	"github.com/wowtools/pricer/item"
	"github.com/wowtools/pricer/kvutil"
	"github.com/wowtools/pricer/policy"
)

const (
	StatsKeyspace     = "/stats"
	HistoryKeyspace   = "/history"
	SnapshotsKeyspace = "/snapshots"
	PoliciesKeyspace  = "/policies"
)

// keyTimeFormat orders keys chronologically and parses back losslessly
// at second precision, which is all the addon data carries.
const keyTimeFormat = "2006-01-02T15:04:05Z"

// Store wraps a kv database with the pricer's keyspaces.
type Store struct {
	db kv.Database
}

func New(db kv.Database) *Store {
	return &Store{db: db}
}

// Database exposes the underlying kv database for backup and the db
// subcommands.
func (s *Store) Database() kv.Database {
	return s.db
}

func statKey(name string) string {
	return path.Join(StatsKeyspace, name)
}

func historyKey(name string, at time.Time) string {
	return path.Join(HistoryKeyspace, name, at.UTC().Format(keyTimeFormat))
}

func snapshotKey(at time.Time) string {
	return path.Join(SnapshotsKeyspace, at.UTC().Format(keyTimeFormat))
}

func policyKey(name string) string {
	return path.Join(PoliciesKeyspace, name)
}

// SetMarketStat stores the latest statistic for an item and appends it
// to the item's price history.
func (s *Store) SetMarketStat(ctx context.Context, stat *item.MarketStat) error {
	if err := stat.Check(); err != nil {
		return err
	}
	return kv.WithReadWriter(ctx, s.db, func(ctx context.Context, rw kv.ReadWriter) error {
		if err := kvutil.Set(ctx, rw, statKey(stat.Item), stat); err != nil {
			return err
		}
		point := &item.PricePoint{At: stat.Snapshot, Price: stat.MarketPrice, Quantity: stat.Quantity}
		return kvutil.Set(ctx, rw, historyKey(stat.Item, stat.Snapshot), point)
	})
}

// MarketStat returns the latest statistic for an item. Returns
// os.ErrNotExist when the item was never fetched.
func (s *Store) MarketStat(ctx context.Context, name string) (*item.MarketStat, error) {
	stat, err := kvutil.GetDB[item.MarketStat](ctx, s.db, statKey(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no market stat for %q: %w", name, os.ErrNotExist)
		}
		return nil, err
	}
	return stat, nil
}

// MarketStats returns the latest statistics for all items.
func (s *Store) MarketStats(ctx context.Context) (map[string]*item.MarketStat, error) {
	stats := make(map[string]*item.MarketStat)
	begin, end := kvutil.PathRange(StatsKeyspace)
	fn := func(_ context.Context, _ kv.Reader, key string, stat *item.MarketStat) error {
		stats[stat.Item] = stat
		return nil
	}
	if err := kvutil.AscendDB(ctx, s.db, begin, end, fn); err != nil {
		return nil, fmt.Errorf("could not scan market stats: %w", err)
	}
	return stats, nil
}

// PriceHistory returns an item's price points since the given time, in
// chronological order.
func (s *Store) PriceHistory(ctx context.Context, name string, since time.Time) ([]item.PricePoint, error) {
	var points []item.PricePoint
	begin, end := kvutil.PathRange(path.Join(HistoryKeyspace, name))
	fn := func(_ context.Context, _ kv.Reader, key string, p *item.PricePoint) error {
		if p.At.Before(since) {
			return nil
		}
		points = append(points, *p)
		return nil
	}
	if err := kvutil.AscendDB(ctx, s.db, begin, end, fn); err != nil {
		return nil, fmt.Errorf("could not scan price history for %q: %w", name, err)
	}
	return points, nil
}

// AddSnapshot appends an inventory snapshot.
func (s *Store) AddSnapshot(ctx context.Context, snap *item.Snapshot) error {
	if snap.Timestamp.IsZero() {
		return fmt.Errorf("snapshot has no timestamp: %w", os.ErrInvalid)
	}
	return kvutil.SetDB(ctx, s.db, snapshotKey(snap.Timestamp), snap)
}

// LastSnapshot returns the most recent inventory snapshot, or
// os.ErrNotExist when none was ever taken.
func (s *Store) LastSnapshot(ctx context.Context) (*item.Snapshot, error) {
	begin, end := kvutil.PathRange(SnapshotsKeyspace)
	key, snap, err := kvutil.LastDB[item.Snapshot](ctx, s.db, begin, end)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("no inventory snapshots: %w", os.ErrNotExist)
	}
	return snap, nil
}

// FirstSnapshot returns the oldest inventory snapshot, or
// os.ErrNotExist when none was ever taken.
func (s *Store) FirstSnapshot(ctx context.Context) (*item.Snapshot, error) {
	begin, end := kvutil.PathRange(SnapshotsKeyspace)
	key, snap, err := kvutil.FirstDB[item.Snapshot](ctx, s.db, begin, end)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("no inventory snapshots: %w", os.ErrNotExist)
	}
	return snap, nil
}

// Snapshots iterates all inventory snapshots in chronological order.
func (s *Store) Snapshots(ctx context.Context, fn func(*item.Snapshot) error) error {
	begin, end := kvutil.PathRange(SnapshotsKeyspace)
	iter := func(_ context.Context, _ kv.Reader, key string, snap *item.Snapshot) error {
		return fn(snap)
	}
	return kvutil.AscendDB(ctx, s.db, begin, end, iter)
}

// SetPolicies replaces the stored policy set with the given one, in a
// single transaction so readers never observe a partial run.
func (s *Store) SetPolicies(ctx context.Context, policies []*policy.Policy) error {
	return kv.WithReadWriter(ctx, s.db, func(ctx context.Context, rw kv.ReadWriter) error {
		begin, end := kvutil.PathRange(PoliciesKeyspace)
		it, err := rw.Ascend(ctx, begin, end)
		if err != nil {
			return err
		}
		var stale []string
		for k, _, err := it.Fetch(ctx, false); err == nil; k, _, err = it.Fetch(ctx, true) {
			stale = append(stale, k)
		}
		kv.Close(it)
		for _, k := range stale {
			if err := rw.Delete(ctx, k); err != nil {
				return fmt.Errorf("could not delete stale policy %q: %w", k, err)
			}
		}
		for _, p := range policies {
			if err := kvutil.Set(ctx, rw, policyKey(p.Item), p); err != nil {
				return fmt.Errorf("could not store policy for %q: %w", p.Item, err)
			}
		}
		return nil
	})
}

// Policies returns the stored policy set sorted by item name.
func (s *Store) Policies(ctx context.Context) ([]*policy.Policy, error) {
	var policies []*policy.Policy
	begin, end := kvutil.PathRange(PoliciesKeyspace)
	fn := func(_ context.Context, _ kv.Reader, key string, p *policy.Policy) error {
		policies = append(policies, p)
		return nil
	}
	if err := kvutil.AscendDB(ctx, s.db, begin, end, fn); err != nil {
		return nil, fmt.Errorf("could not scan policies: %w", err)
	}
	return policies, nil
}
