// Copyright (c) 2025 BVK Chaitanya

// Package cmdutil holds the flag structs shared by the subcommands.
package cmdutil

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/bvkgo/kvbadger"
	"github.com/dgraph-io/badger/v4"

	"github.com/wowtools/pricer/kvutil"
)

// DBFlags selects the datastore for a subcommand: the badger database
// under the data directory or an in-memory copy of a backup file.
type DBFlags struct {
	DataDir string

	fromBackup string

	backupBefore string
	backupAfter  string
}

func (f *DBFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&f.DataDir, "data-dir", "", "path to the data directory")
	fset.StringVar(&f.fromBackup, "from-backup", "", "path to a database backup file to read instead of the database")
	fset.StringVar(&f.backupBefore, "backup-before", "", "path to a file to receive a db backup before the command runs")
	fset.StringVar(&f.backupAfter, "backup-after", "", "path to a file to receive a db backup after the command runs")
}

// DefaultDataDir is where the datastore, logs and lockfile live when
// the user does not pick a directory.
func DefaultDataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".pricer")
}

// ResolveDataDir fills in the default data directory, creates it if
// necessary and makes it absolute.
func (f *DBFlags) ResolveDataDir() (string, error) {
	if len(f.DataDir) == 0 {
		f.DataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(f.DataDir, 0700); err != nil {
		return "", fmt.Errorf("could not create data directory %q: %w", f.DataDir, err)
	}
	dir, err := filepath.Abs(f.DataDir)
	if err != nil {
		return "", fmt.Errorf("could not determine data-dir %q absolute path: %w", f.DataDir, err)
	}
	f.DataDir = dir
	return dir, nil
}

func isGoodKey(k string) bool {
	return path.IsAbs(k) && k == path.Clean(k)
}

// GetDatabase opens the datastore. The caller must invoke the returned
// closer when done.
func (f *DBFlags) GetDatabase(ctx context.Context) (db kv.Database, closer func(), status error) {
	defer func() {
		if status == nil && len(f.backupBefore) != 0 {
			if err := kvutil.BackupDB(ctx, db, f.backupBefore); err != nil {
				closer()
				db, closer, status = nil, nil, fmt.Errorf("could not take a db backup before use: %w", err)
			}
		}
	}()

	if len(f.fromBackup) != 0 {
		mdb := kvmemdb.New()
		if err := kvutil.RestoreDB(ctx, mdb, f.fromBackup); err != nil {
			return nil, nil, fmt.Errorf("could not restore in-memory db from backup: %w", err)
		}
		return mdb, f.dbCloser(mdb, nil), nil
	}

	dataDir, err := f.ResolveDataDir()
	if err != nil {
		return nil, nil, err
	}
	bopts := badger.DefaultOptions(filepath.Join(dataDir, "db"))
	bopts = bopts.WithLogger(nil)
	bdb, err := badger.Open(bopts)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open the database: %w", err)
	}
	kdb := kvbadger.New(bdb, isGoodKey)
	return kdb, f.dbCloser(kdb, bdb), nil
}

func (f *DBFlags) dbCloser(db kv.Database, c io.Closer) func() {
	return func() {
		if len(f.backupAfter) != 0 {
			if err := kvutil.BackupDB(context.Background(), db, f.backupAfter); err != nil {
				slog.Error("could not take db backup after use (ignored)", "err", err)
			}
		}
		if c != nil {
			if err := c.Close(); err != nil {
				slog.Error("could not close the database (ignored)", "err", err)
			}
		}
	}
}
