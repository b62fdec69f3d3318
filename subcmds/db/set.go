// Copyright (c) 2025 BVK Chaitanya

package db

import (
	"bytes"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/bvkgo/kv"

	"github.com/wowtools/pricer/cli"
	"github.com/wowtools/pricer/subcmds/cmdutil"
)

type Set struct {
	cmdutil.DBFlags

	fromFile string
}

func (c *Set) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("set", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.fromFile, "from-file", "", "file with the raw value bytes")
	return fset, cli.CmdFunc(c.run)
}

func (c *Set) Synopsis() string {
	return "Updates the value of a key in the datastore"
}

func (c *Set) run(ctx context.Context, args []string) error {
	var key string
	var value []byte
	switch {
	case len(c.fromFile) != 0 && len(args) == 1:
		key = args[0]
		data, err := os.ReadFile(c.fromFile)
		if err != nil {
			return fmt.Errorf("could not read value file %q: %w", c.fromFile, err)
		}
		value = data
	case len(args) == 2:
		key = args[0]
		data, err := hex.DecodeString(args[1])
		if err != nil {
			return fmt.Errorf("value argument must be hex encoded: %w", err)
		}
		value = data
	default:
		return fmt.Errorf("needs a key and either a hex value argument or -from-file")
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	set := func(ctx context.Context, rw kv.ReadWriter) error {
		return rw.Set(ctx, key, bytes.NewReader(value))
	}
	return kv.WithReadWriter(ctx, db, set)
}
