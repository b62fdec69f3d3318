// Copyright (c) 2025 BVK Chaitanya

package db

import (
	"context"
	"flag"
	"fmt"

	"github.com/wowtools/pricer/cli"
	"github.com/wowtools/pricer/kvutil"
	"github.com/wowtools/pricer/subcmds/cmdutil"
)

type Restore struct {
	cmdutil.DBFlags
}

func (c *Restore) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("restore", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.run)
}

func (c *Restore) Synopsis() string {
	return "Replaces the datastore contents from a backup file"
}

func (c *Restore) CommandHelp() string {
	return `

Command "restore" deletes everything in the datastore and loads the
key-value pairs from the given backup file in a single transaction.

`
}

func (c *Restore) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("command takes one (input backup file) argument")
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	return kvutil.RestoreDB(ctx, db, args[0])
}
