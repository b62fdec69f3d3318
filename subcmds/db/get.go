// Copyright (c) 2025 BVK Chaitanya

// Package db implements subcommands for direct datastore access.
package db

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/bvkgo/kv"

	"github.com/wowtools/pricer/cli"
	"github.com/wowtools/pricer/subcmds/cmdutil"
)

type Get struct {
	cmdutil.DBFlags
}

func (c *Get) Command() (*flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return fset, cli.CmdFunc(c.run)
}

func (c *Get) Synopsis() string {
	return "Prints the value of a key in the datastore"
}

func (c *Get) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (key) argument")
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	get := func(ctx context.Context, r kv.Reader) error {
		v, err := r.Get(ctx, args[0])
		if err != nil {
			return err
		}
		data, err := io.ReadAll(v)
		if err != nil {
			return err
		}
		fmt.Printf("%x\n", data)
		return nil
	}
	return kv.WithReader(ctx, db, get)
}
