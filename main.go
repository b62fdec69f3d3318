// Copyright (c) 2025 BVK Chaitanya

// Command pricer computes auction-house buy/sell/craft policies from
// the game client's addon data and cached market statistics.
package main

import (
	"context"
	"log"
	"os"

	"github.com/wowtools/pricer/cli"
	"github.com/wowtools/pricer/subcmds"
	"github.com/wowtools/pricer/subcmds/db"
)

func main() {
	dbCmds := []cli.Command{
		new(db.Get),
		new(db.Set),
		new(db.Delete),
		new(db.List),
		new(db.Backup),
		new(db.Restore),
	}

	cmds := []cli.Command{
		new(subcmds.Run),
		new(subcmds.Fetch),
		new(subcmds.Report),
		new(subcmds.Status),
		cli.CommandGroup("db", dbCmds...),
	}
	if err := cli.Run(context.Background(), cmds, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
