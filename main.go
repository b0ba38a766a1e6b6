// Copyright (c) 2025 BVK Chaitanya

package main

import (
	"context"
	"log"
	"os"

	"github.com/bvk/coindash/subcmds"
	"github.com/bvk/coindash/subcmds/darkmode"
	"github.com/bvk/coindash/subcmds/db"
	"github.com/bvk/coindash/subcmds/watchlist"
	"github.com/visvasity/cli"
)

func main() {
	dbCmds := []cli.Command{
		new(db.Get),
		new(db.List),
		new(db.Backup),
		new(db.Restore),
	}

	watchlistCmds := []cli.Command{
		new(watchlist.List),
		new(watchlist.Add),
		new(watchlist.Remove),
	}

	darkmodeCmds := []cli.Command{
		new(darkmode.Get),
		new(darkmode.Set),
		new(darkmode.Toggle),
	}

	cmds := []cli.Command{
		new(subcmds.Run),
		new(subcmds.List),
		new(subcmds.Detail),
		cli.NewGroup("watchlist", "View/update the watchlist", watchlistCmds...),
		cli.NewGroup("darkmode", "View/set/toggle the dark mode preference", darkmodeCmds...),
		cli.NewGroup("db", "View/backup/restore database directly", dbCmds...),
	}
	if err := cli.Run(context.Background(), cmds, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
