// Copyright (c) 2025 BVK Chaitanya

package darkmode

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/coindash/store"
	"github.com/bvk/coindash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Toggle struct {
	cmdutil.DBFlags
}

func (c *Toggle) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("toggle", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return "toggle", fset, cli.CmdFunc(c.run)
}

func (c *Toggle) Purpose() string {
	return "Flips the dark mode preference and prints the new value"
}

func (c *Toggle) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return fmt.Errorf("could not create db instance: %w", err)
	}
	defer closer()

	enabled, err := store.ToggleDarkMode(ctx, db)
	if err != nil {
		return err
	}
	fmt.Println(enabled)
	return nil
}
