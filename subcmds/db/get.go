// Copyright (c) 2025 BVK Chaitanya

package db

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/coindash/kvutil"
	"github.com/bvk/coindash/subcmds/cmdutil"
	"github.com/bvkgo/kv"
	"github.com/visvasity/cli"
)

type Get struct {
	cmdutil.DBFlags
}

func (c *Get) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return "get", fset, cli.CmdFunc(c.run)
}

func (c *Get) Purpose() string {
	return "Prints the value of a key in the database"
}

func (c *Get) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (key) argument")
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return fmt.Errorf("could not get database instance: %w", err)
	}
	defer closer()

	var data []byte
	get := func(ctx context.Context, r kv.Reader) (err error) {
		data, err = kvutil.ReadAll(ctx, r, args[0])
		return err
	}
	if err := kv.WithReader(ctx, db, get); err != nil {
		return fmt.Errorf("could not read key %q: %w", args[0], err)
	}
	fmt.Printf("%s\n", data)
	return nil
}
