// Copyright (c) 2025 BVK Chaitanya

package watchlist

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/coindash/api"
	"github.com/bvk/coindash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Add struct {
	cmdutil.ClientFlags
}

func (c *Add) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("add", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "add", fset, cli.CmdFunc(c.run)
}

func (c *Add) Purpose() string {
	return "Adds coins to the watchlist"
}

func (c *Add) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("this command takes one or more (coin-id) arguments")
	}
	for _, id := range args {
		req := &api.WatchlistAddRequest{ID: id}
		resp, err := cmdutil.Post[api.WatchlistAddResponse](ctx, &c.ClientFlags, api.WatchlistAddPath, req)
		if err != nil {
			return fmt.Errorf("could not add %q to the watchlist: %w", id, err)
		}
		if len(resp.Error) != 0 {
			return fmt.Errorf("could not add %q to the watchlist: %s", id, resp.Error)
		}
		fmt.Println(resp.Message)
	}
	return nil
}
