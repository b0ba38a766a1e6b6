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

type Remove struct {
	cmdutil.ClientFlags
}

func (c *Remove) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("remove", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "remove", fset, cli.CmdFunc(c.run)
}

func (c *Remove) Purpose() string {
	return "Removes coins from the watchlist"
}

func (c *Remove) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("this command takes one or more (coin-id) arguments")
	}
	for _, id := range args {
		req := &api.WatchlistRemoveRequest{ID: id}
		resp, err := cmdutil.Post[api.WatchlistRemoveResponse](ctx, &c.ClientFlags, api.WatchlistRemovePath, req)
		if err != nil {
			return fmt.Errorf("could not remove %q from the watchlist: %w", id, err)
		}
		if len(resp.Error) != 0 {
			return fmt.Errorf("could not remove %q from the watchlist: %s", id, resp.Error)
		}
		if resp.Outcome == "NotPresent" {
			fmt.Printf("%s is not in the watchlist\n", id)
			continue
		}
		fmt.Println(resp.Message)
	}
	return nil
}
