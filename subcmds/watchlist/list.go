// Copyright (c) 2025 BVK Chaitanya

package watchlist

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/coindash/api"
	"github.com/bvk/coindash/subcmds/cmdutil"
	"github.com/bvk/coindash/view"
	"github.com/visvasity/cli"
)

type List struct {
	cmdutil.ClientFlags
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "list", fset, cli.CmdFunc(c.run)
}

func (c *List) Purpose() string {
	return "Prints the coins in the watchlist"
}

func (c *List) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	resp, err := cmdutil.Post[api.WatchlistListResponse](ctx, &c.ClientFlags, api.WatchlistListPath, &api.WatchlistListRequest{})
	if err != nil {
		return err
	}
	if len(resp.Error) != 0 {
		return fmt.Errorf("%s", resp.Error)
	}
	if len(resp.Coins) == 0 && cmdutil.IsTerminal() {
		fmt.Println(view.EmptyWatchlistMessage)
		return nil
	}

	var rows [][]string
	for _, coin := range resp.Coins {
		rows = append(rows, []string{coin.ID, coin.Name, coin.Symbol, coin.CurrentPrice.String(), coin.MarketCap.String()})
	}
	return cmdutil.Print(resp, []string{"ID", "NAME", "SYMBOL", "PRICE", "MARKET-CAP"}, rows)
}
