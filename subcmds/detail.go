// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bvk/coindash/api"
	"github.com/bvk/coindash/subcmds/cmdutil"
	"github.com/bvk/coindash/view"
	"github.com/visvasity/cli"
)

type Detail struct {
	cmdutil.ClientFlags

	days int
}

func (c *Detail) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("detail", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.IntVar(&c.days, "days", view.DefaultDays, "price history lookback; one of 7, 30 or 90")
	return "detail", fset, cli.CmdFunc(c.run)
}

func (c *Detail) Purpose() string {
	return "Prints coin details and price history"
}

func (c *Detail) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (coin-id) argument")
	}

	req := &api.DetailRequest{
		ID:   args[0],
		Days: c.days,
	}
	resp, err := cmdutil.Post[api.DetailResponse](ctx, &c.ClientFlags, api.DetailPath, req)
	if err != nil {
		return err
	}
	if len(resp.Error) != 0 {
		return fmt.Errorf("%s", resp.Error)
	}
	if !cmdutil.IsTerminal() {
		return cmdutil.PrintJSON(os.Stdout, resp)
	}

	d := resp.Detail
	fmt.Printf("%s (%s)\n\n", d.Name, d.Symbol)
	if s := view.ShortDescription(d.Description); len(s) != 0 {
		fmt.Printf("%s\n\n", s)
	}
	fmt.Printf("Market Rank: %d\n", d.MarketCapRank)
	fmt.Printf("24h High: %s\n", d.High24h)
	fmt.Printf("24h Low: %s\n", d.Low24h)
	fmt.Printf("In Watchlist: %t\n\n", resp.InWatchlist)

	var rows [][]string
	for i := range resp.Labels {
		rows = append(rows, []string{resp.Labels[i], resp.Prices[i].String()})
	}
	if len(rows) == 0 {
		fmt.Println("No chart data available.")
		return nil
	}
	return cmdutil.PrintTable(os.Stdout, []string{"DATE", "PRICE"}, rows)
}
