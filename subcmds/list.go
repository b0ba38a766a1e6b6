// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/coindash/api"
	"github.com/bvk/coindash/coingecko"
	"github.com/bvk/coindash/gobs"
	"github.com/bvk/coindash/listview"
	"github.com/bvk/coindash/subcmds/cmdutil"
	"github.com/bvk/coindash/view"
	"github.com/visvasity/cli"
)

type List struct {
	cmdutil.ClientFlags

	direct bool

	page    int
	perPage int

	search string
	min    string
	max    string
	sort   string
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.BoolVar(&c.direct, "direct", false, "when true, fetches from the market data api instead of the server")
	fset.IntVar(&c.page, "page", 1, "page number starting at 1")
	fset.IntVar(&c.perPage, "per-page", coingecko.DefaultPerPage, "number of coins per page in direct mode")
	fset.StringVar(&c.search, "search", "", "case-insensitive substring of the coin name or symbol")
	fset.StringVar(&c.min, "min-market-cap", "", "inclusive lower bound on market cap")
	fset.StringVar(&c.max, "max-market-cap", "", "inclusive upper bound on market cap")
	fset.StringVar(&c.sort, "sort", "default", "one of default, gainers or losers")
	return "list", fset, cli.CmdFunc(c.run)
}

func (c *List) Purpose() string {
	return "Prints a page of coins ranked by market cap"
}

func (c *List) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	var resp *api.ListResponse
	if c.direct {
		v, err := c.fetchDirect(ctx)
		if err != nil {
			return err
		}
		resp = v
	} else {
		req := &api.ListRequest{
			Page:         c.page,
			Search:       c.search,
			MinMarketCap: c.min,
			MaxMarketCap: c.max,
			Sort:         c.sort,
		}
		v, err := cmdutil.Post[api.ListResponse](ctx, &c.ClientFlags, api.ListPath, req)
		if err != nil {
			return err
		}
		resp = v
	}
	if len(resp.Error) != 0 {
		return fmt.Errorf("%s", resp.Error)
	}
	return cmdutil.Print(resp, coinHeader, coinRows(resp.Coins))
}

func (c *List) fetchDirect(ctx context.Context) (*api.ListResponse, error) {
	if err := cmdutil.LoadEnv("."); err != nil {
		return nil, err
	}
	source, err := coingecko.New(cmdutil.SourceOptions())
	if err != nil {
		return nil, err
	}

	lo, err := listview.ParseBound(c.min)
	if err != nil {
		return nil, err
	}
	hi, err := listview.ParseBound(c.max)
	if err != nil {
		return nil, err
	}
	mode, err := listview.ParseSortMode(c.sort)
	if err != nil {
		return nil, err
	}

	v := view.NewListView(source, c.perPage)
	state := v.Dispatch(ctx,
		view.SetPage(c.page),
		view.SetSearch(c.search),
		view.SetRange{Min: lo, Max: hi},
		view.SetSort(mode))
	resp := &api.ListResponse{
		Page:    state.Page,
		HasPrev: state.HasPrev(),
		Coins:   state.Derived,
		Error:   state.Error,
	}
	return resp, nil
}

var coinHeader = []string{"ID", "NAME", "SYMBOL", "PRICE", "MARKET-CAP", "24H-CHANGE"}

func coinRows(coins []*gobs.Coin) [][]string {
	var rows [][]string
	for _, c := range coins {
		change := "N/A"
		if c.PriceChangePercentage24h.Valid {
			change = c.PriceChangePercentage24h.Decimal.StringFixed(2) + "%"
		}
		rows = append(rows, []string{
			c.ID,
			c.Name,
			c.Symbol,
			c.CurrentPrice.String(),
			c.MarketCap.String(),
			change,
		})
	}
	return rows
}
