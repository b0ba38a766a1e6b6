// Copyright (c) 2025 BVK Chaitanya

// Package listview implements the filter and sort pipeline that turns a
// fetched page of coins into the list displayed to the user.
package listview

import (
	"slices"

	"github.com/bvk/coindash/gobs"
)

// Derive returns the coins from raw that match the filter, ordered by the
// filter's sort mode. Input slice is never modified and the result never
// shares its backing array. Nil filter selects everything in source order.
func Derive(raw []*gobs.Coin, f *Filter) []*gobs.Coin {
	if f == nil {
		f = new(Filter)
	}

	result := make([]*gobs.Coin, 0, len(raw))
	for _, c := range raw {
		if !f.matchSearch(c.Name, c.Symbol) {
			continue
		}
		if !f.inRange(c.MarketCap) {
			continue
		}
		result = append(result, c)
	}

	switch f.Sort {
	case SortGainers:
		slices.SortStableFunc(result, func(a, b *gobs.Coin) int {
			return b.ChangeOrZero().Cmp(a.ChangeOrZero())
		})
	case SortLosers:
		slices.SortStableFunc(result, func(a, b *gobs.Coin) int {
			return a.ChangeOrZero().Cmp(b.ChangeOrZero())
		})
	}
	return result
}
