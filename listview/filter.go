// Copyright (c) 2025 BVK Chaitanya

package listview

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type SortMode string

const (
	SortDefault SortMode = "default"
	SortGainers SortMode = "gainers"
	SortLosers  SortMode = "losers"
)

// ParseSortMode converts a user supplied string into a SortMode. Empty
// string is the default sort mode.
func ParseSortMode(s string) (SortMode, error) {
	switch v := SortMode(strings.ToLower(strings.TrimSpace(s))); v {
	case "", SortDefault:
		return SortDefault, nil
	case SortGainers, SortLosers:
		return v, nil
	}
	return "", fmt.Errorf("invalid sort mode %q (want one of default|gainers|losers)", s)
}

// Bound is an optional market capitalization limit. Zero value is unbounded.
type Bound struct {
	Value decimal.Decimal
	Valid bool
}

func BoundAt(v decimal.Decimal) Bound {
	return Bound{Value: v, Valid: true}
}

// ParseBound parses a decimal string into a bound. Empty string returns an
// unbounded value.
func ParseBound(s string) (Bound, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Bound{}, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Bound{}, fmt.Errorf("could not parse market cap bound %q: %w", s, err)
	}
	return BoundAt(v), nil
}

func (b Bound) String() string {
	if !b.Valid {
		return ""
	}
	return b.Value.String()
}

// Filter holds the user controlled inputs to the list pipeline.
type Filter struct {
	Search string

	MinMarketCap Bound
	MaxMarketCap Bound

	Sort SortMode
}

func (f *Filter) matchSearch(name, symbol string) bool {
	if len(f.Search) == 0 {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(name), needle) || strings.Contains(strings.ToLower(symbol), needle)
}

func (f *Filter) inRange(v decimal.Decimal) bool {
	if f.MinMarketCap.Valid && v.LessThan(f.MinMarketCap.Value) {
		return false
	}
	if f.MaxMarketCap.Valid && v.GreaterThan(f.MaxMarketCap.Value) {
		return false
	}
	return true
}
