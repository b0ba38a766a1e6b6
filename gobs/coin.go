// Copyright (c) 2025 BVK Chaitanya

package gobs

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Stored and served values use json numbers like the upstream provider.
	decimal.MarshalJSONWithoutQuotes = true
}

// Coin is a market snapshot for a single asset as returned by the market data
// source. JSON field names match the upstream provider so that persisted
// watchlist entries keep the same shape.
type Coin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Image  string `json:"image"`

	CurrentPrice decimal.Decimal `json:"current_price"`
	MarketCap    decimal.Decimal `json:"market_cap"`

	PriceChangePercentage24h decimal.NullDecimal `json:"price_change_percentage_24h"`
}

func (v *Coin) Check() error {
	if v == nil {
		return fmt.Errorf("coin value cannot be nil")
	}
	if len(v.ID) == 0 {
		return fmt.Errorf("coin id cannot be empty")
	}
	if v.MarketCap.IsNegative() {
		return fmt.Errorf("coin %q market cap cannot be negative", v.ID)
	}
	return nil
}

// ChangeOrZero returns the 24h price change percentage, treating an absent
// value as zero.
func (v *Coin) ChangeOrZero() decimal.Decimal {
	if !v.PriceChangePercentage24h.Valid {
		return decimal.Zero
	}
	return v.PriceChangePercentage24h.Decimal
}

type CoinDetail struct {
	ID          string
	Name        string
	Symbol      string
	Image       string
	Description string

	MarketCapRank int

	CurrentPrice decimal.Decimal

	High24h decimal.Decimal
	Low24h  decimal.Decimal

	TotalSupply       decimal.NullDecimal
	CirculatingSupply decimal.NullDecimal
	MarketCap         decimal.NullDecimal

	PriceChangePercentage24h decimal.NullDecimal
}

// Coin returns a summary snapshot of the detail suitable for adding to the
// watchlist.
func (v *CoinDetail) Coin() *Coin {
	c := &Coin{
		ID:                       v.ID,
		Name:                     v.Name,
		Symbol:                   v.Symbol,
		Image:                    v.Image,
		CurrentPrice:             v.CurrentPrice,
		PriceChangePercentage24h: v.PriceChangePercentage24h,
	}
	if v.MarketCap.Valid {
		c.MarketCap = v.MarketCap.Decimal
	}
	return c
}

type PricePoint struct {
	Timestamp time.Time
	Price     decimal.Decimal
}

// Watchlist is the persisted form of the user's watchlist.
type Watchlist []*Coin

func (v Watchlist) Check() error {
	for i, c := range v {
		if err := c.Check(); err != nil {
			return fmt.Errorf("watchlist entry %d is invalid: %w", i, err)
		}
	}
	return nil
}
