// Copyright (c) 2025 BVK Chaitanya

package internal

import "github.com/shopspring/decimal"

type MarketsItem struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  string `json:"image"`

	CurrentPrice decimal.NullDecimal `json:"current_price"`
	MarketCap    decimal.NullDecimal `json:"market_cap"`

	PriceChangePercentage24h decimal.NullDecimal `json:"price_change_percentage_24h"`
}

type USDValue struct {
	USD decimal.NullDecimal `json:"usd"`
}

type Images struct {
	Thumb string `json:"thumb"`
	Small string `json:"small"`
	Large string `json:"large"`
}

type Description struct {
	EN string `json:"en"`
}

type MarketData struct {
	CurrentPrice USDValue `json:"current_price"`
	MarketCap    USDValue `json:"market_cap"`
	High24h      USDValue `json:"high_24h"`
	Low24h       USDValue `json:"low_24h"`

	TotalSupply       decimal.NullDecimal `json:"total_supply"`
	CirculatingSupply decimal.NullDecimal `json:"circulating_supply"`

	PriceChangePercentage24h decimal.NullDecimal `json:"price_change_percentage_24h"`
}

type CoinResponse struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	Image       Images      `json:"image"`
	Description Description `json:"description"`

	MarketCapRank *int `json:"market_cap_rank"`

	MarketData *MarketData `json:"market_data"`
}

// MarketChartResponse holds [unix-milliseconds, value] pairs.
type MarketChartResponse struct {
	Prices [][2]decimal.Decimal `json:"prices"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
