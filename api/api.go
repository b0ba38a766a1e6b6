// Copyright (c) 2025 BVK Chaitanya

// Package api defines the JSON request and response types exchanged between
// the coindash server and its command-line clients. All requests are sent as
// POST with a JSON body to the path constant next to each request type.
//
// Operational failures are reported in the Error field of the response with
// a 200 status; malformed requests are rejected with a 400 status.
package api

import (
	"github.com/bvk/coindash/gobs"
	"github.com/shopspring/decimal"
)

const ListPath = "/api/list"

type ListRequest struct {
	Page int

	Search string

	// MinMarketCap and MaxMarketCap are optional inclusive bounds. Empty
	// strings are unbounded.
	MinMarketCap string
	MaxMarketCap string

	// Sort is one of "default", "gainers" or "losers". Empty is default.
	Sort string
}

type ListResponse struct {
	Page    int
	HasPrev bool

	Coins []*gobs.Coin

	Error string
}

const DetailPath = "/api/detail"

type DetailRequest struct {
	ID string

	// Days is the chart lookback. Zero selects the default of 7 days.
	Days int
}

type DetailResponse struct {
	Detail *gobs.CoinDetail

	Days   int
	Labels []string
	Prices []decimal.Decimal

	InWatchlist bool

	Error string
}
