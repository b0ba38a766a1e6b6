// Copyright (c) 2025 BVK Chaitanya

// Package view implements the page level controllers. Each controller owns an
// explicit state value that changes only by dispatching intents. Fetches are
// tagged with a generation number and results from superseded fetches are
// dropped.
package view

import (
	"context"

	"github.com/bvk/coindash/gobs"
)

// MarketData is the remote data source used by the controllers.
type MarketData interface {
	FetchList(ctx context.Context, page, perPage int) ([]*gobs.Coin, error)
	FetchDetail(ctx context.Context, id string) (*gobs.CoinDetail, error)
	FetchHistory(ctx context.Context, id string, days int) ([]*gobs.PricePoint, error)
}

const FailedMessage = "Failed to load data. Please try again later."
