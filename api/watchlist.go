// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"fmt"

	"github.com/bvk/coindash/gobs"
)

const (
	WatchlistAddPath    = "/api/watchlist/add"
	WatchlistRemovePath = "/api/watchlist/remove"
	WatchlistListPath   = "/api/watchlist/list"
)

type WatchlistAddRequest struct {
	// Coin is the snapshot to save. When nil, server looks up the coin by ID
	// from the market data source.
	Coin *gobs.Coin

	ID string
}

func (r *WatchlistAddRequest) Check() error {
	if r.Coin == nil && len(r.ID) == 0 {
		return fmt.Errorf("one of Coin or ID must be set")
	}
	if r.Coin != nil {
		if err := r.Coin.Check(); err != nil {
			return err
		}
		if len(r.ID) != 0 && r.ID != r.Coin.ID {
			return fmt.Errorf("ID %q does not match coin id %q", r.ID, r.Coin.ID)
		}
	}
	return nil
}

type WatchlistAddResponse struct {
	// Outcome is either "Added" or "AlreadyPresent".
	Outcome string
	Message string

	Error string
}

type WatchlistRemoveRequest struct {
	ID string
}

func (r *WatchlistRemoveRequest) Check() error {
	if len(r.ID) == 0 {
		return fmt.Errorf("ID cannot be empty")
	}
	return nil
}

type WatchlistRemoveResponse struct {
	// Outcome is either "Removed" or "NotPresent".
	Outcome string
	Message string

	Error string
}

type WatchlistListRequest struct {
}

type WatchlistListResponse struct {
	Coins []*gobs.Coin

	Error string
}
