// Copyright (c) 2025 BVK Chaitanya

package view

import (
	"context"
	"fmt"

	"github.com/bvk/coindash/gobs"
	"github.com/bvk/coindash/watchlist"
)

const (
	EmptyWatchlistMessage = "Your watchlist is empty."
	RemovedMessage        = "Coin removed from watchlist!"
)

type WatchlistState struct {
	Coins   []*gobs.Coin
	Message string
}

func (s *WatchlistState) Empty() bool {
	return len(s.Coins) == 0
}

// AddMessage returns the user facing message for an add outcome.
func AddMessage(name string, outcome watchlist.AddOutcome) string {
	if outcome == watchlist.AlreadyPresent {
		return fmt.Sprintf("%s is already in your watchlist.", name)
	}
	return fmt.Sprintf("%s added to your watchlist!", name)
}

// WatchlistView renders the persisted watchlist. It keeps no state of its own
// beyond the last message because the store is the source of truth.
type WatchlistView struct {
	manager *watchlist.Manager
}

func NewWatchlistView(m *watchlist.Manager) *WatchlistView {
	return &WatchlistView{manager: m}
}

func (v *WatchlistView) Load(ctx context.Context) (*WatchlistState, error) {
	coins, err := v.manager.List(ctx)
	if err != nil {
		return nil, err
	}
	s := &WatchlistState{Coins: coins}
	if s.Empty() {
		s.Message = EmptyWatchlistMessage
	}
	return s, nil
}

func (v *WatchlistView) Add(ctx context.Context, coin *gobs.Coin) (*WatchlistState, error) {
	outcome, err := v.manager.Add(ctx, coin)
	if err != nil {
		return nil, err
	}
	s, err := v.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.Message = AddMessage(coin.Name, outcome)
	return s, nil
}

func (v *WatchlistView) Remove(ctx context.Context, id string) (*WatchlistState, error) {
	if _, err := v.manager.Remove(ctx, id); err != nil {
		return nil, err
	}
	s, err := v.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.Message = RemovedMessage
	return s, nil
}
