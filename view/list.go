// Copyright (c) 2025 BVK Chaitanya

package view

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/bvk/coindash/gobs"
	"github.com/bvk/coindash/listview"
)

type ListState struct {
	Page   int
	Filter listview.Filter

	Loading bool
	Failed  bool
	Error   string

	// Coins holds the page as fetched. Derived is the filtered and sorted
	// list for display.
	Coins   []*gobs.Coin
	Derived []*gobs.Coin
}

func (s *ListState) HasPrev() bool {
	return s.Page > 1
}

func (s *ListState) PrevPageNumber() int {
	return max(s.Page-1, 1)
}

func (s *ListState) NextPageNumber() int {
	return s.Page + 1
}

func (s *ListState) clone() *ListState {
	v := *s
	v.Coins = slices.Clone(s.Coins)
	v.Derived = slices.Clone(s.Derived)
	return &v
}

// ListIntent changes the list state. Implementations return true when the
// change requires a new fetch.
type ListIntent interface {
	applyList(*ListState) bool
}

type SetPage int

func (v SetPage) applyList(s *ListState) bool {
	if v < 1 || int(v) == s.Page {
		return false
	}
	// Rows of the old page must not be shown under the new page number.
	s.Page = int(v)
	s.Coins = nil
	s.Derived = nil
	return true
}

type NextPage struct{}

func (NextPage) applyList(s *ListState) bool {
	return SetPage(s.Page + 1).applyList(s)
}

type PrevPage struct{}

func (PrevPage) applyList(s *ListState) bool {
	return SetPage(s.Page - 1).applyList(s)
}

type SetSearch string

func (v SetSearch) applyList(s *ListState) bool {
	s.Filter.Search = string(v)
	return false
}

type SetRange struct {
	Min, Max listview.Bound
}

func (v SetRange) applyList(s *ListState) bool {
	s.Filter.MinMarketCap = v.Min
	s.Filter.MaxMarketCap = v.Max
	return false
}

type SetSort listview.SortMode

func (v SetSort) applyList(s *ListState) bool {
	s.Filter.Sort = listview.SortMode(v)
	return false
}

type ListView struct {
	source  MarketData
	perPage int

	mu         sync.Mutex
	state      ListState
	generation uint64
	mounted    bool
}

func NewListView(source MarketData, perPage int) *ListView {
	return &ListView{
		source:  source,
		perPage: perPage,
		state: ListState{
			Page:   1,
			Filter: listview.Filter{Sort: listview.SortDefault},
		},
	}
}

// State returns a copy of the current state.
func (v *ListView) State() *ListState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

// Mount loads the current page if it was never loaded.
func (v *ListView) Mount(ctx context.Context) *ListState {
	return v.Dispatch(ctx)
}

// Reload fetches the current page again.
func (v *ListView) Reload(ctx context.Context) *ListState {
	v.fetch(ctx)
	return v.State()
}

// Dispatch applies the intents in order and refreshes the derived list. A new
// page is fetched if any intent changed the page cursor.
func (v *ListView) Dispatch(ctx context.Context, intents ...ListIntent) *ListState {
	v.mu.Lock()
	refetch := !v.mounted
	for _, in := range intents {
		if in.applyList(&v.state) {
			refetch = true
		}
	}
	v.state.Derived = listview.Derive(v.state.Coins, &v.state.Filter)
	v.mu.Unlock()

	if refetch {
		v.fetch(ctx)
	}
	return v.State()
}

// Lookup returns the coin with the given id from the current page.
func (v *ListView) Lookup(id string) (*gobs.Coin, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, c := range v.state.Coins {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

func (v *ListView) fetch(ctx context.Context) {
	v.mu.Lock()
	v.mounted = true
	v.generation++
	gen, page := v.generation, v.state.Page
	v.state.Loading = true
	v.mu.Unlock()

	coins, err := v.source.FetchList(ctx, page, v.perPage)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.generation {
		slog.DebugContext(ctx, "dropping superseded list fetch", "page", page, "generation", gen, "current", v.generation)
		return
	}

	v.state.Loading = false
	if err != nil {
		slog.WarnContext(ctx, "could not fetch coin list", "page", page, "error", err)
		v.state.Failed = true
		v.state.Error = FailedMessage
		v.state.Coins = nil
		v.state.Derived = nil
		return
	}
	v.state.Failed = false
	v.state.Error = ""
	v.state.Coins = coins
	v.state.Derived = listview.Derive(coins, &v.state.Filter)
}
