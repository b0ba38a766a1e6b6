// Copyright (c) 2025 BVK Chaitanya

package view

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bvk/coindash/coingecko"
	"github.com/bvk/coindash/gobs"
	"github.com/bvk/coindash/listview"
	"github.com/bvk/coindash/watchlist"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"
)

type fakeSource struct {
	mu    sync.Mutex
	pages map[int][]*gobs.Coin
	fail  bool

	// block, when non-nil, holds FetchList calls for the page until closed.
	block map[int]chan struct{}
	calls map[int]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages: make(map[int][]*gobs.Coin),
		block: make(map[int]chan struct{}),
		calls: make(map[int]int),
	}
}

func (f *fakeSource) FetchList(ctx context.Context, page, perPage int) ([]*gobs.Coin, error) {
	f.mu.Lock()
	f.calls[page]++
	ch := f.block[page]
	fail := f.fail
	coins := f.pages[page]
	f.mu.Unlock()

	if ch != nil {
		<-ch
	}
	if fail {
		return nil, coingecko.ErrDataUnavailable
	}
	return coins, nil
}

func (f *fakeSource) FetchDetail(ctx context.Context, id string) (*gobs.CoinDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, coingecko.ErrDataUnavailable
	}
	return &gobs.CoinDetail{ID: id, Name: id, Symbol: id, CurrentPrice: decimal.NewFromInt(1)}, nil
}

func (f *fakeSource) FetchHistory(ctx context.Context, id string, days int) ([]*gobs.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, coingecko.ErrDataUnavailable
	}
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var points []*gobs.PricePoint
	for i := 0; i < days; i++ {
		points = append(points, &gobs.PricePoint{
			Timestamp: start.AddDate(0, 0, i),
			Price:     decimal.NewFromInt(int64(100 + i)),
		})
	}
	return points, nil
}

func (f *fakeSource) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func coin(id string, mcap int64, change float64) *gobs.Coin {
	return &gobs.Coin{
		ID:           id,
		Name:         id,
		Symbol:       id,
		CurrentPrice: decimal.NewFromInt(1),
		MarketCap:    decimal.NewFromInt(mcap),
		PriceChangePercentage24h: decimal.NullDecimal{
			Decimal: decimal.NewFromFloat(change),
			Valid:   true,
		},
	}
}

func ids(coins []*gobs.Coin) []string {
	var vs []string
	for _, c := range coins {
		vs = append(vs, c.ID)
	}
	return vs
}

func TestListMount(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.pages[1] = []*gobs.Coin{coin("bitcoin", 1000, 2), coin("ethereum", 500, -1)}

	v := NewListView(src, 10)
	s := v.Mount(ctx)
	if s.Page != 1 || s.Loading || s.Failed {
		t.Fatalf("want page 1 loaded, got %+v", s)
	}
	if len(s.Derived) != 2 {
		t.Fatalf("want 2 coins, got %v", ids(s.Derived))
	}
	if s.HasPrev() {
		t.Fatalf("want no previous page on page 1")
	}

	// Second mount must not refetch.
	v.Mount(ctx)
	if n := src.calls[1]; n != 1 {
		t.Fatalf("want 1 fetch, got %d", n)
	}
}

func TestListIntents(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.pages[1] = []*gobs.Coin{coin("bitcoin", 1000, 2), coin("ethereum", 500, -1), coin("tether", 100, 5)}
	src.pages[2] = []*gobs.Coin{coin("solana", 50, 1)}

	v := NewListView(src, 10)
	v.Mount(ctx)

	s := v.Dispatch(ctx, SetSort(listview.SortGainers))
	if want := []string{"tether", "bitcoin", "ethereum"}; !slices.Equal(ids(s.Derived), want) {
		t.Fatalf("want %v, got %v", want, ids(s.Derived))
	}
	s = v.Dispatch(ctx, SetSearch("ETH"))
	if want := []string{"tether", "ethereum"}; !slices.Equal(ids(s.Derived), want) {
		t.Fatalf("want %v, got %v", want, ids(s.Derived))
	}
	s = v.Dispatch(ctx, SetRange{Min: listview.BoundAt(decimal.NewFromInt(200))})
	if want := []string{"ethereum"}; !slices.Equal(ids(s.Derived), want) {
		t.Fatalf("want %v, got %v", want, ids(s.Derived))
	}
	if src.calls[1] != 1 {
		t.Fatalf("filter changes must not refetch, got %d fetches", src.calls[1])
	}

	s = v.Dispatch(ctx, SetSearch(""), SetRange{}, NextPage{})
	if s.Page != 2 || !slices.Equal(ids(s.Derived), []string{"solana"}) {
		t.Fatalf("want page 2 with solana, got page %d %v", s.Page, ids(s.Derived))
	}
	v.Dispatch(ctx, PrevPage{})
	s = v.Dispatch(ctx, PrevPage{})
	if s.Page != 1 {
		t.Fatalf("want page 1, got %d", s.Page)
	}
	if src.calls[1] != 2 {
		t.Fatalf("want 2 fetches of page 1, got %d", src.calls[1])
	}
}

func TestListFailureClearsData(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.pages[1] = []*gobs.Coin{coin("bitcoin", 1000, 2)}
	src.pages[2] = []*gobs.Coin{coin("solana", 50, 1)}

	v := NewListView(src, 10)
	v.Mount(ctx)

	src.setFail(true)
	s := v.Dispatch(ctx, NextPage{})
	if !s.Failed || s.Error != FailedMessage {
		t.Fatalf("want failed state, got %+v", s)
	}
	if len(s.Coins) != 0 || len(s.Derived) != 0 {
		t.Fatalf("want stale coins cleared, got %v", ids(s.Derived))
	}

	src.setFail(false)
	s = v.Reload(ctx)
	if s.Failed || s.Error != "" || !slices.Equal(ids(s.Derived), []string{"solana"}) {
		t.Fatalf("want recovered page 2, got %+v", s)
	}
}

func TestListLoadingHidesOldPage(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.pages[1] = []*gobs.Coin{coin("bitcoin", 1000, 2)}
	src.pages[2] = []*gobs.Coin{coin("solana", 50, 1)}

	v := NewListView(src, 10)
	v.Mount(ctx)

	release := make(chan struct{})
	src.mu.Lock()
	src.block[2] = release
	src.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		v.Dispatch(ctx, NextPage{})
	}()

	for {
		src.mu.Lock()
		n := src.calls[2]
		src.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	s := v.State()
	if s.Page != 2 || !s.Loading {
		t.Fatalf("want page 2 loading, got page %d loading %t", s.Page, s.Loading)
	}
	if len(s.Coins) != 0 || len(s.Derived) != 0 {
		t.Fatalf("want no rows while page 2 loads, got %v %v", ids(s.Coins), ids(s.Derived))
	}
	if _, ok := v.Lookup("bitcoin"); ok {
		t.Fatalf("want page 1 coins gone after the page change")
	}

	close(release)
	<-done

	s = v.State()
	if s.Loading || !slices.Equal(ids(s.Derived), []string{"solana"}) {
		t.Fatalf("want solana loaded, got loading %t %v", s.Loading, ids(s.Derived))
	}
	if s.PrevPageNumber() != 1 || s.NextPageNumber() != 3 {
		t.Fatalf("want prev 1 next 3, got %d %d", s.PrevPageNumber(), s.NextPageNumber())
	}
}

func TestListSupersededFetch(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.pages[1] = []*gobs.Coin{coin("bitcoin", 1000, 2)}
	src.pages[2] = []*gobs.Coin{coin("solana", 50, 1)}
	src.pages[3] = []*gobs.Coin{coin("cardano", 10, 1)}

	v := NewListView(src, 10)
	v.Mount(ctx)

	release := make(chan struct{})
	src.mu.Lock()
	src.block[2] = release
	src.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		v.Dispatch(ctx, SetPage(2))
	}()

	// Wait until the page 2 fetch is in flight.
	for {
		src.mu.Lock()
		n := src.calls[2]
		src.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	s := v.Dispatch(ctx, SetPage(3))
	if !slices.Equal(ids(s.Derived), []string{"cardano"}) {
		t.Fatalf("want cardano, got %v", ids(s.Derived))
	}

	close(release)
	<-done

	s = v.State()
	if s.Page != 3 || !slices.Equal(ids(s.Coins), []string{"cardano"}) {
		t.Fatalf("superseded fetch overwrote state: page %d %v", s.Page, ids(s.Coins))
	}
}

func TestDetailView(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()

	v := NewDetailView(src, "bitcoin")
	s := v.Mount(ctx)
	if s.Failed || s.Detail == nil || s.Detail.ID != "bitcoin" {
		t.Fatalf("want bitcoin detail, got %+v", s)
	}
	if s.Days != DefaultDays || len(s.Chart.Labels) != DefaultDays {
		t.Fatalf("want %d chart points, got %d", DefaultDays, len(s.Chart.Labels))
	}

	s = v.Dispatch(ctx, SetDays(14))
	if s.Days != DefaultDays {
		t.Fatalf("unsupported lookback must be ignored, got %d", s.Days)
	}

	s = v.Dispatch(ctx, SetDays(30))
	if len(s.Chart.Values) != 30 {
		t.Fatalf("want 30 chart points, got %d", len(s.Chart.Values))
	}

	src.setFail(true)
	s = v.Dispatch(ctx, SetCoin("ethereum"))
	if !s.Failed || s.Detail != nil || s.Chart != nil {
		t.Fatalf("want failed state with cleared data, got %+v", s)
	}
	if s.ID != "ethereum" {
		t.Fatalf("want ethereum, got %s", s.ID)
	}
}

func TestWatchlistView(t *testing.T) {
	ctx := context.Background()
	v := NewWatchlistView(watchlist.New(kvmemdb.New()))

	s, err := v.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Empty() || s.Message != EmptyWatchlistMessage {
		t.Fatalf("want empty watchlist message, got %+v", s)
	}

	btc := coin("bitcoin", 1000, 2)
	btc.Name = "Bitcoin"
	if s, err = v.Add(ctx, btc); err != nil {
		t.Fatal(err)
	}
	if want := "Bitcoin added to your watchlist!"; s.Message != want {
		t.Fatalf("want %q, got %q", want, s.Message)
	}
	if s, err = v.Add(ctx, btc); err != nil {
		t.Fatal(err)
	}
	if want := "Bitcoin is already in your watchlist."; s.Message != want {
		t.Fatalf("want %q, got %q", want, s.Message)
	}
	if len(s.Coins) != 1 {
		t.Fatalf("want 1 coin, got %d", len(s.Coins))
	}

	if s, err = v.Remove(ctx, "bitcoin"); err != nil {
		t.Fatal(err)
	}
	if s.Message != RemovedMessage || !s.Empty() {
		t.Fatalf("want removed and empty, got %+v", s)
	}
}

func TestShortDescription(t *testing.T) {
	if v := ShortDescription(""); v != "" {
		t.Fatalf("want empty, got %q", v)
	}
	if v := ShortDescription("Bitcoin"); v != "Bitcoin..." {
		t.Fatalf("want %q, got %q", "Bitcoin...", v)
	}
	long := strings.Repeat("é", DescriptionLimit+10)
	if v := ShortDescription(long); v != strings.Repeat("é", DescriptionLimit)+"..." {
		t.Fatalf("want %d characters and an ellipsis, got %d runes", DescriptionLimit, len([]rune(v)))
	}
}
