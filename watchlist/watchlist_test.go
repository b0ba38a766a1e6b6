// Copyright (c) 2025 BVK Chaitanya

package watchlist

import (
	"context"
	"strings"
	"testing"

	"github.com/bvk/coindash/gobs"
	"github.com/bvk/coindash/store"
	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"
)

func newCoin(id string) *gobs.Coin {
	return &gobs.Coin{
		ID:           id,
		Name:         strings.ToUpper(id[:1]) + id[1:],
		Symbol:       id[:3],
		CurrentPrice: decimal.NewFromInt(100),
		MarketCap:    decimal.NewFromInt(1000),
		PriceChangePercentage24h: decimal.NullDecimal{
			Decimal: decimal.RequireFromString("1.25"),
			Valid:   true,
		},
	}
}

func TestListEmpty(t *testing.T) {
	ctx := context.Background()
	m := New(kvmemdb.New())

	items, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("want empty watchlist, got %d items", len(items))
	}
}

func TestAddTwice(t *testing.T) {
	ctx := context.Background()
	m := New(kvmemdb.New())

	btc := newCoin("bitcoin")
	if v, err := m.Add(ctx, btc); err != nil || v != Added {
		t.Fatalf("want Added/nil, got %v/%v", v, err)
	}
	items, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 item, got %d", len(items))
	}

	if v, err := m.Add(ctx, btc); err != nil || v != AlreadyPresent {
		t.Fatalf("want AlreadyPresent/nil, got %v/%v", v, err)
	}
	items, err = m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 item after duplicate add, got %d", len(items))
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := New(kvmemdb.New())

	eth := newCoin("ethereum")
	if _, err := m.Add(ctx, eth); err != nil {
		t.Fatal(err)
	}
	items, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 item, got %d", len(items))
	}
	got := items[0]
	if got.ID != eth.ID || got.Name != eth.Name || got.Symbol != eth.Symbol {
		t.Fatalf("want %#v, got %#v", eth, got)
	}
	if !got.CurrentPrice.Equal(eth.CurrentPrice) || !got.MarketCap.Equal(eth.MarketCap) {
		t.Fatalf("want price/cap %s/%s, got %s/%s", eth.CurrentPrice, eth.MarketCap, got.CurrentPrice, got.MarketCap)
	}
	if !got.PriceChangePercentage24h.Valid || !got.PriceChangePercentage24h.Decimal.Equal(eth.PriceChangePercentage24h.Decimal) {
		t.Fatalf("want change %v, got %v", eth.PriceChangePercentage24h, got.PriceChangePercentage24h)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	m := New(kvmemdb.New())

	for _, id := range []string{"bitcoin", "ethereum", "solana"} {
		if _, err := m.Add(ctx, newCoin(id)); err != nil {
			t.Fatal(err)
		}
	}

	if v, err := m.Remove(ctx, "dogecoin"); err != nil || v != NotPresent {
		t.Fatalf("want NotPresent/nil, got %v/%v", v, err)
	}
	items, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("want 3 items after no-op remove, got %d", len(items))
	}

	if v, err := m.Remove(ctx, "ethereum"); err != nil || v != Removed {
		t.Fatalf("want Removed/nil, got %v/%v", v, err)
	}
	items, err = m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != "bitcoin" || items[1].ID != "solana" {
		t.Fatalf("want [bitcoin solana], got %d items", len(items))
	}

	if ok, err := m.Contains(ctx, "ethereum"); err != nil || ok {
		t.Fatalf("want false/nil, got %v/%v", ok, err)
	}
}

func TestCorruptWatchlist(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()
	m := New(db)

	if err := kv.WithReadWriter(ctx, db, func(ctx context.Context, rw kv.ReadWriter) error {
		return rw.Set(ctx, store.WatchlistKey, strings.NewReader("[{broken"))
	}); err != nil {
		t.Fatal(err)
	}

	items, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("want empty list for corrupt value, got %d", len(items))
	}

	if v, err := m.Add(ctx, newCoin("bitcoin")); err != nil || v != Added {
		t.Fatalf("want Added/nil, got %v/%v", v, err)
	}
	if items, err := m.List(ctx); err != nil || len(items) != 1 {
		t.Fatalf("want 1 item/nil, got %d/%v", len(items), err)
	}
}

func TestDuplicatesInStore(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()
	m := New(db)

	dup := gobs.Watchlist{newCoin("bitcoin"), newCoin("bitcoin"), newCoin("ethereum")}
	if err := store.SetDB(ctx, db, store.WatchlistKey, &dup); err != nil {
		t.Fatal(err)
	}
	items, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 unique items, got %d", len(items))
	}
}
