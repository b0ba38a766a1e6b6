// Copyright (c) 2025 BVK Chaitanya

package coingecko

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const marketsJSON = `[
  {"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png","current_price":64000.5,"market_cap":1260000000000,"price_change_percentage_24h":1.5},
  {"id":"ethereum","symbol":"eth","name":"Ethereum","image":"https://img/eth.png","current_price":3100,"market_cap":372000000000,"price_change_percentage_24h":null}
]`

const coinJSON = `{
  "id":"bitcoin","symbol":"btc","name":"Bitcoin",
  "image":{"thumb":"t","small":"s","large":"l"},
  "description":{"en":"Bitcoin is the first decentralized cryptocurrency."},
  "market_cap_rank":1,
  "market_data":{
    "current_price":{"usd":64000.5},
    "market_cap":{"usd":1260000000000},
    "high_24h":{"usd":65000},
    "low_24h":{"usd":63000},
    "total_supply":21000000,
    "circulating_supply":19700000,
    "price_change_percentage_24h":1.5
  }
}`

const chartJSON = `{"prices":[[1740787200000,100],[1740873600000,110.25]]}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(&Options{
		BaseURL:           srv.URL + "/api/v3",
		APIKey:            "demo-key",
		RequestsPerMinute: 6000,
		RequestBurst:      100,
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestFetchList(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/coins/markets" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		want := map[string]string{
			"vs_currency": "usd",
			"order":       "market_cap_desc",
			"page":        "2",
			"per_page":    "10",
			"sparkline":   "false",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("query param %s: want %q, got %q", k, v, got)
			}
		}
		if got := r.Header.Get("x-cg-demo-api-key"); got != "demo-key" {
			t.Errorf("want api key header, got %q", got)
		}
		io.WriteString(w, marketsJSON)
	}))

	coins, err := c.FetchList(ctx, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(coins) != 2 {
		t.Fatalf("want 2 coins, got %d", len(coins))
	}
	if coins[0].ID != "bitcoin" || !coins[0].CurrentPrice.Equal(decimal.RequireFromString("64000.5")) {
		t.Fatalf("unexpected first coin %#v", coins[0])
	}
	if !coins[0].PriceChangePercentage24h.Valid {
		t.Fatalf("want valid 24h change for bitcoin")
	}
	if coins[1].PriceChangePercentage24h.Valid {
		t.Fatalf("want null 24h change for ethereum")
	}
}

func TestFetchListInvalidPage(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	if _, err := c.FetchList(context.Background(), 0, 10); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("want os.ErrInvalid, got %v", err)
	}
}

func TestFetchDetail(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/coins/bitcoin" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":"coin not found"}`)
			return
		}
		io.WriteString(w, coinJSON)
	}))

	d, err := c.FetchDetail(ctx, "bitcoin")
	if err != nil {
		t.Fatal(err)
	}
	if d.MarketCapRank != 1 || d.Image != "l" || !d.High24h.Equal(decimal.NewFromInt(65000)) {
		t.Fatalf("unexpected detail %#v", d)
	}
	if !d.TotalSupply.Valid || !d.CirculatingSupply.Valid || !d.MarketCap.Valid {
		t.Fatalf("want valid supply and market cap values")
	}
	if coin := d.Coin(); coin.ID != "bitcoin" || !coin.MarketCap.Equal(decimal.NewFromInt(1260000000000)) {
		t.Fatalf("unexpected coin summary %#v", coin)
	}

	_, err = c.FetchDetail(ctx, "no-such-coin")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("want ErrNotFound to also be ErrDataUnavailable, got %v", err)
	}
}

func TestFetchHistory(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/coins/bitcoin/market_chart" {
			http.NotFound(w, r)
			return
		}
		if d := r.URL.Query().Get("days"); d != "30" {
			t.Errorf("want days=30, got %q", d)
		}
		io.WriteString(w, chartJSON)
	}))

	points, err := c.FetchHistory(ctx, "bitcoin", 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("want 2 points, got %d", len(points))
	}
	if want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC); !points[0].Timestamp.Equal(want) {
		t.Fatalf("want %v, got %v", want, points[0].Timestamp)
	}
	if !points[1].Price.Equal(decimal.RequireFromString("110.25")) {
		t.Fatalf("want 110.25, got %s", points[1].Price)
	}

	if _, err := c.FetchHistory(ctx, "bitcoin", 14); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("want os.ErrInvalid for unsupported window, got %v", err)
	}
}

func TestFailures(t *testing.T) {
	ctx := context.Background()

	bad := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":`)
	}))
	if _, err := bad.FetchList(ctx, 1, 10); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable for bad json, got %v", err)
	}

	var calls atomic.Int32
	down := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	if _, err := down.FetchList(ctx, 1, 10); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable for http 429, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("want exactly one request without retries, got %d", n)
	}
}
