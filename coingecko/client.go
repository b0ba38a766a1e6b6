// Copyright (c) 2025 BVK Chaitanya

package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/bvk/coindash/coingecko/internal"
	"github.com/bvk/coindash/gobs"
	"golang.org/x/time/rate"
)

var (
	// ErrDataUnavailable is wrapped by every error from a failed fetch.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrNotFound is returned when the requested coin is unknown. It also
	// wraps ErrDataUnavailable.
	ErrNotFound = fmt.Errorf("coin not found: %w", ErrDataUnavailable)
)

const DefaultPerPage = 10

// LookbackDays holds the supported history windows.
var LookbackDays = []int{7, 30, 90}

type Client struct {
	opts Options

	baseURL *url.URL

	client *http.Client

	limiter *rate.Limiter
}

// New creates a client for the coingecko public api. Failed requests are
// never retried.
func New(opts *Options) (*Client, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		opts:    *opts,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: opts.HttpClientTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60), opts.RequestBurst),
	}
	return c, nil
}

func (c *Client) endpoint(subpath string, query url.Values) *url.URL {
	u := *c.baseURL
	u.Path = path.Join(u.Path, subpath)
	u.RawQuery = query.Encode()
	return &u
}

func (c *Client) getJSON(ctx context.Context, u *url.URL, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("could not create http request: %v: %w", err, ErrDataUnavailable)
	}
	req.Header.Set("accept", "application/json")
	if len(c.opts.APIKey) != 0 {
		req.Header.Set("x-cg-demo-api-key", c.opts.APIKey)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("could not wait for rate limiter: %v: %w", err, ErrDataUnavailable)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.ErrorContext(ctx, "could not do http client request", "path", u.Path, "error", err)
		}
		return fmt.Errorf("could not fetch %s: %v: %w", u.Path, err, ErrDataUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var eresp internal.ErrorResponse
		if err := json.Unmarshal(data, &eresp); err == nil && len(eresp.Error) != 0 {
			data = []byte(eresp.Error)
		}
		slog.WarnContext(ctx, "market data request failed", "path", u.Path, "status", resp.StatusCode, "body", string(data))
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", u.Path, ErrNotFound)
		}
		return fmt.Errorf("%s: http status code %d: %s: %w", u.Path, resp.StatusCode, data, ErrDataUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("could not decode response for %s: %v: %w", u.Path, err, ErrDataUnavailable)
	}
	return nil
}

func checkID(id string) error {
	if len(id) == 0 {
		return fmt.Errorf("coin id cannot be empty: %w", os.ErrInvalid)
	}
	if strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("coin id %q has invalid characters: %w", id, os.ErrInvalid)
	}
	return nil
}

// FetchList returns a page of coins ordered by descending market cap. Page
// numbers start at one.
func (c *Client) FetchList(ctx context.Context, page, perPage int) ([]*gobs.Coin, error) {
	if page < 1 {
		return nil, fmt.Errorf("page number %d must be positive: %w", page, os.ErrInvalid)
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	values := make(url.Values)
	values.Set("vs_currency", "usd")
	values.Set("order", "market_cap_desc")
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(perPage))
	values.Set("sparkline", "false")

	var items []*internal.MarketsItem
	if err := c.getJSON(ctx, c.endpoint("/coins/markets", values), &items); err != nil {
		return nil, err
	}

	coins := make([]*gobs.Coin, 0, len(items))
	for i, item := range items {
		if item == nil || len(item.ID) == 0 {
			return nil, fmt.Errorf("markets item %d has no coin id: %w", i, ErrDataUnavailable)
		}
		coins = append(coins, toCoin(item))
	}
	return coins, nil
}

// FetchDetail returns the detailed information for a coin.
func (c *Client) FetchDetail(ctx context.Context, id string) (*gobs.CoinDetail, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	values := make(url.Values)
	values.Set("localization", "false")
	values.Set("tickers", "false")
	values.Set("community_data", "false")
	values.Set("developer_data", "false")

	resp := new(internal.CoinResponse)
	if err := c.getJSON(ctx, c.endpoint(path.Join("/coins", id), values), resp); err != nil {
		return nil, err
	}
	if len(resp.ID) == 0 {
		return nil, fmt.Errorf("coin response for %q has no id: %w", id, ErrDataUnavailable)
	}
	return toCoinDetail(resp), nil
}

// FetchHistory returns the usd price history for the coin in the last
// `days` days, which must be one of LookbackDays.
func (c *Client) FetchHistory(ctx context.Context, id string, days int) ([]*gobs.PricePoint, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if !slices.Contains(LookbackDays, days) {
		return nil, fmt.Errorf("lookback window %d days must be one of %v: %w", days, LookbackDays, os.ErrInvalid)
	}

	values := make(url.Values)
	values.Set("vs_currency", "usd")
	values.Set("days", strconv.Itoa(days))

	resp := new(internal.MarketChartResponse)
	if err := c.getJSON(ctx, c.endpoint(path.Join("/coins", id, "market_chart"), values), resp); err != nil {
		return nil, err
	}
	return toPricePoints(resp), nil
}
