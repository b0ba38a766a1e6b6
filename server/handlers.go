// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"slices"

	"github.com/bvk/coindash/api"
	"github.com/bvk/coindash/coingecko"
	"github.com/bvk/coindash/listview"
	"github.com/bvk/coindash/store"
	"github.com/bvk/coindash/view"
)

// httpPostJSONHandler adapts a request handler function into a http handler
// for json POST requests. Errors returned by the function are reported with
// a 400 status for invalid requests and a 500 status otherwise.
func httpPostJSONHandler[REQ, RESP any](fun func(context.Context, *REQ) (*RESP, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if r.Method != http.MethodPost {
			http.Error(w, "only POST method is supported", http.StatusMethodNotAllowed)
			return
		}
		if mtype, _, err := mime.ParseMediaType(r.Header.Get("content-type")); err != nil || mtype != "application/json" {
			http.Error(w, "content-type must be application/json", http.StatusBadRequest)
			return
		}

		req := new(REQ)
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, fmt.Sprintf("could not decode request: %v", err), http.StatusBadRequest)
			return
		}
		if v, ok := any(req).(interface{ Check() error }); ok {
			if err := v.Check(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		resp, err := fun(ctx, req)
		if err != nil {
			slog.WarnContext(ctx, "api request failed", "path", r.URL.Path, "error", err)
			status := http.StatusInternalServerError
			if errors.Is(err, os.ErrInvalid) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}

		data, err := json.Marshal(resp)
		if err != nil {
			http.Error(w, fmt.Sprintf("could not encode response: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "application/json")
		w.Write(data)
	})
}

// parseFilter converts user supplied filter inputs into a list filter.
// Parse failures are wrapped with os.ErrInvalid.
func parseFilter(search, min, max, sort string) (*listview.Filter, error) {
	lo, err := listview.ParseBound(min)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", os.ErrInvalid, err)
	}
	hi, err := listview.ParseBound(max)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", os.ErrInvalid, err)
	}
	mode, err := listview.ParseSortMode(sort)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", os.ErrInvalid, err)
	}
	f := &listview.Filter{
		Search:       search,
		MinMarketCap: lo,
		MaxMarketCap: hi,
		Sort:         mode,
	}
	return f, nil
}

func filterIntents(f *listview.Filter) []view.ListIntent {
	return []view.ListIntent{
		view.SetSearch(f.Search),
		view.SetRange{Min: f.MinMarketCap, Max: f.MaxMarketCap},
		view.SetSort(f.Sort),
	}
}

func (s *Server) doList(ctx context.Context, req *api.ListRequest) (*api.ListResponse, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return nil, fmt.Errorf("page number cannot be negative: %w", os.ErrInvalid)
	}
	filter, err := parseFilter(req.Search, req.MinMarketCap, req.MaxMarketCap, req.Sort)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.fetchContext(ctx)
	defer cancel()

	// API requests are stateless, so each one gets its own controller.
	v := view.NewListView(s.source, s.opts.PerPage)
	intents := append(filterIntents(filter), view.SetPage(page))
	state := v.Dispatch(ctx, intents...)

	resp := &api.ListResponse{
		Page:    state.Page,
		HasPrev: state.HasPrev(),
		Coins:   state.Derived,
		Error:   state.Error,
	}
	return resp, nil
}

func (s *Server) doDetail(ctx context.Context, req *api.DetailRequest) (*api.DetailResponse, error) {
	if len(req.ID) == 0 {
		return nil, fmt.Errorf("coin id cannot be empty: %w", os.ErrInvalid)
	}
	days := req.Days
	if days == 0 {
		days = view.DefaultDays
	}
	if !slices.Contains(coingecko.LookbackDays, days) {
		return nil, fmt.Errorf("lookback days must be one of %v: %w", coingecko.LookbackDays, os.ErrInvalid)
	}

	fctx, cancel := s.fetchContext(ctx)
	defer cancel()

	v := view.NewDetailView(s.source, req.ID)
	state := v.Dispatch(fctx, view.SetDays(days))

	resp := &api.DetailResponse{
		Days:  state.Days,
		Error: state.Error,
	}
	if state.Failed {
		return resp, nil
	}
	resp.Detail = state.Detail
	resp.Labels = state.Chart.Labels
	resp.Prices = state.Chart.Values

	in, err := s.watchlist.Contains(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	resp.InWatchlist = in
	return resp, nil
}

func (s *Server) doWatchlistAdd(ctx context.Context, req *api.WatchlistAddRequest) (*api.WatchlistAddResponse, error) {
	coin := req.Coin
	if coin == nil {
		c, err := s.lookupCoin(ctx, req.ID)
		if err != nil {
			return &api.WatchlistAddResponse{Error: err.Error()}, nil
		}
		coin = c
	}
	outcome, err := s.watchlist.Add(ctx, coin)
	if err != nil {
		return nil, err
	}
	resp := &api.WatchlistAddResponse{
		Outcome: outcome.String(),
		Message: view.AddMessage(coin.Name, outcome),
	}
	return resp, nil
}

func (s *Server) doWatchlistRemove(ctx context.Context, req *api.WatchlistRemoveRequest) (*api.WatchlistRemoveResponse, error) {
	outcome, err := s.watchlist.Remove(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	resp := &api.WatchlistRemoveResponse{
		Outcome: outcome.String(),
		Message: view.RemovedMessage,
	}
	return resp, nil
}

func (s *Server) doWatchlistList(ctx context.Context, req *api.WatchlistListRequest) (*api.WatchlistListResponse, error) {
	coins, err := s.watchlist.List(ctx)
	if err != nil {
		return nil, err
	}
	return &api.WatchlistListResponse{Coins: coins}, nil
}

func (s *Server) doDarkModeGet(ctx context.Context, req *api.DarkModeGetRequest) (*api.DarkModeGetResponse, error) {
	enabled, err := store.DarkMode(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return &api.DarkModeGetResponse{DarkMode: enabled}, nil
}

func (s *Server) doDarkModeToggle(ctx context.Context, req *api.DarkModeToggleRequest) (*api.DarkModeToggleResponse, error) {
	enabled, err := store.ToggleDarkMode(ctx, s.db)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "dark mode toggled", "enabled", enabled)
	return &api.DarkModeToggleResponse{DarkMode: enabled}, nil
}
