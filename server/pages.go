// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bvk/coindash/chart"
	"github.com/bvk/coindash/coingecko"
	"github.com/bvk/coindash/listview"
	"github.com/bvk/coindash/store"
	"github.com/bvk/coindash/view"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const (
	chartWidth  = 800
	chartHeight = 300
)

type pageData struct {
	Title    string
	DarkMode bool
	Message  string

	// Path is the current request path and query. Forms post it back so that
	// the user is redirected to the same page.
	Path string
}

type listPage struct {
	pageData

	State *view.ListState

	Sorts []listview.SortMode
}

type detailPage struct {
	pageData

	State       *view.DetailState
	Lookbacks   []int
	InWatchlist bool

	Description string

	// Points holds the svg polyline points for the chart and FirstLabel and
	// LastLabel hold the dates at the two ends.
	Points     string
	FirstLabel string
	LastLabel  string
}

type watchlistPage struct {
	pageData

	State *view.WatchlistState
}

func (s *Server) newPageData(r *http.Request, title string) pageData {
	return pageData{
		Title:    title,
		DarkMode: s.darkMode(r.Context()),
		Message:  r.URL.Query().Get("msg"),
		Path:     r.URL.RequestURI(),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "could not render page", "page", name, "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// listIntents converts the list page query parameters into intents. Only the
// parameters present in the query change the state.
func listIntents(q url.Values) ([]view.ListIntent, error) {
	var intents []view.ListIntent
	if q.Has("search") {
		intents = append(intents, view.SetSearch(q.Get("search")))
	}
	if q.Has("min") || q.Has("max") {
		lo, err := listview.ParseBound(q.Get("min"))
		if err != nil {
			return nil, err
		}
		hi, err := listview.ParseBound(q.Get("max"))
		if err != nil {
			return nil, err
		}
		intents = append(intents, view.SetRange{Min: lo, Max: hi})
	}
	if q.Has("sort") {
		mode, err := listview.ParseSortMode(q.Get("sort"))
		if err != nil {
			return nil, err
		}
		intents = append(intents, view.SetSort(mode))
	}
	if q.Has("page") {
		page, err := strconv.Atoi(q.Get("page"))
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q: %w", q.Get("page"), err)
		}
		intents = append(intents, view.SetPage(page))
	}
	return intents, nil
}

// redirectNav answers a relative page move with a redirect to the absolute
// page number, so that reloading the resulting url does not move again.
func (s *Server) redirectNav(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := s.list.State().Page
	switch q.Get("nav") {
	case "next":
		page++
	case "prev":
		page = max(page-1, 1)
	default:
		http.Error(w, fmt.Sprintf("invalid nav value %q", q.Get("nav")), http.StatusBadRequest)
		return
	}
	q.Del("nav")
	q.Set("page", strconv.Itoa(page))
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func (s *Server) serveList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if q.Has("nav") {
		s.redirectNav(w, r)
		return
	}

	intents, err := listIntents(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fctx, cancel := s.fetchContext(ctx)
	defer cancel()

	state := s.list.Dispatch(fctx, intents...)
	if q.Has("reload") {
		state = s.list.Reload(fctx)
	}

	data := &listPage{
		pageData: s.newPageData(r, "Cryptocurrency Dashboard"),
		State:    state,
		Sorts:    []listview.SortMode{listview.SortDefault, listview.SortGainers, listview.SortLosers},
	}
	s.render(w, r, "list", data)
}

func (s *Server) serveDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var intents []view.DetailIntent
	if v := r.URL.Query().Get("days"); len(v) != 0 {
		days, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid days value %q", v), http.StatusBadRequest)
			return
		}
		intents = append(intents, view.SetDays(days))
	}

	fctx, cancel := s.fetchContext(ctx)
	defer cancel()

	state := view.NewDetailView(s.source, id).Dispatch(fctx, intents...)

	data := &detailPage{
		pageData:  s.newPageData(r, id),
		State:     state,
		Lookbacks: coingecko.LookbackDays,
	}
	if state.Detail != nil {
		data.Title = state.Detail.Name
		data.Description = view.ShortDescription(state.Detail.Description)
		if !state.Chart.Empty() {
			data.Points = polyline(state.Chart, chartWidth, chartHeight)
			data.FirstLabel = state.Chart.Labels[0]
			data.LastLabel = state.Chart.Labels[len(state.Chart.Labels)-1]
		}

		in, err := s.watchlist.Contains(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "could not check watchlist (ignored)", "coin", id, "error", err)
		}
		data.InWatchlist = in
	}
	s.render(w, r, "detail", data)
}

func (s *Server) serveWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state, err := view.NewWatchlistView(s.watchlist).Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not load watchlist", "error", err)
		http.Error(w, "could not load watchlist", http.StatusInternalServerError)
		return
	}
	data := &watchlistPage{
		pageData: s.newPageData(r, "Your Watchlist"),
		State:    state,
	}
	s.render(w, r, "watchlist", data)
}

// redirectBack redirects to the page path posted by the form, with the
// message in the query.
func redirectBack(w http.ResponseWriter, r *http.Request, msg string) {
	target := "/"
	if v := r.PostFormValue("return"); strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") {
		target = v
	}
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Del("msg")
	q.Del("nav")
	q.Del("reload")
	if len(msg) != 0 {
		q.Set("msg", msg)
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.RequestURI(), http.StatusSeeOther)
}

func (s *Server) postWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PostFormValue("id")
	if len(id) == 0 {
		http.Error(w, "coin id cannot be empty", http.StatusBadRequest)
		return
	}

	coin, err := s.lookupCoin(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "could not lookup coin for watchlist", "coin", id, "error", err)
		redirectBack(w, r, view.FailedMessage)
		return
	}
	state, err := view.NewWatchlistView(s.watchlist).Add(ctx, coin)
	if err != nil {
		slog.ErrorContext(ctx, "could not add coin to watchlist", "coin", id, "error", err)
		http.Error(w, "could not update watchlist", http.StatusInternalServerError)
		return
	}
	redirectBack(w, r, state.Message)
}

func (s *Server) postWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PostFormValue("id")
	if len(id) == 0 {
		http.Error(w, "coin id cannot be empty", http.StatusBadRequest)
		return
	}
	state, err := view.NewWatchlistView(s.watchlist).Remove(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "could not remove coin from watchlist", "coin", id, "error", err)
		http.Error(w, "could not update watchlist", http.StatusInternalServerError)
		return
	}
	redirectBack(w, r, state.Message)
}

func (s *Server) postDarkModeToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	enabled, err := store.ToggleDarkMode(ctx, s.db)
	if err != nil {
		slog.ErrorContext(ctx, "could not toggle dark mode", "error", err)
		http.Error(w, "could not toggle dark mode", http.StatusInternalServerError)
		return
	}
	slog.InfoContext(ctx, "dark mode toggled", "enabled", enabled)
	redirectBack(w, r, "")
}

// polyline returns the svg polyline points for the series scaled into the
// given width and height. Higher prices are drawn closer to the top.
func polyline(s *chart.Series, width, height float64) string {
	if s.Empty() {
		return ""
	}
	lo := decimal.Min(s.Values[0], s.Values[1:]...)
	hi := decimal.Max(s.Values[0], s.Values[1:]...)
	span := hi.Sub(lo).InexactFloat64()

	var sb strings.Builder
	n := len(s.Values)
	for i, v := range s.Values {
		x := width / 2
		if n > 1 {
			x = float64(i) * width / float64(n-1)
		}
		y := height / 2
		if span > 0 {
			y = height - v.Sub(lo).InexactFloat64()/span*height
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	return sb.String()
}
