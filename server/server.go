// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"

	"github.com/bvk/coindash/api"
	"github.com/bvk/coindash/gobs"
	"github.com/bvk/coindash/store"
	"github.com/bvk/coindash/view"
	"github.com/bvk/coindash/watchlist"
	"github.com/bvkgo/kv"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server hosts the dashboard views and the json api over a database and a
// market data source.
type Server struct {
	opts Options

	db     kv.Database
	source view.MarketData

	watchlist *watchlist.Manager

	// list is the dashboard list view. It keeps the page cursor and filter
	// across requests so that navigating back to the list restores them.
	list *view.ListView

	pages *template.Template
}

func New(db kv.Database, source view.MarketData, opts *Options) (_ *Server, status error) {
	if db == nil || source == nil {
		return nil, fmt.Errorf("database and market data source are required: %w", os.ErrInvalid)
	}
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("could not parse page templates: %w", err)
	}

	s := &Server{
		opts:      *opts,
		db:        db,
		source:    source,
		watchlist: watchlist.New(db),
		list:      view.NewListView(source, opts.PerPage),
		pages:     pages,
	}
	return s, nil
}

func (s *Server) Close() error {
	return nil
}

// HandlerMap returns the http handlers keyed by their url patterns.
func (s *Server) HandlerMap() map[string]http.Handler {
	apis := map[string]http.Handler{
		api.ListPath:            httpPostJSONHandler(s.doList),
		api.DetailPath:          httpPostJSONHandler(s.doDetail),
		api.WatchlistAddPath:    httpPostJSONHandler(s.doWatchlistAdd),
		api.WatchlistRemovePath: httpPostJSONHandler(s.doWatchlistRemove),
		api.WatchlistListPath:   httpPostJSONHandler(s.doWatchlistList),
		api.DarkModeGetPath:     httpPostJSONHandler(s.doDarkModeGet),
		api.DarkModeTogglePath:  httpPostJSONHandler(s.doDarkModeToggle),
	}
	if len(s.opts.CORSOrigins) > 0 {
		allow := cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		})
		for k, v := range apis {
			apis[k] = allow(v)
		}
	}
	apis["/"] = s.router()
	return apis
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.serveList)
	r.Get("/coin/{id}", s.serveDetail)
	r.Get("/watchlist", s.serveWatchlist)

	r.Post("/watchlist/add", s.postWatchlistAdd)
	r.Post("/watchlist/remove", s.postWatchlistRemove)
	r.Post("/darkmode/toggle", s.postDarkModeToggle)
	return r
}

// fetchContext limits the remote fetches for a request.
func (s *Server) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.FetchTimeout)
}

// lookupCoin returns a summary snapshot for the coin id. Coins on the current
// list page are used as-is; others are fetched from the source.
func (s *Server) lookupCoin(ctx context.Context, id string) (*gobs.Coin, error) {
	if c, ok := s.list.Lookup(id); ok {
		return c, nil
	}
	ctx, cancel := s.fetchContext(ctx)
	defer cancel()

	detail, err := s.source.FetchDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch coin %q: %w", id, err)
	}
	return detail.Coin(), nil
}

func (s *Server) darkMode(ctx context.Context) bool {
	enabled, err := store.DarkMode(ctx, s.db)
	if err != nil {
		slog.WarnContext(ctx, "could not read dark mode preference (ignored)", "error", err)
		return false
	}
	return enabled
}
