// Copyright (c) 2025 BVK Chaitanya

package view

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/bvk/coindash/chart"
	"github.com/bvk/coindash/coingecko"
	"github.com/bvk/coindash/gobs"
	"golang.org/x/sync/errgroup"
)

const DefaultDays = 7

// DescriptionLimit is the number of description characters shown in the
// detail view.
const DescriptionLimit = 200

// ShortDescription returns the first DescriptionLimit characters of the
// description followed by an ellipsis. Empty descriptions stay empty.
func ShortDescription(s string) string {
	if len(s) == 0 {
		return ""
	}
	if rs := []rune(s); len(rs) > DescriptionLimit {
		s = string(rs[:DescriptionLimit])
	}
	return s + "..."
}

type DetailState struct {
	ID   string
	Days int

	Loading bool
	Failed  bool
	Error   string

	Detail *gobs.CoinDetail
	Chart  *chart.Series
}

func (s *DetailState) clone() *DetailState {
	v := *s
	return &v
}

// DetailIntent changes the detail state. Implementations return true when the
// change requires a new fetch.
type DetailIntent interface {
	applyDetail(*DetailState) bool
}

type SetCoin string

func (v SetCoin) applyDetail(s *DetailState) bool {
	if string(v) == s.ID {
		return false
	}
	s.ID = string(v)
	return true
}

// SetDays selects the chart lookback. Values other than the supported
// lookbacks are ignored.
type SetDays int

func (v SetDays) applyDetail(s *DetailState) bool {
	if !slices.Contains(coingecko.LookbackDays, int(v)) || int(v) == s.Days {
		return false
	}
	s.Days = int(v)
	return true
}

type DetailView struct {
	source MarketData

	mu         sync.Mutex
	state      DetailState
	generation uint64
	mounted    bool
}

func NewDetailView(source MarketData, id string) *DetailView {
	return &DetailView{
		source: source,
		state: DetailState{
			ID:   id,
			Days: DefaultDays,
		},
	}
}

func (v *DetailView) State() *DetailState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.clone()
}

func (v *DetailView) Mount(ctx context.Context) *DetailState {
	return v.Dispatch(ctx)
}

// Dispatch applies the intents in order and refetches the detail and history
// when the coin or the lookback changed.
func (v *DetailView) Dispatch(ctx context.Context, intents ...DetailIntent) *DetailState {
	v.mu.Lock()
	refetch := !v.mounted
	for _, in := range intents {
		if in.applyDetail(&v.state) {
			refetch = true
		}
	}
	v.mu.Unlock()

	if refetch {
		v.fetch(ctx)
	}
	return v.State()
}

func (v *DetailView) fetch(ctx context.Context) {
	v.mu.Lock()
	v.mounted = true
	v.generation++
	gen, id, days := v.generation, v.state.ID, v.state.Days
	v.state.Loading = true
	v.mu.Unlock()

	var detail *gobs.CoinDetail
	var points []*gobs.PricePoint

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		detail, err = v.source.FetchDetail(gctx, id)
		return err
	})
	eg.Go(func() (err error) {
		points, err = v.source.FetchHistory(gctx, id, days)
		return err
	})
	err := eg.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.generation {
		slog.DebugContext(ctx, "dropping superseded detail fetch", "coin", id, "days", days, "generation", gen, "current", v.generation)
		return
	}

	v.state.Loading = false
	if err != nil {
		slog.WarnContext(ctx, "could not fetch coin detail", "coin", id, "days", days, "error", err)
		v.state.Failed = true
		v.state.Error = FailedMessage
		v.state.Detail = nil
		v.state.Chart = nil
		return
	}
	v.state.Failed = false
	v.state.Error = ""
	v.state.Detail = detail
	v.state.Chart = chart.ToSeries(points)
}
