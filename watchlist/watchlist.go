// Copyright (c) 2025 BVK Chaitanya

package watchlist

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bvk/coindash/gobs"
	"github.com/bvk/coindash/store"
	"github.com/bvkgo/kv"
)

type AddOutcome int

const (
	Added AddOutcome = iota + 1
	AlreadyPresent
)

func (v AddOutcome) String() string {
	switch v {
	case Added:
		return "Added"
	case AlreadyPresent:
		return "AlreadyPresent"
	}
	return fmt.Sprintf("AddOutcome(%d)", int(v))
}

type RemoveOutcome int

const (
	Removed RemoveOutcome = iota + 1
	NotPresent
)

func (v RemoveOutcome) String() string {
	switch v {
	case Removed:
		return "Removed"
	case NotPresent:
		return "NotPresent"
	}
	return fmt.Sprintf("RemoveOutcome(%d)", int(v))
}

// Manager owns the persisted watchlist. Every operation reads the current
// value from the database inside its own transaction; nothing is cached
// between calls.
type Manager struct {
	db  kv.Database
	key string
}

func New(db kv.Database) *Manager {
	return &Manager{db: db, key: store.WatchlistKey}
}

func (m *Manager) load(ctx context.Context, r kv.Reader) (gobs.Watchlist, error) {
	v, err := store.Load(ctx, r, m.key, gobs.Watchlist{})
	if err != nil {
		return nil, fmt.Errorf("could not load watchlist: %w", err)
	}
	return dedup(v), nil
}

// dedup keeps the first entry for every coin id.
func dedup(v gobs.Watchlist) gobs.Watchlist {
	seen := make(map[string]bool, len(v))
	return slices.DeleteFunc(v, func(c *gobs.Coin) bool {
		if seen[c.ID] {
			return true
		}
		seen[c.ID] = true
		return false
	})
}

// Add appends the coin snapshot to the watchlist unless an entry with the
// same id already exists.
func (m *Manager) Add(ctx context.Context, coin *gobs.Coin) (outcome AddOutcome, err error) {
	if err := coin.Check(); err != nil {
		return 0, err
	}
	add := func(ctx context.Context, rw kv.ReadWriter) error {
		items, err := m.load(ctx, rw)
		if err != nil {
			return err
		}
		if slices.ContainsFunc(items, func(c *gobs.Coin) bool { return c.ID == coin.ID }) {
			outcome = AlreadyPresent
			return nil
		}
		snapshot := *coin
		items = append(items, &snapshot)
		if err := store.Set(ctx, rw, m.key, &items); err != nil {
			return fmt.Errorf("could not save watchlist: %w", err)
		}
		outcome = Added
		return nil
	}
	if err := kv.WithReadWriter(ctx, m.db, add); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "watchlist add", "coin", coin.ID, "outcome", outcome)
	return outcome, nil
}

// Remove deletes all entries with the given id. Resulting list is persisted
// even when nothing matched.
func (m *Manager) Remove(ctx context.Context, id string) (outcome RemoveOutcome, err error) {
	remove := func(ctx context.Context, rw kv.ReadWriter) error {
		items, err := m.load(ctx, rw)
		if err != nil {
			return err
		}
		n := len(items)
		items = slices.DeleteFunc(items, func(c *gobs.Coin) bool { return c.ID == id })
		if err := store.Set(ctx, rw, m.key, &items); err != nil {
			return fmt.Errorf("could not save watchlist: %w", err)
		}
		outcome = NotPresent
		if len(items) != n {
			outcome = Removed
		}
		return nil
	}
	if err := kv.WithReadWriter(ctx, m.db, remove); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "watchlist remove", "coin", id, "outcome", outcome)
	return outcome, nil
}

// List returns the current watchlist. Returns an empty list if the watchlist
// was never saved.
func (m *Manager) List(ctx context.Context) (items []*gobs.Coin, err error) {
	err = kv.WithReader(ctx, m.db, func(ctx context.Context, r kv.Reader) error {
		items, err = m.load(ctx, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (m *Manager) Contains(ctx context.Context, id string) (bool, error) {
	items, err := m.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(items, func(c *gobs.Coin) bool { return c.ID == id }), nil
}
