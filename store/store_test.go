// Copyright (c) 2025 BVK Chaitanya

package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bvk/coindash/gobs"
	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
)

func setRaw(t *testing.T, db kv.Database, key, value string) {
	t.Helper()
	err := kv.WithReadWriter(context.Background(), db, func(ctx context.Context, rw kv.ReadWriter) error {
		return rw.Set(ctx, key, strings.NewReader(value))
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	v, err := GetDB[bool](ctx, db, DarkModeKey)
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatalf("want nil value for missing key, got %v", *v)
	}
}

func TestGetCorrupt(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	testcases := []string{
		`not-json`,
		`"true"`,
		`true false`,
		`{"id":"bitcoin"}`,
		`[{"id":""}]`,
		`[null]`,
	}
	for _, tc := range testcases {
		setRaw(t, db, DarkModeKey, tc)
		setRaw(t, db, WatchlistKey, tc)

		if _, err := GetDB[bool](ctx, db, DarkModeKey); !errors.Is(err, ErrStorageCorrupt) {
			t.Fatalf("%q: want ErrStorageCorrupt for dark mode, got %v", tc, err)
		}
		if _, err := GetDB[gobs.Watchlist](ctx, db, WatchlistKey); !errors.Is(err, ErrStorageCorrupt) {
			t.Fatalf("%q: want ErrStorageCorrupt for watchlist, got %v", tc, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()
	setRaw(t, db, WatchlistKey, `{{{`)

	err := kv.WithReader(ctx, db, func(ctx context.Context, r kv.Reader) error {
		v, err := Load(ctx, r, WatchlistKey, gobs.Watchlist{})
		if err != nil {
			return err
		}
		if len(v) != 0 {
			t.Fatalf("want empty watchlist, got %d entries", len(v))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestDarkMode(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	if v, err := DarkMode(ctx, db); err != nil || v {
		t.Fatalf("want false/nil, got %v/%v", v, err)
	}
	if v, err := ToggleDarkMode(ctx, db); err != nil || !v {
		t.Fatalf("want true/nil, got %v/%v", v, err)
	}
	if v, err := DarkMode(ctx, db); err != nil || !v {
		t.Fatalf("want true/nil, got %v/%v", v, err)
	}
	if v, err := ToggleDarkMode(ctx, db); err != nil || v {
		t.Fatalf("want false/nil, got %v/%v", v, err)
	}

	setRaw(t, db, DarkModeKey, "garbage")
	if v, err := DarkMode(ctx, db); err != nil || v {
		t.Fatalf("want false/nil for corrupt value, got %v/%v", v, err)
	}
	if v, err := ToggleDarkMode(ctx, db); err != nil || !v {
		t.Fatalf("want true/nil after toggling corrupt value, got %v/%v", v, err)
	}

	if err := SetDarkMode(ctx, db, false); err != nil {
		t.Fatal(err)
	}
	if v, err := DarkMode(ctx, db); err != nil || v {
		t.Fatalf("want false/nil after set, got %v/%v", v, err)
	}
	if err := SetDarkMode(ctx, db, true); err != nil {
		t.Fatal(err)
	}
	if v, err := DarkMode(ctx, db); err != nil || !v {
		t.Fatalf("want true/nil after set, got %v/%v", v, err)
	}
}
