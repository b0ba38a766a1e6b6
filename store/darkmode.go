// Copyright (c) 2025 BVK Chaitanya

package store

import (
	"context"

	"github.com/bvkgo/kv"
)

// DarkMode returns the persisted dark mode preference, which defaults to
// false when it was never set.
func DarkMode(ctx context.Context, db kv.Database) (enabled bool, err error) {
	err = kv.WithReader(ctx, db, func(ctx context.Context, r kv.Reader) error {
		enabled, err = Load(ctx, r, DarkModeKey, false)
		return err
	})
	return enabled, err
}

func SetDarkMode(ctx context.Context, db kv.Database, enabled bool) error {
	return SetDB(ctx, db, DarkModeKey, &enabled)
}

// ToggleDarkMode negates the persisted preference and returns the new value.
func ToggleDarkMode(ctx context.Context, db kv.Database) (enabled bool, err error) {
	err = kv.WithReadWriter(ctx, db, func(ctx context.Context, rw kv.ReadWriter) error {
		old, err := Load(ctx, rw, DarkModeKey, false)
		if err != nil {
			return err
		}
		enabled = !old
		return Set(ctx, rw, DarkModeKey, &enabled)
	})
	return enabled, err
}
