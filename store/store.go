// Copyright (c) 2025 BVK Chaitanya

// Package store implements a typed key-value repository for user preferences
// on top of a kv.Database. Values are stored as JSON documents.
//
// Malformed values are reported as ErrStorageCorrupt by Get. Callers that
// want fail-soft behavior use Load, which replaces absent or corrupt values
// with a default.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bvk/coindash/kvutil"
	"github.com/bvkgo/kv"
)

const (
	DarkModeKey  = "/darkMode"
	WatchlistKey = "/watchlist"
)

var ErrStorageCorrupt = errors.New("storage corrupt")

type checker interface {
	Check() error
}

// Get returns the value stored at the key. Returns nil value and nil error
// when the key does not exist.
func Get[T any](ctx context.Context, g kv.Getter, key string) (*T, error) {
	data, err := kvutil.ReadAll(ctx, g, key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not get value at key %q: %w", key, err)
	}

	v := new(T)
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(v); err != nil {
		return nil, fmt.Errorf("could not json-decode value at key %q: %v: %w", key, err, ErrStorageCorrupt)
	}
	if decoder.More() {
		return nil, fmt.Errorf("value at key %q has trailing data: %w", key, ErrStorageCorrupt)
	}
	if c, ok := any(v).(checker); ok {
		if err := c.Check(); err != nil {
			return nil, fmt.Errorf("value at key %q is invalid: %v: %w", key, err, ErrStorageCorrupt)
		}
	}
	return v, nil
}

func Set[T any](ctx context.Context, s kv.Setter, key string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not json-encode value for key %q: %w", key, err)
	}
	return s.Set(ctx, key, bytes.NewReader(data))
}

// Load is like Get, but returns the default value when the key is absent or
// holds a corrupt value. Only underlying database failures are reported.
func Load[T any](ctx context.Context, g kv.Getter, key string, def T) (T, error) {
	v, err := Get[T](ctx, g, key)
	if err != nil {
		if errors.Is(err, ErrStorageCorrupt) {
			slog.WarnContext(ctx, "using default value for corrupt stored value", "key", key, "error", err)
			return def, nil
		}
		return def, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

func GetDB[T any](ctx context.Context, db kv.Database, key string) (value *T, err error) {
	err = kv.WithReader(ctx, db, func(ctx context.Context, r kv.Reader) error {
		value, err = Get[T](ctx, r, key)
		return err
	})
	return value, err
}

func SetDB[T any](ctx context.Context, db kv.Database, key string, value *T) error {
	return kv.WithReadWriter(ctx, db, func(ctx context.Context, rw kv.ReadWriter) error {
		return Set[T](ctx, rw, key, value)
	})
}
