// Copyright (c) 2025 BVK Chaitanya

package kvutil

import (
	"context"
	"fmt"
	"io"

	"github.com/bvkgo/kv"
)

// ReadAll returns the raw bytes stored at the key. Errors from the getter
// are returned as is, so callers can check for os.ErrNotExist.
func ReadAll(ctx context.Context, g kv.Getter, key string) ([]byte, error) {
	value, err := g.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(value)
	if err != nil {
		return nil, fmt.Errorf("could not read value at key %q: %w", key, err)
	}
	return data, nil
}
