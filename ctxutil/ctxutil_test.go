// Copyright (c) 2025 BVK Chaitanya

package ctxutil

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestSleep(t *testing.T) {
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("want nil, got %v", err)
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(os.ErrClosed)
	if err := Sleep(ctx, time.Hour); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("want %v, got %v", os.ErrClosed, err)
	}
}

func TestPoll(t *testing.T) {
	ctx := context.Background()

	calls := 0
	succeedThird := func() error {
		if calls++; calls < 3 {
			return os.ErrNotExist
		}
		return nil
	}
	if err := Poll(ctx, time.Millisecond, time.Minute, succeedThird); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("want 3 calls, got %d", calls)
	}

	never := func() error { return os.ErrNotExist }
	if err := Poll(ctx, time.Millisecond, 10*time.Millisecond, never); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want %v, got %v", os.ErrNotExist, err)
	}
}
