// Copyright (c) 2025 BVK Chaitanya

package ctxutil

import (
	"context"
	"time"
)

// Sleep blocks the caller for the given duration. Returns the context cause
// if the context is canceled before that.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-timer.C:
		return nil
	}
}

// Poll calls f every interval till it succeeds, the context is canceled, or
// the timeout expires. A non-positive timeout polls till the context is
// canceled. Returns the last error from f when it never succeeded.
func Poll(ctx context.Context, interval, timeout time.Duration, f func() error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	for {
		err := f()
		if err == nil {
			return nil
		}
		if Sleep(ctx, interval) != nil {
			return err
		}
	}
}
