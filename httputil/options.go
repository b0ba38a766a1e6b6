// Copyright (c) 2025 BVK Chaitanya

package httputil

import (
	"fmt"
	"time"
)

type Options struct {
	// ReadyTimeout limits the wait for a new listener to answer its first
	// request.
	ReadyTimeout time.Duration

	// ReadyPollInterval is the gap between readiness requests.
	ReadyPollInterval time.Duration

	// ReadHeaderTimeout limits the time to read request headers.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout limits the wait for in-flight requests when a listener
	// is stopped. Remaining connections are closed forcibly after that.
	ShutdownTimeout time.Duration
}

func (v *Options) setDefaults() {
	if v.ReadyTimeout == 0 {
		v.ReadyTimeout = 10 * time.Second
	}
	if v.ReadyPollInterval == 0 {
		v.ReadyPollInterval = 100 * time.Millisecond
	}
	if v.ReadHeaderTimeout == 0 {
		v.ReadHeaderTimeout = 10 * time.Second
	}
	if v.ShutdownTimeout == 0 {
		v.ShutdownTimeout = 5 * time.Second
	}
}

func (v *Options) Check() error {
	if v.ReadyTimeout < 0 || v.ReadyPollInterval < 0 {
		return fmt.Errorf("readiness check timeouts cannot be negative")
	}
	if v.ReadHeaderTimeout < 0 || v.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}
	return nil
}
