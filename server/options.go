// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"fmt"
	"time"

	"github.com/bvk/coindash/coingecko"
)

type Options struct {
	// PerPage holds the number of coins fetched per list page.
	PerPage int

	// FetchTimeout limits the time spent on remote fetches for a single
	// request.
	FetchTimeout time.Duration

	// CORSOrigins lists the origins allowed to call the json api from
	// browsers. Cross-origin requests are not allowed when empty.
	CORSOrigins []string
}

func (v *Options) setDefaults() {
	if v.PerPage == 0 {
		v.PerPage = coingecko.DefaultPerPage
	}
	if v.FetchTimeout == 0 {
		v.FetchTimeout = 30 * time.Second
	}
}

func (v *Options) Check() error {
	if v.PerPage < 1 || v.PerPage > 250 {
		return fmt.Errorf("per page count must be within [1, 250]")
	}
	if v.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout cannot be negative")
	}
	return nil
}
