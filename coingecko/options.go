// Copyright (c) 2025 BVK Chaitanya

package coingecko

import (
	"fmt"
	"net/url"
	"time"
)

var BaseURL = "https://api.coingecko.com/api/v3"

type Options struct {
	// BaseURL is the api endpoint including the version prefix.
	BaseURL string

	// APIKey is an optional demo api key sent with every request.
	APIKey string

	// Timeout to use for the HTTP requests.
	HttpClientTimeout time.Duration

	// RequestsPerMinute limits the request rate. Requests wait for their turn
	// instead of failing with a too-many-requests response.
	RequestsPerMinute int

	// RequestBurst is the max number of requests allowed back to back.
	RequestBurst int
}

func (v *Options) setDefaults() {
	if v.BaseURL == "" {
		v.BaseURL = BaseURL
	}
	if v.HttpClientTimeout == 0 {
		v.HttpClientTimeout = 10 * time.Second
	}
	if v.RequestsPerMinute == 0 {
		v.RequestsPerMinute = 30
	}
	if v.RequestBurst == 0 {
		v.RequestBurst = 5
	}
}

func (v *Options) Check() error {
	u, err := url.Parse(v.BaseURL)
	if err != nil {
		return fmt.Errorf("could not parse base url %q: %w", v.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url %q must be a http or https url", v.BaseURL)
	}
	if v.RequestsPerMinute < 0 || v.RequestBurst < 0 {
		return fmt.Errorf("request rate limits cannot be negative")
	}
	return nil
}
