// Copyright (c) 2025 BVK Chaitanya

package api

const (
	DarkModeGetPath    = "/api/darkmode/get"
	DarkModeTogglePath = "/api/darkmode/toggle"
)

type DarkModeGetRequest struct {
}

type DarkModeGetResponse struct {
	DarkMode bool

	Error string
}

type DarkModeToggleRequest struct {
}

type DarkModeToggleResponse struct {
	DarkMode bool

	Error string
}
