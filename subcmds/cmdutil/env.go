// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bvk/coindash/coingecko"
	"github.com/joho/godotenv"
)

const (
	APIKeyEnv  = "COINDASH_API_KEY"
	BaseURLEnv = "COINDASH_API_BASE_URL"
)

// DataDir returns the absolute path for the data directory, creating it if
// necessary. Empty dir selects $HOME/.coindash.
func DataDir(dir string) (string, error) {
	if len(dir) == 0 {
		dir = filepath.Join(os.Getenv("HOME"), ".coindash")
	}
	if _, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("could not stat data directory %q: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", fmt.Errorf("could not create data directory %q: %w", dir, err)
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("could not determine data-dir %q absolute path: %w", dir, err)
	}
	return abs, nil
}

// LoadEnv loads the .env files from the given directories into the process
// environment. Missing files are skipped and variables already present in
// the environment are not overridden.
func LoadEnv(dirs ...string) error {
	for _, dir := range dirs {
		file := filepath.Join(dir, ".env")
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("could not load environment file %q: %w", file, err)
		}
	}
	return nil
}

// SourceOptions returns the market data client options from the environment.
func SourceOptions() *coingecko.Options {
	return &coingecko.Options{
		BaseURL: os.Getenv(BaseURLEnv),
		APIKey:  os.Getenv(APIKeyEnv),
	}
}
