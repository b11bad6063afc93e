// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package feed

import (
	"fmt"
	"time"
)

// Config holds feed engine tuning.
type Config struct {
	// DefaultLimit is the page size when the request does not set one.
	DefaultLimit int `koanf:"default_limit" json:"default_limit"`

	// MaxLimit caps the page size.
	MaxLimit int `koanf:"max_limit" json:"max_limit"`

	// ParallelThreshold is the candidate count above which scoring runs
	// as a parallel chunked map instead of a serial loop.
	ParallelThreshold int `koanf:"parallel_threshold" json:"parallel_threshold"`

	// Workers is the number of goroutines for parallel scoring.
	Workers int `koanf:"workers" json:"workers"`

	// CacheEnabled toggles the response cache.
	CacheEnabled bool `koanf:"cache_enabled" json:"cache_enabled"`

	// CacheTTL is how long assembled pages stay valid.
	CacheTTL time.Duration `koanf:"cache_ttl" json:"cache_ttl"`

	// RateLimit is the maximum assembly passes per second, 0 disables.
	RateLimit float64 `koanf:"rate_limit" json:"rate_limit"`

	// RateBurst is the limiter burst size.
	RateBurst int `koanf:"rate_burst" json:"rate_burst"`
}

// DefaultConfig returns the production feed engine tuning.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:      20,
		MaxLimit:          100,
		ParallelThreshold: 16,
		Workers:           4,
		CacheEnabled:      true,
		CacheTTL:          30 * time.Second,
		RateLimit:         100,
		RateBurst:         200,
	}
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("feed config: default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("feed config: max_limit %d below default_limit %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.ParallelThreshold < 1 {
		return fmt.Errorf("feed config: parallel_threshold must be at least 1, got %d", c.ParallelThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("feed config: workers must be at least 1, got %d", c.Workers)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("feed config: rate_limit must not be negative, got %f", c.RateLimit)
	}
	return nil
}
