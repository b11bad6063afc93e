// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package config loads layered service configuration: built-in defaults,
// an optional YAML file, then environment variables, each layer
// overriding the one below.
package config

import (
	"fmt"
	"time"

	"github.com/worklinkhq/relevance/internal/feed"
	"github.com/worklinkhq/relevance/internal/interactions"
	"github.com/worklinkhq/relevance/internal/scoring"
	"github.com/worklinkhq/relevance/internal/search"
	"github.com/worklinkhq/relevance/internal/store"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig            `koanf:"server"`
	API      APIConfig               `koanf:"api"`
	Security SecurityConfig          `koanf:"security"`
	Database store.Config            `koanf:"database"`
	Feed     feed.Config             `koanf:"feed"`
	Scoring  scoring.Config          `koanf:"scoring"`
	Search   search.Config           `koanf:"search"`
	NATS     interactions.NATSConfig `koanf:"nats"`
	Logging  LoggingConfig           `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds API pagination settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret signs and verifies viewer identity tokens. Required in
	// production; requests without a valid token get the generic feed.
	JWTSecret string `koanf:"jwt_secret"`

	// RateLimitReqs is requests allowed per window per client.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns off HTTP rate limiting entirely.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. Defaults are
// loaded first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Database: store.DefaultConfig(),
		Feed:     feed.DefaultConfig(),
		Scoring:  scoring.DefaultConfig(),
		Search:   search.DefaultConfig(),
		NATS:     interactions.DefaultNATSConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size %d below default_page_size %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.Server.Environment == "production" && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required in production")
	}
	if err := c.Feed.Validate(); err != nil {
		return err
	}
	if err := c.Scoring.Validate(); err != nil {
		return err
	}
	return nil
}
