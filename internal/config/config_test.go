// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Feed.DefaultLimit != 20 {
		t.Errorf("Feed.DefaultLimit = %d, want 20", cfg.Feed.DefaultLimit)
	}
	if cfg.Scoring.FollowedCompanyPoints != 10 {
		t.Errorf("Scoring.FollowedCompanyPoints = %d, want 10", cfg.Scoring.FollowedCompanyPoints)
	}
	if cfg.Scoring.RecencyWindowDays != 30 {
		t.Errorf("Scoring.RecencyWindowDays = %d, want 30", cfg.Scoring.RecencyWindowDays)
	}
	if cfg.NATS.Enabled {
		t.Error("NATS.Enabled should default to false")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FEED_MAX_LIMIT", "250")
	t.Setenv("SCORING_SKILL_POINTS", "7")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Feed.MaxLimit != 250 {
		t.Errorf("Feed.MaxLimit = %d, want 250", cfg.Feed.MaxLimit)
	}
	if cfg.Scoring.SkillPoints != 7 {
		t.Errorf("Scoring.SkillPoints = %d, want 7", cfg.Scoring.SkillPoints)
	}
	if !cfg.NATS.Enabled {
		t.Error("NATS.Enabled not overridden")
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://a.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 7070
feed:
  default_limit: 25
  max_limit: 50
scoring:
  recency_window_days: 14
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Feed.DefaultLimit != 25 || cfg.Feed.MaxLimit != 50 {
		t.Errorf("Feed limits = %d/%d, want 25/50", cfg.Feed.DefaultLimit, cfg.Feed.MaxLimit)
	}
	if cfg.Scoring.RecencyWindowDays != 14 {
		t.Errorf("RecencyWindowDays = %d, want 14", cfg.Scoring.RecencyWindowDays)
	}

	// Unset sections keep their defaults.
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %v, want 30s", cfg.Server.Timeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Server.Port = %d, want env override 6060", cfg.Server.Port)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 0 },
		},
		{
			name:   "max page below default",
			mutate: func(c *Config) { c.API.MaxPageSize = 5 },
		},
		{
			name: "production without jwt secret",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.JWTSecret = ""
			},
		},
		{
			name:   "negative scoring weight",
			mutate: func(c *Config) { c.Scoring.SkillPoints = -1 },
		},
		{
			name:   "feed workers zero",
			mutate: func(c *Config) { c.Feed.Workers = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUnmappedEnvVarsIgnored(t *testing.T) {
	t.Setenv("RANDOM_UNRELATED_VAR", "surprise")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, unrelated env var changed config", cfg.Server.Port)
	}
}
