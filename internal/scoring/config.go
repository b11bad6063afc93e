// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package scoring

import "fmt"

// Config holds the additive signal weights and the interaction recency
// window. The defaults are the production weights; tests and experiments
// construct scorers with their own table.
type Config struct {
	// FollowedCompanyPoints per detected company the viewer follows.
	FollowedCompanyPoints int `koanf:"followed_company_points" json:"followed_company_points"`

	// SkillPoints per detected skill matching a profile skill.
	SkillPoints int `koanf:"skill_points" json:"skill_points"`

	// IndustryPoints per detected industry matching a profile industry.
	IndustryPoints int `koanf:"industry_points" json:"industry_points"`

	// AuthorHeadlineIndustryPoints per viewer industry found in the
	// author's headline.
	AuthorHeadlineIndustryPoints int `koanf:"author_headline_industry_points" json:"author_headline_industry_points"`

	// AuthorHeadlineSkillPoints per viewer skill found in the author's
	// headline.
	AuthorHeadlineSkillPoints int `koanf:"author_headline_skill_points" json:"author_headline_skill_points"`

	// AuthorSkillOverlapPoints per viewer skill overlapping the author's
	// own skills.
	AuthorSkillOverlapPoints int `koanf:"author_skill_overlap_points" json:"author_skill_overlap_points"`

	// RecentEngagementPoints per detected company the viewer engaged with
	// inside the recency window.
	RecentEngagementPoints int `koanf:"recent_engagement_points" json:"recent_engagement_points"`

	// RecencyWindowDays bounds the trailing interaction window.
	RecencyWindowDays int `koanf:"recency_window_days" json:"recency_window_days"`
}

// DefaultConfig returns the production signal table.
func DefaultConfig() Config {
	return Config{
		FollowedCompanyPoints:        10,
		SkillPoints:                  5,
		IndustryPoints:               3,
		AuthorHeadlineIndustryPoints: 2,
		AuthorHeadlineSkillPoints:    2,
		AuthorSkillOverlapPoints:     2,
		RecentEngagementPoints:       4,
		RecencyWindowDays:            30,
	}
}

// Validate checks the weight table for values that would break the
// monotonicity and non-negativity guarantees.
func (c Config) Validate() error {
	weights := map[string]int{
		"followed_company_points":         c.FollowedCompanyPoints,
		"skill_points":                    c.SkillPoints,
		"industry_points":                 c.IndustryPoints,
		"author_headline_industry_points": c.AuthorHeadlineIndustryPoints,
		"author_headline_skill_points":    c.AuthorHeadlineSkillPoints,
		"author_skill_overlap_points":     c.AuthorSkillOverlapPoints,
		"recent_engagement_points":        c.RecentEngagementPoints,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("scoring config: %s must be non-negative, got %d", name, w)
		}
	}
	if c.RecencyWindowDays <= 0 {
		return fmt.Errorf("scoring config: recency_window_days must be positive, got %d", c.RecencyWindowDays)
	}
	return nil
}
