// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package search implements tiered keyword ranking over profiles,
// companies, and posts.
//
// Ranking is text-tier matching against a main field (name, headline,
// content) and secondary fields (location, industry). Tiers are evaluated
// top-down and the first match wins; there is no summation across tiers.
// An optional personalization boost rewards documents whose entity tags
// intersect the viewer's profile.
package search

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/worklinkhq/relevance/internal/extract"
	"github.com/worklinkhq/relevance/internal/metrics"
	"github.com/worklinkhq/relevance/internal/scoring"
)

// ErrQueryTooShort is returned for non-empty queries shorter than the
// minimum. It is a distinct condition the API surfaces as a validation
// error, never silently treated as an empty result or a browse pass.
var ErrQueryTooShort = errors.New("search query too short")

// MinQueryRunes is the minimum length for a non-empty query.
const MinQueryRunes = 2

// Kind identifies the document type being ranked.
type Kind string

const (
	KindProfile Kind = "profile"
	KindCompany Kind = "company"
	KindPost    Kind = "post"
)

// Tier scores, top-down. First match wins.
const (
	ScoreMainExact        = 100
	ScoreMainPrefix       = 80
	ScoreSecondaryExact   = 70
	ScoreMainContains     = 60
	ScoreSecondaryPrefix  = 50
	ScoreSecondaryContain = 40
	ScoreNoMatch          = 0
)

// Document is one searchable item. Main is the primary display field
// (name, headline, post content); Slug is the URL identifier that counts
// as an exact match; Secondary holds auxiliary fields such as location and
// industry. Tags carry the document's detected entities for the
// personalization boost and may be zero.
type Document struct {
	Kind      Kind
	Main      string
	Slug      string
	Secondary []string
	Tags      extract.TagSet
}

// Query is a prepared search query. Browse is true for empty input, which
// means "browse all": the caller applies the type-specific default order
// instead of ranking by score.
type Query struct {
	Text   string
	Browse bool
}

// Config holds ranker tuning.
type Config struct {
	// PersonalizationBoost is added when a document's entity tags
	// intersect the viewer's profile. The boosted total is capped at the
	// exact-match score so personalization reorders within relevance, it
	// never outranks a better text match by more than one tier.
	PersonalizationBoost int `koanf:"personalization_boost" json:"personalization_boost"`
}

// DefaultConfig returns the production ranker tuning.
func DefaultConfig() Config {
	return Config{PersonalizationBoost: 10}
}

// Ranker ranks documents against prepared queries. Safe for concurrent use.
type Ranker struct {
	cfg Config
}

// New creates a Ranker.
func New(cfg Config) *Ranker {
	return &Ranker{cfg: cfg}
}

// PrepareQuery trims and lower-cases the raw query once. Empty input
// yields a browse-mode query; non-empty input shorter than MinQueryRunes
// returns ErrQueryTooShort.
func PrepareQuery(raw string) (Query, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return Query{Browse: true}, nil
	}
	if utf8.RuneCountInString(text) < MinQueryRunes {
		metrics.SearchRejectedQueries.Inc()
		return Query{}, ErrQueryTooShort
	}
	return Query{Text: text}, nil
}

// Rank scores one document against a prepared query. Browse-mode queries
// score 0 for every document; ordering is then the caller's concern.
func (r *Ranker) Rank(doc Document, q Query) int {
	if q.Browse || q.Text == "" {
		return ScoreNoMatch
	}

	main := strings.ToLower(doc.Main)
	slug := strings.ToLower(doc.Slug)

	if main == q.Text || (slug != "" && slug == q.Text) {
		metrics.RecordSearchTier("main_exact")
		return ScoreMainExact
	}
	if strings.HasPrefix(main, q.Text) {
		metrics.RecordSearchTier("main_prefix")
		return ScoreMainPrefix
	}
	if strings.Contains(main, q.Text) {
		metrics.RecordSearchTier("main_contains")
		return ScoreMainContains
	}

	// Secondary fields, same ladder at lower scores
	exact, prefix, contains := false, false, false
	for _, field := range doc.Secondary {
		f := strings.ToLower(field)
		switch {
		case f == q.Text:
			exact = true
		case strings.HasPrefix(f, q.Text):
			prefix = true
		case strings.Contains(f, q.Text):
			contains = true
		}
	}
	switch {
	case exact:
		metrics.RecordSearchTier("secondary_exact")
		return ScoreSecondaryExact
	case prefix:
		metrics.RecordSearchTier("secondary_prefix")
		return ScoreSecondaryPrefix
	case contains:
		metrics.RecordSearchTier("secondary_contains")
		return ScoreSecondaryContain
	}

	metrics.RecordSearchTier("none")
	return ScoreNoMatch
}

// RankPersonalized ranks the document and applies the personalization
// boost when its entity tags intersect the viewer's profile. A nil profile
// ranks identically to Rank. Unmatched documents are never boosted.
func (r *Ranker) RankPersonalized(doc Document, q Query, profile *scoring.InterestProfile) int {
	score := r.Rank(doc, q)
	if score == ScoreNoMatch || profile == nil {
		return score
	}

	if tagsIntersectProfile(doc.Tags, profile) {
		score += r.cfg.PersonalizationBoost
		if score > ScoreMainExact {
			score = ScoreMainExact
		}
	}
	return score
}

// tagsIntersectProfile reports whether any detected entity matches the
// viewer's followed companies, skills, or industries.
func tagsIntersectProfile(tags extract.TagSet, profile *scoring.InterestProfile) bool {
	for _, c := range tags.Companies {
		if containsString(profile.FollowedCompanies, c) {
			return true
		}
	}
	for _, s := range tags.Skills {
		if containsString(profile.Skills, s) {
			return true
		}
	}
	for _, i := range tags.Industries {
		if containsString(profile.Industries, i) {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}
