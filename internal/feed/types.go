// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package feed

import (
	"time"

	"github.com/worklinkhq/relevance/internal/extract"
	"github.com/worklinkhq/relevance/internal/scoring"
)

// Feed modes reported in response metadata.
const (
	ModePersonalized = "personalized"
	ModeGeneric      = "generic"
)

// ContentItem is one candidate entering a feed pass: a read-only snapshot
// of a post, article, company, or profile supplied by the content store.
type ContentItem struct {
	// ID uniquely identifies the content item.
	ID string `json:"id"`

	// Kind is the content type: post, article, profile, company.
	Kind string `json:"kind"`

	// Text is the free text entities are extracted from.
	Text string `json:"text"`

	// Author is the author's profile slice, nil for authorless content.
	Author *scoring.AuthorProfile `json:"author,omitempty"`

	// PublishedAt drives the recency tie-break and the generic ordering.
	PublishedAt time.Time `json:"published_at"`
}

// ScoredItem wraps a candidate with its score, audit trail, and detected
// entities. Created fresh per scoring pass and discarded after the
// response is sent, never persisted.
type ScoredItem struct {
	Item ContentItem `json:"item"`

	// Score is the non-negative relevance score.
	Score int `json:"score"`

	// MatchReasons is the ordered audit trail; points sum to Score.
	MatchReasons []scoring.MatchReason `json:"match_reasons"`

	// Tags holds the entities detected in the item's text, retained for
	// the debug/explain view.
	Tags extract.TagSet `json:"tags"`
}

// Request is one feed assembly invocation. Candidates are supplied
// already fetched; supplying more candidates than Limit so scoring has
// material to rank is the caller's responsibility.
type Request struct {
	// ViewerID identifies the viewer the feed is assembled for.
	ViewerID string `json:"viewer_id"`

	// Candidates is the in-memory candidate set to score and rank.
	Candidates []ContentItem `json:"candidates"`

	// Kind optionally restricts the pass to one content kind.
	Kind string `json:"kind,omitempty"`

	// Limit is the page size. Zero means the configured default.
	Limit int `json:"limit"`

	// Offset is the pagination offset into the fully sorted list.
	Offset int `json:"offset"`

	// BypassCache skips the response cache for this request.
	BypassCache bool `json:"bypass_cache,omitempty"`
}

// Response is a ranked, paginated feed page.
type Response struct {
	Items    []ScoredItem     `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how the page was produced.
type ResponseMetadata struct {
	// RequestID is the unique id of this assembly pass.
	RequestID string `json:"request_id"`

	// Mode is "personalized" or "generic".
	Mode string `json:"mode"`

	// CandidateCount is the number of candidates after kind filtering.
	CandidateCount int `json:"candidate_count"`

	// LatencyMs is the assembly time in milliseconds.
	LatencyMs int64 `json:"latency_ms"`

	// CacheHit is true when the page came from the response cache.
	CacheHit bool `json:"cache_hit"`

	// GeneratedAt is when the page was computed (not served).
	GeneratedAt time.Time `json:"generated_at"`
}

// IsPersonalized reports whether the pass used the viewer's profile.
func (m ResponseMetadata) IsPersonalized() bool {
	return m.Mode == ModePersonalized
}

// Status is a snapshot of engine counters for the status endpoint.
type Status struct {
	TotalRequests      int64   `json:"total_requests"`
	PersonalizedPasses int64   `json:"personalized_passes"`
	GenericPasses      int64   `json:"generic_passes"`
	CacheHits          int64   `json:"cache_hits"`
	CacheHitRate       float64 `json:"cache_hit_rate"`
	LexiconSize        int     `json:"lexicon_size"`
}
