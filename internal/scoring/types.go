// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package scoring

import (
	"strings"
	"time"
)

// InterestProfile is a viewer's declared and inferred preferences, supplied
// read-only by the profile store. An absent profile is valid and routes the
// viewer to the generic path; it must never crash scoring.
type InterestProfile struct {
	// ViewerID identifies the owning viewer.
	ViewerID string `json:"viewer_id"`

	// Industries the viewer declared interest in.
	Industries []string `json:"industries"`

	// Skills the viewer declared or inferred from their profile.
	Skills []string `json:"skills"`

	// FollowedCompanies are names/slugs of companies the viewer follows.
	FollowedCompanies []string `json:"followed_companies"`

	// WorkHistory lists companies from the viewer's work experience.
	WorkHistory []WorkEntry `json:"work_history"`

	// OnboardingCompleted gates personalization: until onboarding finishes
	// the viewer gets the generic feed even if partial data exists.
	OnboardingCompleted bool `json:"onboarding_completed"`
}

// WorkEntry is one position in a viewer's work history.
type WorkEntry struct {
	Company string `json:"company"`
}

// Normalize returns a copy of the profile with every matchable string
// trimmed and lower-cased. External documents are mapped through this
// exactly once at the collaborator boundary so the scorer never needs to
// re-canonicalize per signal.
func (p *InterestProfile) Normalize() *InterestProfile {
	if p == nil {
		return nil
	}

	out := &InterestProfile{
		ViewerID:            p.ViewerID,
		Industries:          lowerAll(p.Industries),
		Skills:              lowerAll(p.Skills),
		FollowedCompanies:   lowerAll(p.FollowedCompanies),
		WorkHistory:         make([]WorkEntry, len(p.WorkHistory)),
		OnboardingCompleted: p.OnboardingCompleted,
	}
	for i, w := range p.WorkHistory {
		out.WorkHistory[i] = WorkEntry{Company: canonical(w.Company)}
	}
	return out
}

// AuthorProfile is the post author's public profile slice used for
// author-affinity signals. Nil when the content has no author (companies).
type AuthorProfile struct {
	Headline string   `json:"headline"`
	Skills   []string `json:"skills"`
}

// ContentType identifies what an interaction targeted.
type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeCompany ContentType = "company"
)

// Action is the kind of viewer interaction.
type Action string

const (
	ActionLike    Action = "like"
	ActionComment Action = "comment"
	ActionView    Action = "view"
)

// Interaction is one append-only viewer action record. For company
// interactions ContentID is the company name/slug, which is what the
// recency bonus matches against detected companies.
type Interaction struct {
	ContentID   string      `json:"content_id"`
	ContentType ContentType `json:"content_type"`
	Action      Action      `json:"action"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

// MatchReason is one audit entry explaining an additive score contribution.
// The sum of Points across an item's reasons always equals its score.
type MatchReason struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// GenericReason is the sentinel attached when no personalization data is
// available. Callers detect a generic pass by this reason.
const GenericReason = "Generic"

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if c := canonical(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
