// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package scoring computes the relevance score between a content item's
// detected entities and a viewer's interest profile.
//
// Scoring is pure computation over already-fetched in-memory inputs: no
// I/O, no shared mutable state, no locks. Signal evaluation order is fixed
// (companies, then skills, then industries, then author headline, then
// author skills, then recent engagement) so the reasons list is stable and
// reproducible for identical inputs.
package scoring

import (
	"strings"
	"time"

	"github.com/worklinkhq/relevance/internal/extract"
	"github.com/worklinkhq/relevance/internal/metrics"
)

// Scorer applies the weighted signal table. Safe for concurrent use; a
// scoring pass reads immutable inputs and returns fresh outputs.
type Scorer struct {
	cfg Config
}

// New creates a Scorer with the given signal table.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// signal metric labels
const (
	signalFollowedCompany        = "followed_company"
	signalSkill                  = "skill"
	signalIndustry               = "industry"
	signalAuthorHeadlineIndustry = "author_headline_industry"
	signalAuthorHeadlineSkill    = "author_headline_skill"
	signalAuthorSkillOverlap     = "author_skill_overlap"
	signalRecentEngagement       = "recent_engagement"
)

// Score computes the relevance score and its audit trail for one item.
//
// The profile must be pre-normalized (see InterestProfile.Normalize). A nil
// profile yields score 0 with the single Generic sentinel reason; this is
// the signal the feed assembler uses to flag a non-personalized pass.
// Interactions older than the recency window are ignored; the caller
// supplies the raw recent slice, filtering is the scorer's job.
//
// Invariant: the returned score equals the sum of reason points.
func (s *Scorer) Score(profile *InterestProfile, tags extract.TagSet, author *AuthorProfile, interactions []Interaction) (int, []MatchReason) {
	start := time.Now()
	defer func() {
		metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	}()

	if profile == nil {
		metrics.ScoringGenericFallbacks.Inc()
		return 0, []MatchReason{{Reason: GenericReason, Points: 0}}
	}

	score := 0
	reasons := []MatchReason{}

	add := func(signal, reason string, points int) {
		score += points
		reasons = append(reasons, MatchReason{Reason: reason, Points: points})
		metrics.RecordScoringSignal(signal)
	}

	// Followed company mentions
	for _, company := range tags.Companies {
		if matchesAny(company, profile.FollowedCompanies) {
			add(signalFollowedCompany,
				"Mentions "+company+", a company you follow",
				s.cfg.FollowedCompanyPoints)
		}
	}

	// Skill matches
	for _, skill := range tags.Skills {
		if matchesAny(skill, profile.Skills) {
			add(signalSkill,
				"Mentions "+skill+", one of your skills",
				s.cfg.SkillPoints)
		}
	}

	// Industry matches
	for _, industry := range tags.Industries {
		if matchesAny(industry, profile.Industries) {
			add(signalIndustry,
				"Mentions "+industry+", an industry you follow",
				s.cfg.IndustryPoints)
		}
	}

	// Author affinity
	if author != nil {
		headline := strings.ToLower(author.Headline)

		for _, industry := range profile.Industries {
			if headline != "" && strings.Contains(headline, industry) {
				add(signalAuthorHeadlineIndustry,
					"Author works in "+industry,
					s.cfg.AuthorHeadlineIndustryPoints)
			}
		}

		for _, skill := range profile.Skills {
			if headline != "" && strings.Contains(headline, skill) {
				add(signalAuthorHeadlineSkill,
					"Author's headline mentions "+skill,
					s.cfg.AuthorHeadlineSkillPoints)
			}
		}

		authorSkills := lowerAll(author.Skills)
		for _, skill := range profile.Skills {
			if matchesAny(skill, authorSkills) {
				add(signalAuthorSkillOverlap,
					"Author shares your skill "+skill,
					s.cfg.AuthorSkillOverlapPoints)
			}
		}
	}

	// Recent engagement bonus
	engaged := s.recentlyEngagedCompanies(interactions)
	for _, company := range tags.Companies {
		if matchesAny(company, engaged) {
			add(signalRecentEngagement,
				"You recently engaged with "+company,
				s.cfg.RecentEngagementPoints)
		}
	}

	return score, reasons
}

// recentlyEngagedCompanies filters the interaction slice to company
// interactions inside the recency window and returns the company names,
// deduplicated, in first-seen order.
func (s *Scorer) recentlyEngagedCompanies(interactions []Interaction) []string {
	if len(interactions) == 0 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RecencyWindowDays)
	seen := make(map[string]bool, len(interactions))
	var companies []string

	for _, in := range interactions {
		if in.ContentType != ContentTypeCompany || in.OccurredAt.Before(cutoff) {
			continue
		}
		name := canonical(in.ContentID)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		companies = append(companies, name)
	}

	return companies
}

// matchesAny reports whether the needle matches any candidate by
// case-insensitive substring containment in either direction. Both sides
// are already canonical lower case.
func matchesAny(needle string, candidates []string) bool {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if strings.Contains(needle, c) || strings.Contains(c, needle) {
			return true
		}
	}
	return false
}
