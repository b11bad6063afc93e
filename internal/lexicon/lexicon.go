// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package lexicon holds the fixed vocabularies of recognizable companies,
// skills, and industries. A Lexicon is loaded once at startup and treated as
// immutable for the process lifetime; swapping vocabularies (localization,
// vertical-specific deployments) is a configuration change, not a runtime
// mutation. Test-specific lexicons are built through the same constructor.
package lexicon

import "strings"

// Lexicon is an immutable set of entity vocabularies. All entries are
// canonicalized to lower case at construction; detected entity tags are
// always canonical lexicon entries, never arbitrary substrings.
type Lexicon struct {
	companies  []string
	skills     []string
	industries []string
}

// New builds a Lexicon from the given vocabularies. Entries are trimmed,
// lower-cased, and deduplicated; input order is preserved so extraction
// output order is reproducible.
func New(companies, skills, industries []string) *Lexicon {
	return &Lexicon{
		companies:  canonicalize(companies),
		skills:     canonicalize(skills),
		industries: canonicalize(industries),
	}
}

// Default returns the built-in vocabulary used when no lexicon section is
// present in the configuration file.
func Default() *Lexicon {
	return New(defaultCompanies, defaultSkills, defaultIndustries)
}

// Companies returns a copy of the company vocabulary.
func (l *Lexicon) Companies() []string {
	return copyOf(l.companies)
}

// Skills returns a copy of the skill vocabulary.
func (l *Lexicon) Skills() []string {
	return copyOf(l.skills)
}

// Industries returns a copy of the industry vocabulary.
func (l *Lexicon) Industries() []string {
	return copyOf(l.industries)
}

// Size returns the total number of entries across all categories.
func (l *Lexicon) Size() int {
	return len(l.companies) + len(l.skills) + len(l.industries)
}

// canonicalize trims, lower-cases, and deduplicates entries while
// preserving first-occurrence order. Empty entries are dropped.
func canonicalize(entries []string) []string {
	result := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		canonical := strings.ToLower(strings.TrimSpace(entry))
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		result = append(result, canonical)
	}

	return result
}

func copyOf(entries []string) []string {
	result := make([]string, len(entries))
	copy(result, entries)
	return result
}

// Default vocabularies. Multi-word and metacharacter-bearing entries are
// intentionally present in every category so the extractor's substring
// path is exercised in production, not only in tests.
var (
	defaultCompanies = []string{
		"google", "microsoft", "amazon", "apple", "meta", "netflix",
		"stripe", "shopify", "salesforce", "oracle", "ibm", "intel",
		"nvidia", "openai", "anthropic", "spotify", "airbnb", "uber",
		"datadog", "cloudflare", "atlassian", "gitlab", "github",
	}

	defaultSkills = []string{
		"go", "python", "java", "javascript", "typescript", "rust",
		"c++", "c#", "node.js", "react", "vue", "angular", "kubernetes",
		"docker", "terraform", "postgresql", "mysql", "mongodb", "redis",
		"kafka", "graphql", "machine learning", "data engineering",
		"distributed systems", "site reliability engineering",
		"product management", "technical writing",
	}

	defaultIndustries = []string{
		"fintech", "healthcare", "ecommerce", "cybersecurity", "gaming",
		"logistics", "biotech", "edtech", "insurance", "telecom",
		"renewable energy", "venture capital", "real estate",
		"artificial intelligence", "cloud computing", "developer tools",
	}
)
