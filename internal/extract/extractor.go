// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package extract tags free text with the lexicon entries it mentions.
//
// Matching is case-insensitive and deterministic. Single-word entries match
// on word boundaries so "go" never fires inside "category". Multi-word
// entries and entries containing regex metacharacters ("c++", "node.js",
// "c#") match by substring containment, because a word-boundary pattern is
// either meaningless at phrase level or broken by the trailing
// non-word character. All patterns are compiled once at construction; the
// lexicon is immutable, so an Extractor is safe for concurrent use.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/worklinkhq/relevance/internal/cache"
	"github.com/worklinkhq/relevance/internal/lexicon"
	"github.com/worklinkhq/relevance/internal/metrics"
)

// TagSet holds the lexicon entries detected in one piece of text.
// All strings are canonical lexicon entries, lower-cased, deduplicated,
// in lexicon order within each category.
type TagSet struct {
	Companies  []string `json:"companies"`
	Skills     []string `json:"skills"`
	Industries []string `json:"industries"`
}

// IsEmpty reports whether no entities were detected in any category.
func (t TagSet) IsEmpty() bool {
	return len(t.Companies) == 0 && len(t.Skills) == 0 && len(t.Industries) == 0
}

// entity category labels used as Aho-Corasick pattern data and metric labels.
const (
	categoryCompany  = "company"
	categorySkill    = "skill"
	categoryIndustry = "industry"
)

// entityPattern is one lexicon entry with its compiled boundary pattern.
// A nil pattern means the entry matches through the substring automaton.
type entityPattern struct {
	entry   string
	pattern *regexp.Regexp
}

// Extractor detects lexicon entries in text. Construct once per lexicon
// with New; extraction itself is pure and allocation-light.
type Extractor struct {
	companies  []entityPattern
	skills     []entityPattern
	industries []entityPattern

	// substrings matches every multi-word and metacharacter entry across
	// all categories in a single pass.
	substrings *cache.AhoCorasick
}

// New builds an Extractor for the given lexicon, compiling one boundary
// pattern per eligible entry and one substring automaton for the rest.
func New(lex *lexicon.Lexicon) *Extractor {
	e := &Extractor{
		substrings: cache.NewAhoCorasick(),
	}

	e.companies = e.compileCategory(lex.Companies(), categoryCompany)
	e.skills = e.compileCategory(lex.Skills(), categorySkill)
	e.industries = e.compileCategory(lex.Industries(), categoryIndustry)
	e.substrings.Build()

	return e
}

// compileCategory splits a vocabulary into boundary-matched and
// substring-matched entries, preserving lexicon order.
func (e *Extractor) compileCategory(entries []string, category string) []entityPattern {
	patterns := make([]entityPattern, 0, len(entries))

	for _, entry := range entries {
		if needsSubstringMatch(entry) {
			e.substrings.AddPattern(entry, category)
			patterns = append(patterns, entityPattern{entry: entry})
			continue
		}
		patterns = append(patterns, entityPattern{
			entry:   entry,
			pattern: boundaryPattern(entry),
		})
	}

	return patterns
}

// needsSubstringMatch reports whether an entry cannot use a word-boundary
// pattern: multi-word phrases have implicit boundaries, and entries with
// non-word characters ("c++", "node.js", "c#") break \b at their edges.
func needsSubstringMatch(entry string) bool {
	if strings.ContainsRune(entry, ' ') {
		return true
	}
	for _, r := range entry {
		if !isWordRune(r) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// boundaryPattern builds the word-boundary pattern for a single-word entry.
// The entry is always escaped through regexp.QuoteMeta, even though
// boundary-eligible entries contain no metacharacters today; every pattern
// in this package is constructed through this one function.
func boundaryPattern(entry string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(entry) + `\b`)
}

// Extract tags the text with every lexicon entry it mentions.
// Empty or entity-free text yields empty category lists, never an error.
func (e *Extractor) Extract(text string) TagSet {
	start := time.Now()

	tags := TagSet{
		Companies:  []string{},
		Skills:     []string{},
		Industries: []string{},
	}

	if strings.TrimSpace(text) != "" {
		lowered := strings.ToLower(text)
		matched := e.substringMatches(lowered)

		tags.Companies = collectMatches(e.companies, lowered, matched)
		tags.Skills = collectMatches(e.skills, lowered, matched)
		tags.Industries = collectMatches(e.industries, lowered, matched)
	}

	metrics.RecordExtraction(time.Since(start),
		len(tags.Companies), len(tags.Skills), len(tags.Industries))

	return tags
}

// substringMatches runs the automaton once and returns the set of
// substring-path entries present in the text.
func (e *Extractor) substringMatches(lowered string) map[string]bool {
	patterns := e.substrings.MatchedPatterns(lowered)
	if len(patterns) == 0 {
		return nil
	}

	matched := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		matched[p] = true
	}
	return matched
}

// collectMatches walks one category in lexicon order and keeps every entry
// found either by its boundary pattern or in the substring match set.
// Walking the compiled list (already deduplicated by the lexicon) keeps
// output order stable across calls.
func collectMatches(patterns []entityPattern, lowered string, substringHits map[string]bool) []string {
	found := []string{}

	for _, p := range patterns {
		if p.pattern != nil {
			if p.pattern.MatchString(lowered) {
				found = append(found, p.entry)
			}
			continue
		}
		if substringHits[p.entry] {
			found = append(found, p.entry)
		}
	}

	return found
}
