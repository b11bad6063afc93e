// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package cache

import (
	"reflect"
	"testing"
)

func TestAhoCorasickSearch(t *testing.T) {
	ac := NewAhoCorasick()
	ac.AddPattern("machine learning", "skill")
	ac.AddPattern("venture capital", "industry")
	ac.AddPattern("node.js", "skill")
	ac.Build()

	tests := []struct {
		name        string
		text        string
		wantMatches int
	}{
		{
			name:        "single multi-word match",
			text:        "We apply machine learning to credit risk",
			wantMatches: 1,
		},
		{
			name:        "case insensitive",
			text:        "Machine Learning and VENTURE CAPITAL",
			wantMatches: 2,
		},
		{
			name:        "metacharacter pattern",
			text:        "Our stack is node.js end to end",
			wantMatches: 1,
		},
		{
			name:        "no match",
			text:        "Nothing relevant here",
			wantMatches: 0,
		},
		{
			name:        "empty text",
			text:        "",
			wantMatches: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := ac.Search(tt.text)
			if len(matches) != tt.wantMatches {
				t.Errorf("Search(%q) = %d matches, want %d", tt.text, len(matches), tt.wantMatches)
			}
		})
	}
}

func TestAhoCorasickMatchedPatterns(t *testing.T) {
	ac := NewAhoCorasick()
	ac.AddPatterns([]string{"machine learning", "data science", "venture capital"}, nil)
	ac.Build()

	text := "data science teams at venture capital firms use data science daily"

	got := ac.MatchedPatterns(text)
	// Deduplicated, in pattern insertion order
	want := []string{"data science", "venture capital"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MatchedPatterns = %v, want %v", got, want)
	}
}

func TestAhoCorasickOverlappingPatterns(t *testing.T) {
	ac := NewAhoCorasick()
	ac.AddPattern("learning", nil)
	ac.AddPattern("machine learning", nil)
	ac.Build()

	matches := ac.Search("machine learning")
	if len(matches) != 2 {
		t.Errorf("expected both overlapping patterns to match, got %d", len(matches))
	}
}

func TestAhoCorasickContains(t *testing.T) {
	ac := NewAhoCorasick()
	ac.AddPattern("golang", nil)
	ac.Build()

	if !ac.Contains("we write golang services") {
		t.Error("expected Contains to report a match")
	}
	if ac.Contains("we write rust services") {
		t.Error("expected Contains to report no match")
	}
}

func TestAhoCorasickRebuild(t *testing.T) {
	ac := NewAhoCorasick()
	ac.AddPattern("first", nil)
	ac.Build()

	// Adding a pattern after Build marks the automaton dirty
	ac.AddPattern("second", nil)
	ac.Build()

	if !ac.Contains("the second pattern") {
		t.Error("expected rebuilt automaton to include new pattern")
	}
	if ac.PatternCount() != 2 {
		t.Errorf("PatternCount = %d, want 2", ac.PatternCount())
	}
}

func TestAhoCorasickEmptyAutomaton(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build()

	if matches := ac.Search("anything"); matches != nil {
		t.Errorf("expected nil matches from empty automaton, got %v", matches)
	}
}

func TestAhoCorasickClear(t *testing.T) {
	ac := NewAhoCorasick()
	ac.AddPattern("pattern", nil)
	ac.Build()
	ac.Clear()

	if ac.PatternCount() != 0 {
		t.Errorf("PatternCount after Clear = %d, want 0", ac.PatternCount())
	}
}
