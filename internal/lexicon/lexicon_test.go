// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package lexicon

import (
	"reflect"
	"testing"
)

func TestNewCanonicalizes(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "lower-cases entries",
			input: []string{"Google", "MICROSOFT"},
			want:  []string{"google", "microsoft"},
		},
		{
			name:  "trims whitespace",
			input: []string{"  stripe  ", "shopify"},
			want:  []string{"stripe", "shopify"},
		},
		{
			name:  "deduplicates preserving first occurrence",
			input: []string{"google", "Google", "amazon", "GOOGLE"},
			want:  []string{"google", "amazon"},
		},
		{
			name:  "drops empty entries",
			input: []string{"", "  ", "google"},
			want:  []string{"google"},
		},
		{
			name:  "preserves input order",
			input: []string{"zeta", "alpha", "mid"},
			want:  []string{"zeta", "alpha", "mid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input, nil, nil)
			if got := l.Companies(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Companies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	l := New([]string{"google"}, []string{"go"}, []string{"fintech"})

	companies := l.Companies()
	companies[0] = "mutated"

	if got := l.Companies()[0]; got != "google" {
		t.Errorf("lexicon mutated through accessor copy: got %q", got)
	}
}

func TestSize(t *testing.T) {
	l := New([]string{"a", "b"}, []string{"c"}, []string{"d", "e", "f"})
	if got := l.Size(); got != 6 {
		t.Errorf("Size() = %d, want 6", got)
	}
}

func TestDefaultContainsMetacharacterEntries(t *testing.T) {
	l := Default()

	skills := l.Skills()
	hasMetachar := false
	hasMultiWord := false
	for _, s := range skills {
		if s == "c++" || s == "node.js" || s == "c#" {
			hasMetachar = true
		}
		if s == "machine learning" {
			hasMultiWord = true
		}
	}

	if !hasMetachar {
		t.Error("default skills missing metacharacter-bearing entries")
	}
	if !hasMultiWord {
		t.Error("default skills missing multi-word entries")
	}
	if l.Size() == 0 {
		t.Error("default lexicon is empty")
	}
}
