// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package search

import (
	"errors"
	"testing"

	"github.com/worklinkhq/relevance/internal/extract"
	"github.com/worklinkhq/relevance/internal/scoring"
)

func TestPrepareQuery(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantText   string
		wantBrowse bool
		wantErr    error
	}{
		{name: "empty is browse mode", raw: "", wantBrowse: true},
		{name: "whitespace is browse mode", raw: "   ", wantBrowse: true},
		{name: "single rune rejected", raw: "a", wantErr: ErrQueryTooShort},
		{name: "padded single rune rejected", raw: "  a ", wantErr: ErrQueryTooShort},
		{name: "two runes accepted", raw: "go", wantText: "go"},
		{name: "trimmed and lowered", raw: "  Acme ", wantText: "acme"},
		{name: "multibyte runes counted", raw: "日本", wantText: "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := PrepareQuery(tt.raw)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Browse != tt.wantBrowse {
				t.Errorf("Browse = %v, want %v", q.Browse, tt.wantBrowse)
			}
			if q.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", q.Text, tt.wantText)
			}
		})
	}
}

func TestRankTiers(t *testing.T) {
	r := New(DefaultConfig())

	tests := []struct {
		name  string
		doc   Document
		query string
		want  int
	}{
		{
			name:  "main exact match",
			doc:   Document{Main: "acme"},
			query: "acme",
			want:  ScoreMainExact,
		},
		{
			name:  "slug exact match",
			doc:   Document{Main: "Acme Corporation", Slug: "acme"},
			query: "acme",
			want:  ScoreMainExact,
		},
		{
			name:  "main prefix beats contains",
			doc:   Document{Main: "Acme Corp"},
			query: "acme",
			want:  ScoreMainPrefix,
		},
		{
			name:  "main contains",
			doc:   Document{Main: "the acme group"},
			query: "acme",
			want:  ScoreMainContains,
		},
		{
			name:  "secondary exact",
			doc:   Document{Main: "Jane Doe", Secondary: []string{"chicago", "fintech"}},
			query: "fintech",
			want:  ScoreSecondaryExact,
		},
		{
			name:  "secondary prefix",
			doc:   Document{Main: "Jane Doe", Secondary: []string{"Chicago, IL"}},
			query: "chicago",
			want:  ScoreSecondaryPrefix,
		},
		{
			name:  "secondary contains",
			doc:   Document{Main: "Jane Doe", Secondary: []string{"Greater Chicago Area"}},
			query: "chicago",
			want:  ScoreSecondaryContain,
		},
		{
			name:  "go prefix of Go programming",
			doc:   Document{Main: "Go programming"},
			query: "go",
			want:  ScoreMainPrefix,
		},
		{
			name:  "go contained in Django",
			doc:   Document{Main: "Django"},
			query: "go",
			want:  ScoreMainContains,
		},
		{
			name:  "go contained in Chicago",
			doc:   Document{Main: "Chicago"},
			query: "go",
			want:  ScoreMainContains,
		},
		{
			name:  "no match",
			doc:   Document{Main: "Unrelated", Secondary: []string{"nothing"}},
			query: "acme",
			want:  ScoreNoMatch,
		},
		{
			name:  "main tier wins over secondary",
			doc:   Document{Main: "acme inside text here", Secondary: []string{"acme"}},
			query: "acme",
			want:  ScoreMainPrefix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := PrepareQuery(tt.query)
			if err != nil {
				t.Fatalf("PrepareQuery: %v", err)
			}
			if got := r.Rank(tt.doc, q); got != tt.want {
				t.Errorf("Rank = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRankBrowseMode(t *testing.T) {
	r := New(DefaultConfig())
	q, _ := PrepareQuery("")

	if got := r.Rank(Document{Main: "anything"}, q); got != ScoreNoMatch {
		t.Errorf("browse mode Rank = %d, want 0", got)
	}
}

func TestRankPersonalized(t *testing.T) {
	r := New(DefaultConfig())
	profile := (&scoring.InterestProfile{
		Skills: []string{"go"},
	}).Normalize()

	q, _ := PrepareQuery("chicago")

	tests := []struct {
		name    string
		doc     Document
		profile *scoring.InterestProfile
		want    int
	}{
		{
			name: "boost applied on tag intersection",
			doc: Document{
				Main: "Chicago Gophers",
				Tags: extract.TagSet{Skills: []string{"go"}},
			},
			profile: profile,
			want:    ScoreMainPrefix + 10,
		},
		{
			name:    "no boost without tags",
			doc:     Document{Main: "Chicago Gophers"},
			profile: profile,
			want:    ScoreMainPrefix,
		},
		{
			name: "nil profile ranks plainly",
			doc: Document{
				Main: "Chicago Gophers",
				Tags: extract.TagSet{Skills: []string{"go"}},
			},
			profile: nil,
			want:    ScoreMainPrefix,
		},
		{
			name: "unmatched document never boosted",
			doc: Document{
				Main: "Unrelated",
				Tags: extract.TagSet{Skills: []string{"go"}},
			},
			profile: profile,
			want:    ScoreNoMatch,
		},
		{
			name: "boost capped at exact score",
			doc: Document{
				Main: "chicago",
				Tags: extract.TagSet{Skills: []string{"go"}},
			},
			profile: profile,
			want:    ScoreMainExact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RankPersonalized(tt.doc, q, tt.profile); got != tt.want {
				t.Errorf("RankPersonalized = %d, want %d", got, tt.want)
			}
		})
	}
}
