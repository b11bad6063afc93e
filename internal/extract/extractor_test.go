// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package extract

import (
	"reflect"
	"testing"

	"github.com/worklinkhq/relevance/internal/lexicon"
)

func testExtractor() *Extractor {
	lex := lexicon.New(
		[]string{"google", "microsoft", "acme corp"},
		[]string{"go", "react", "node.js", "c++", "c#", "machine learning"},
		[]string{"fintech", "venture capital"},
	)
	return New(lex)
}

func TestExtract(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		name           string
		text           string
		wantCompanies  []string
		wantSkills     []string
		wantIndustries []string
	}{
		{
			name:           "empty text",
			text:           "",
			wantCompanies:  []string{},
			wantSkills:     []string{},
			wantIndustries: []string{},
		},
		{
			name:           "whitespace only",
			text:           "   \n\t ",
			wantCompanies:  []string{},
			wantSkills:     []string{},
			wantIndustries: []string{},
		},
		{
			name:           "case insensitive company",
			text:           "I work at GOOGLE now",
			wantCompanies:  []string{"google"},
			wantSkills:     []string{},
			wantIndustries: []string{},
		},
		{
			name:           "word boundary prevents partial match",
			text:           "we categorize items",
			wantCompanies:  []string{},
			wantSkills:     []string{}, // "go" must not match inside "categorize"
			wantIndustries: []string{},
		},
		{
			name:           "single word skill at boundary",
			text:           "We write Go services",
			wantCompanies:  []string{},
			wantSkills:     []string{"go"},
			wantIndustries: []string{},
		},
		{
			name:           "metacharacter skills via substring",
			text:           "Looking for c++ and node.js and c# developers",
			wantCompanies:  []string{},
			wantSkills:     []string{"node.js", "c++", "c#"},
			wantIndustries: []string{},
		},
		{
			name:           "multi word entries",
			text:           "machine learning applied to venture capital at Acme Corp",
			wantCompanies:  []string{"acme corp"},
			wantSkills:     []string{"machine learning"},
			wantIndustries: []string{"venture capital"},
		},
		{
			name:           "scenario react node google",
			text:           "We use React and Node.js at Google",
			wantCompanies:  []string{"google"},
			wantSkills:     []string{"react", "node.js"},
			wantIndustries: []string{},
		},
		{
			name:           "duplicates collapse",
			text:           "google google GOOGLE",
			wantCompanies:  []string{"google"},
			wantSkills:     []string{},
			wantIndustries: []string{},
		},
		{
			name:           "output follows lexicon order",
			text:           "react comes before go alphabetically but not in the lexicon: go",
			wantCompanies:  []string{},
			wantSkills:     []string{"go", "react"},
			wantIndustries: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)

			if !reflect.DeepEqual(got.Companies, tt.wantCompanies) {
				t.Errorf("Companies = %v, want %v", got.Companies, tt.wantCompanies)
			}
			if !reflect.DeepEqual(got.Skills, tt.wantSkills) {
				t.Errorf("Skills = %v, want %v", got.Skills, tt.wantSkills)
			}
			if !reflect.DeepEqual(got.Industries, tt.wantIndustries) {
				t.Errorf("Industries = %v, want %v", got.Industries, tt.wantIndustries)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	e := testExtractor()
	text := "Go and React and machine learning at Google in fintech"

	first := e.Extract(text)
	for i := 0; i < 10; i++ {
		if got := e.Extract(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("extraction not idempotent on pass %d: %+v != %+v", i, got, first)
		}
	}
}

func TestExtractConcurrent(t *testing.T) {
	e := testExtractor()
	text := "node.js and c++ at Microsoft"
	want := e.Extract(text)

	done := make(chan TagSet, 20)
	for i := 0; i < 20; i++ {
		go func() {
			done <- e.Extract(text)
		}()
	}
	for i := 0; i < 20; i++ {
		if got := <-done; !reflect.DeepEqual(got, want) {
			t.Fatalf("concurrent extraction diverged: %+v != %+v", got, want)
		}
	}
}

func TestNeedsSubstringMatch(t *testing.T) {
	tests := []struct {
		entry string
		want  bool
	}{
		{"go", false},
		{"react", false},
		{"c++", true},
		{"c#", true},
		{"node.js", true},
		{"machine learning", true},
		{"golang_2", false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			if got := needsSubstringMatch(tt.entry); got != tt.want {
				t.Errorf("needsSubstringMatch(%q) = %v, want %v", tt.entry, got, tt.want)
			}
		})
	}
}

func TestTagSetIsEmpty(t *testing.T) {
	if !(TagSet{}).IsEmpty() {
		t.Error("zero TagSet should be empty")
	}
	if (TagSet{Skills: []string{"go"}}).IsEmpty() {
		t.Error("TagSet with a skill should not be empty")
	}
}
