// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package validation

import (
	"strings"
	"testing"
)

type feedRequest struct {
	ViewerID string `validate:"required"`
	Limit    int    `validate:"min=1,max=100"`
	Offset   int    `validate:"min=0"`
	Kind     string `validate:"omitempty,oneof=post article profile company"`
}

type searchRequest struct {
	Query string `validate:"search_query"`
	Limit int    `validate:"min=1,max=100"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		request feedRequest
		wantErr bool
		field   string
	}{
		{
			name:    "valid request",
			request: feedRequest{ViewerID: "viewer-1", Limit: 20, Offset: 0},
			wantErr: false,
		},
		{
			name:    "missing viewer id",
			request: feedRequest{Limit: 20},
			wantErr: true,
			field:   "ViewerID",
		},
		{
			name:    "limit too large",
			request: feedRequest{ViewerID: "viewer-1", Limit: 500},
			wantErr: true,
			field:   "Limit",
		},
		{
			name:    "negative offset",
			request: feedRequest{ViewerID: "viewer-1", Limit: 20, Offset: -1},
			wantErr: true,
			field:   "Offset",
		},
		{
			name:    "invalid kind",
			request: feedRequest{ViewerID: "viewer-1", Limit: 20, Kind: "video"},
			wantErr: true,
			field:   "Kind",
		},
		{
			name:    "valid kind filter",
			request: feedRequest{ViewerID: "viewer-1", Limit: 20, Kind: "post"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.request)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if len(err.Errors()) == 0 {
					t.Fatal("expected at least one field error")
				}
				if got := err.Errors()[0].Field(); got != tt.field {
					t.Errorf("failed field = %s, want %s", got, tt.field)
				}
			} else if err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestSearchQueryValidator(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{name: "empty query is browse mode", query: "", wantErr: false},
		{name: "whitespace only is browse mode", query: "   ", wantErr: false},
		{name: "single rune rejected", query: "a", wantErr: true},
		{name: "single rune with padding rejected", query: "  a  ", wantErr: true},
		{name: "two runes accepted", query: "go", wantErr: false},
		{name: "multibyte runes counted correctly", query: "日本", wantErr: false},
		{name: "single multibyte rune rejected", query: "日", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&searchRequest{Query: tt.query, Limit: 20})

			if tt.wantErr && err == nil {
				t.Errorf("query %q: expected validation error", tt.query)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("query %q: unexpected error: %v", tt.query, err)
			}
		})
	}
}

func TestToAPIErrorSingleField(t *testing.T) {
	err := ValidateStruct(&feedRequest{Limit: 20})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "ViewerID") {
		t.Errorf("Message %q missing field name", apiErr.Message)
	}
	if apiErr.Details["field"] != "ViewerID" {
		t.Errorf("Details field = %v, want ViewerID", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultipleFields(t *testing.T) {
	err := ValidateStruct(&feedRequest{Offset: -5})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) < 2 {
		t.Fatalf("expected multiple field errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("expected fields detail for multi-error response")
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 != v2 {
		t.Error("GetValidator returned different instances")
	}
}
