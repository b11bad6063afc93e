// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful SELECT query",
			operation: "SELECT",
			table:     "interest_profiles",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful INSERT query",
			operation: "INSERT",
			table:     "interactions",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "SELECT",
			table:     "content_items",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "SELECT",
			table:     "interactions",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.CollectAndCount(DBQueryDuration)
			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)
			after := testutil.CollectAndCount(DBQueryDuration)
			if after < before {
				t.Errorf("expected DBQueryDuration series count to not decrease, got %d -> %d", before, after)
			}
		})
	}
}

// TestRecordExtraction verifies category counters only move for non-zero counts
func TestRecordExtraction(t *testing.T) {
	tests := []struct {
		name       string
		companies  int
		skills     int
		industries int
	}{
		{name: "all categories hit", companies: 2, skills: 3, industries: 1},
		{name: "no entities", companies: 0, skills: 0, industries: 0},
		{name: "skills only", companies: 0, skills: 5, industries: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skillsBefore := testutil.ToFloat64(ExtractionEntitiesFound.WithLabelValues("skill"))
			RecordExtraction(time.Millisecond, tt.companies, tt.skills, tt.industries)
			skillsAfter := testutil.ToFloat64(ExtractionEntitiesFound.WithLabelValues("skill"))
			if got := skillsAfter - skillsBefore; got != float64(tt.skills) {
				t.Errorf("skill counter delta = %v, want %v", got, tt.skills)
			}
		})
	}
}

// TestRecordFeedAssembly verifies per-mode counting
func TestRecordFeedAssembly(t *testing.T) {
	for _, mode := range []string{"personalized", "generic"} {
		t.Run(mode, func(t *testing.T) {
			before := testutil.ToFloat64(FeedRequestsTotal.WithLabelValues(mode))
			RecordFeedAssembly(mode, 5*time.Millisecond, 42)
			after := testutil.ToFloat64(FeedRequestsTotal.WithLabelValues(mode))
			if after != before+1 {
				t.Errorf("FeedRequestsTotal[%s] = %v, want %v", mode, after, before+1)
			}
		})
	}
}

// TestTrackActiveRequest verifies the gauge moves both directions
func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc: got %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec: got %v, want %v", got, before)
	}
}

// TestRecordNATSPipeline verifies the event pipeline counters increment
func TestRecordNATSPipeline(t *testing.T) {
	published := testutil.ToFloat64(NATSMessagesPublished)
	consumed := testutil.ToFloat64(NATSMessagesConsumed)
	processed := testutil.ToFloat64(NATSMessagesProcessed)

	RecordNATSPublish()
	RecordNATSConsume()
	RecordNATSProcessed()
	RecordNATSProcessingDuration(2 * time.Millisecond)

	if got := testutil.ToFloat64(NATSMessagesPublished); got != published+1 {
		t.Errorf("NATSMessagesPublished = %v, want %v", got, published+1)
	}
	if got := testutil.ToFloat64(NATSMessagesConsumed); got != consumed+1 {
		t.Errorf("NATSMessagesConsumed = %v, want %v", got, consumed+1)
	}
	if got := testutil.ToFloat64(NATSMessagesProcessed); got != processed+1 {
		t.Errorf("NATSMessagesProcessed = %v, want %v", got, processed+1)
	}
}
