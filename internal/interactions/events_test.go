// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package interactions

import (
	"errors"
	"testing"
	"time"

	"github.com/worklinkhq/relevance/internal/scoring"
)

func validEvent() *InteractionEvent {
	return NewInteractionEvent("viewer-1", "stripe", scoring.ContentTypeCompany, scoring.ActionLike)
}

func TestNewInteractionEvent(t *testing.T) {
	e := validEvent()

	if e.EventID == "" {
		t.Error("EventID not set")
	}
	if e.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", e.SchemaVersion, SchemaVersion)
	}
	if e.OccurredAt.IsZero() {
		t.Error("OccurredAt not set")
	}
	if e.OccurredAt.Location() != time.UTC {
		t.Error("OccurredAt not UTC")
	}
	if err := e.Validate(); err != nil {
		t.Errorf("fresh event failed validation: %v", err)
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*InteractionEvent)
		wantField string
	}{
		{
			name:   "valid event",
			mutate: func(e *InteractionEvent) {},
		},
		{
			name:      "missing event id",
			mutate:    func(e *InteractionEvent) { e.EventID = "" },
			wantField: "event_id",
		},
		{
			name:      "missing viewer id",
			mutate:    func(e *InteractionEvent) { e.ViewerID = "" },
			wantField: "viewer_id",
		},
		{
			name:      "missing content id",
			mutate:    func(e *InteractionEvent) { e.ContentID = "" },
			wantField: "content_id",
		},
		{
			name:      "unknown content type",
			mutate:    func(e *InteractionEvent) { e.ContentType = "article" },
			wantField: "content_type",
		},
		{
			name:      "unknown action",
			mutate:    func(e *InteractionEvent) { e.Action = "share" },
			wantField: "action",
		},
		{
			name:      "zero occurred at",
			mutate:    func(e *InteractionEvent) { e.OccurredAt = time.Time{} },
			wantField: "occurred_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(e)

			err := e.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestEventTopic(t *testing.T) {
	tests := []struct {
		name        string
		contentType scoring.ContentType
		action      scoring.Action
		want        string
	}{
		{"company like", scoring.ContentTypeCompany, scoring.ActionLike, "interactions.company.like"},
		{"post comment", scoring.ContentTypePost, scoring.ActionComment, "interactions.post.comment"},
		{"post view", scoring.ContentTypePost, scoring.ActionView, "interactions.post.view"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewInteractionEvent("viewer-1", "content-1", tt.contentType, tt.action)
			if got := e.Topic(); got != tt.want {
				t.Errorf("Topic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEventToInteraction(t *testing.T) {
	e := validEvent()
	it := e.ToInteraction()

	if it.ContentID != e.ContentID {
		t.Errorf("ContentID = %q, want %q", it.ContentID, e.ContentID)
	}
	if it.ContentType != e.ContentType {
		t.Errorf("ContentType = %q, want %q", it.ContentType, e.ContentType)
	}
	if it.Action != e.Action {
		t.Errorf("Action = %q, want %q", it.Action, e.Action)
	}
	if !it.OccurredAt.Equal(e.OccurredAt) {
		t.Errorf("OccurredAt = %v, want %v", it.OccurredAt, e.OccurredAt)
	}
}

func TestEventDedupKey(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)

	a := validEvent()
	a.OccurredAt = at
	b := validEvent()
	b.OccurredAt = at

	// Different EventIDs, same logical interaction.
	if a.EventID == b.EventID {
		t.Fatal("expected distinct event ids")
	}
	if a.DedupKey() != b.DedupKey() {
		t.Errorf("DedupKey mismatch: %q vs %q", a.DedupKey(), b.DedupKey())
	}

	c := validEvent()
	c.OccurredAt = at.Add(time.Second)
	if a.DedupKey() == c.DedupKey() {
		t.Error("different seconds should produce different keys")
	}

	want := "viewer-1:company:like:stripe:2026-08-01T10:30:00"
	if got := a.DedupKey(); got != want {
		t.Errorf("DedupKey = %q, want %q", got, want)
	}
}

func TestSchemaVersionDefaults(t *testing.T) {
	e := &InteractionEvent{}

	if got := e.GetSchemaVersion(); got != 1 {
		t.Errorf("GetSchemaVersion = %d, want 1", got)
	}

	e.EnsureSchemaVersion()
	if e.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", e.SchemaVersion, SchemaVersion)
	}
}
