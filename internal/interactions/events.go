// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package interactions

import (
	"time"

	"github.com/google/uuid"

	"github.com/worklinkhq/relevance/internal/scoring"
)

// SchemaVersion is the current event schema version.
// Increment this when making breaking changes to InteractionEvent.
const SchemaVersion = 1

// InteractionEvent is one viewer action crossing the wire: a like, comment,
// or view on a post or company page. It is the canonical format every
// producer publishes and the recorder consumes; the append-only interaction
// log is built exclusively from these events.
type InteractionEvent struct {
	// SchemaVersion tracks the event format version. Consumers should
	// accept older versions; zero means version 1.
	SchemaVersion int `json:"schema_version,omitempty"`

	// EventID uniquely identifies the event and doubles as the NATS
	// message id for JetStream deduplication.
	EventID string `json:"event_id"`

	// ViewerID is the actor whose interaction log this event appends to.
	ViewerID string `json:"viewer_id"`

	// ContentID identifies the target. For company interactions this is
	// the company name or slug, which is what the recency bonus later
	// matches against detected companies.
	ContentID string `json:"content_id"`

	// ContentType is what the interaction targeted: post or company.
	ContentType scoring.ContentType `json:"content_type"`

	// Action is the kind of interaction: like, comment, view.
	Action scoring.Action `json:"action"`

	// OccurredAt is when the viewer acted, not when the event was
	// published. Recency windows are computed from this.
	OccurredAt time.Time `json:"occurred_at"`

	// Source names the producing surface (web, mobile, api). Optional.
	Source string `json:"source,omitempty"`
}

// NewInteractionEvent creates an event with a unique ID, timestamp, and
// schema version.
func NewInteractionEvent(viewerID, contentID string, contentType scoring.ContentType, action scoring.Action) *InteractionEvent {
	return &InteractionEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		ViewerID:      viewerID,
		ContentID:     contentID,
		ContentType:   contentType,
		Action:        action,
		OccurredAt:    time.Now().UTC(),
	}
}

// GetSchemaVersion returns the schema version, defaulting to 1 for events
// published before versioning existed.
func (e *InteractionEvent) GetSchemaVersion() int {
	if e.SchemaVersion == 0 {
		return 1
	}
	return e.SchemaVersion
}

// EnsureSchemaVersion sets the schema version if not already set.
func (e *InteractionEvent) EnsureSchemaVersion() {
	if e.SchemaVersion == 0 {
		e.SchemaVersion = SchemaVersion
	}
}

// Validate checks required fields and returns an error if validation fails.
func (e *InteractionEvent) Validate() error {
	if e.EventID == "" {
		return &ValidationError{Field: "event_id", Message: "required"}
	}
	if e.ViewerID == "" {
		return &ValidationError{Field: "viewer_id", Message: "required"}
	}
	if e.ContentID == "" {
		return &ValidationError{Field: "content_id", Message: "required"}
	}
	switch e.ContentType {
	case scoring.ContentTypePost, scoring.ContentTypeCompany:
	default:
		return &ValidationError{Field: "content_type", Message: "must be post or company"}
	}
	switch e.Action {
	case scoring.ActionLike, scoring.ActionComment, scoring.ActionView:
	default:
		return &ValidationError{Field: "action", Message: "must be like, comment, or view"}
	}
	if e.OccurredAt.IsZero() {
		return &ValidationError{Field: "occurred_at", Message: "required"}
	}
	return nil
}

// Topic returns the NATS subject for this event.
// Format: interactions.<content_type>.<action>
// Example: interactions.company.like
func (e *InteractionEvent) Topic() string {
	return "interactions." + string(e.ContentType) + "." + string(e.Action)
}

// ToInteraction converts the event to the scorer's interaction record.
func (e *InteractionEvent) ToInteraction() scoring.Interaction {
	return scoring.Interaction{
		ContentID:   e.ContentID,
		ContentType: e.ContentType,
		Action:      e.Action,
		OccurredAt:  e.OccurredAt,
	}
}

// DedupKey returns a content-based key identifying the logical interaction
// regardless of retries. Two clicks on the same target within the same
// second collapse to one log entry, which is what the recency bonus wants.
// Format: {viewer_id}:{content_type}:{action}:{content_id}:{time_bucket}
func (e *InteractionEvent) DedupKey() string {
	timeBucket := e.OccurredAt.UTC().Format("2006-01-02T15:04:05")
	return e.ViewerID + ":" + string(e.ContentType) + ":" + string(e.Action) + ":" + e.ContentID + ":" + timeBucket
}

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
