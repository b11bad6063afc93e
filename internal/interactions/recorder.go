// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package interactions

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/worklinkhq/relevance/internal/metrics"
	"github.com/worklinkhq/relevance/internal/scoring"
)

// Topic subscribed by the recorder. Covers every content type and action.
const RecorderTopic = "interactions.>"

// Appender persists one interaction to the append-only log.
// Implemented by the interaction store.
type Appender interface {
	AppendInteraction(ctx context.Context, viewerID string, interaction scoring.Interaction) error
}

// Recorder consumes interaction events and appends them to the store,
// turning the event stream into the log the recency bonus reads.
type Recorder struct {
	subscriber *Subscriber
	appender   Appender
	logger     zerolog.Logger
}

// NewRecorder creates a recorder draining events into the appender.
func NewRecorder(subscriber *Subscriber, appender Appender, logger zerolog.Logger) (*Recorder, error) {
	if subscriber == nil {
		return nil, fmt.Errorf("recorder: subscriber is required")
	}
	if appender == nil {
		return nil, fmt.Errorf("recorder: appender is required")
	}

	return &Recorder{
		subscriber: subscriber,
		appender:   appender,
		logger:     logger.With().Str("component", "interaction_recorder").Logger(),
	}, nil
}

// Run processes events until context cancellation. Events that fail
// validation are acked and dropped; they will never become valid on
// redelivery. Store failures nack so JetStream redelivers.
func (r *Recorder) Run(ctx context.Context) error {
	r.logger.Info().Str("topic", RecorderTopic).Msg("interaction recorder starting")

	return r.subscriber.NewEventHandler(RecorderTopic).
		Handle(r.record).
		Run(ctx)
}

func (r *Recorder) record(ctx context.Context, event *InteractionEvent) error {
	start := time.Now()
	metrics.RecordNATSConsume()

	event.EnsureSchemaVersion()
	if err := event.Validate(); err != nil {
		metrics.RecordNATSParseFailed()
		r.logger.Warn().
			Err(err).
			Str("event_id", event.EventID).
			Msg("dropping invalid interaction event")
		return nil
	}

	if err := r.appender.AppendInteraction(ctx, event.ViewerID, event.ToInteraction()); err != nil {
		return fmt.Errorf("append interaction %s: %w", event.EventID, err)
	}

	metrics.RecordNATSProcessed()
	metrics.RecordNATSProcessingDuration(time.Since(start))

	r.logger.Debug().
		Str("event_id", event.EventID).
		Str("viewer_id", event.ViewerID).
		Str("content_type", string(event.ContentType)).
		Str("action", string(event.Action)).
		Msg("interaction recorded")

	return nil
}
