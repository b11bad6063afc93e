// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package api

import (
	"context"
	"fmt"

	"github.com/worklinkhq/relevance/internal/interactions"
)

// PublisherSink routes interaction events into the NATS pipeline. The
// recorder consumes them asynchronously and appends to storage.
type PublisherSink struct {
	publisher *interactions.Publisher
}

// NewPublisherSink wraps a NATS publisher as an InteractionSink.
func NewPublisherSink(publisher *interactions.Publisher) *PublisherSink {
	return &PublisherSink{publisher: publisher}
}

// RecordInteraction publishes the event to its interaction topic.
func (s *PublisherSink) RecordInteraction(ctx context.Context, event *interactions.InteractionEvent) error {
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		return fmt.Errorf("publish interaction event: %w", err)
	}
	return nil
}

// AppenderSink writes interaction events straight to storage, used when
// the NATS pipeline is disabled.
type AppenderSink struct {
	appender interactions.Appender
}

// NewAppenderSink wraps a storage appender as an InteractionSink.
func NewAppenderSink(appender interactions.Appender) *AppenderSink {
	return &AppenderSink{appender: appender}
}

// RecordInteraction appends the event synchronously.
func (s *AppenderSink) RecordInteraction(ctx context.Context, event *interactions.InteractionEvent) error {
	if err := s.appender.AppendInteraction(ctx, event.ViewerID, event.ToInteraction()); err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}
