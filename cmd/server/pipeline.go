// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package main

import (
	"context"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/worklinkhq/relevance/internal/config"
	"github.com/worklinkhq/relevance/internal/interactions"
	"github.com/worklinkhq/relevance/internal/logging"
)

// pipelineComponents holds the NATS interaction pipeline: optional
// embedded server, JetStream stream, publisher, and the recorder
// consuming events into storage.
type pipelineComponents struct {
	embedded   *interactions.EmbeddedServer
	nc         *natsgo.Conn
	publisher  *interactions.Publisher
	subscriber *interactions.Subscriber
	recorder   *interactions.Recorder
}

// initPipeline wires the interaction event pipeline. The embedded
// server (when configured) starts here so publishers and subscribers
// can connect before the supervisor tree serves.
func initPipeline(cfg *config.Config, appender interactions.Appender) (*pipelineComponents, error) {
	p := &pipelineComponents{}
	url := cfg.NATS.URL

	if cfg.NATS.EmbeddedServer {
		serverCfg := interactions.DefaultServerConfig()
		serverCfg.StoreDir = cfg.NATS.StoreDir
		serverCfg.JetStreamMaxMem = cfg.NATS.MaxMemory
		serverCfg.JetStreamMaxStore = cfg.NATS.MaxStore

		embedded, err := interactions.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		p.embedded = embedded
		url = embedded.ClientURL()
		logging.Info().Str("url", url).Msg("Embedded NATS server started")
	}

	nc, err := natsgo.Connect(url,
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second))
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	p.nc = nc

	streamCfg := interactions.DefaultStreamConfig()
	if cfg.NATS.StreamRetentionDays > 0 {
		streamCfg.MaxAge = time.Duration(cfg.NATS.StreamRetentionDays) * 24 * time.Hour
	}

	manager, err := interactions.NewStreamManager(nc, &streamCfg)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("create stream manager: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := manager.EnsureStream(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ensure interaction stream: %w", err)
	}

	wmLogger := interactions.NewLoggerAdapter(logging.With().Str("component", "watermill").Logger())

	publisher, err := interactions.NewPublisher(interactions.DefaultPublisherConfig(url), wmLogger)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("create interaction publisher: %w", err)
	}
	publisher.SetCircuitBreaker(interactions.NewCircuitBreaker(
		interactions.DefaultCircuitBreakerConfig("interaction-publisher")))
	p.publisher = publisher

	subCfg := interactions.DefaultSubscriberConfig(url)
	subCfg.DurableName = cfg.NATS.DurableName
	subCfg.QueueGroup = cfg.NATS.QueueGroup
	subCfg.SubscribersCount = cfg.NATS.SubscribersCount
	subCfg.StreamName = streamCfg.Name

	subscriber, err := interactions.NewSubscriber(&subCfg, wmLogger)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("create interaction subscriber: %w", err)
	}
	p.subscriber = subscriber

	recorder, err := interactions.NewRecorder(subscriber, appender,
		logging.With().Str("component", "recorder").Logger())
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("create interaction recorder: %w", err)
	}
	p.recorder = recorder

	return p, nil
}

// closeMessaging releases the NATS client-side resources. The embedded
// server is shut down separately: under supervision once the tree runs,
// or via Close on init failure.
func (p *pipelineComponents) closeMessaging() {
	if p.subscriber != nil {
		if err := p.subscriber.Close(); err != nil {
			logging.Warn().Err(err).Msg("Subscriber close failed")
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Publisher close failed")
		}
	}
	if p.nc != nil {
		p.nc.Close()
	}
}

// Close releases all pipeline resources in reverse wiring order. Safe
// to call on a partially initialized pipeline.
func (p *pipelineComponents) Close() {
	p.closeMessaging()

	if p.embedded != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.embedded.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Embedded NATS shutdown failed")
		}
	}
}
