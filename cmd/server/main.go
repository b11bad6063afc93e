// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package main is the entry point for the relevance server.
//
// Relevance scores content against viewer interest profiles: it extracts
// company, skill, and industry entities from free text, assembles ranked
// personalized feeds with per-item match reasons, and serves tiered
// keyword search with a personalization boost.
//
// # Startup order
//
//  1. Configuration: koanf v2 layering defaults, optional YAML file, env vars
//  2. Storage: DuckDB with profiles, interactions, content, and search documents
//  3. Feed engine: lexicon, extractor, scorer, response cache
//  4. Interaction pipeline (optional): embedded NATS JetStream, publisher,
//     supervised recorder consuming events into storage
//  5. HTTP server: chi router under a suture supervision tree
//
// # Configuration
//
// Key environment variables (see internal/config for the full mapping):
//
//	HTTP_PORT     - listen port (default 8080)
//	DUCKDB_PATH   - database file, or :memory:
//	JWT_SECRET    - viewer token secret, required in production
//	NATS_ENABLED  - enable the interaction event pipeline
//	LOG_LEVEL     - trace|debug|info|warn|error
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the recorder stops consuming, and the embedded
// NATS server flushes JetStream state before exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/worklinkhq/relevance/internal/api"
	"github.com/worklinkhq/relevance/internal/config"
	"github.com/worklinkhq/relevance/internal/feed"
	"github.com/worklinkhq/relevance/internal/lexicon"
	"github.com/worklinkhq/relevance/internal/logging"
	"github.com/worklinkhq/relevance/internal/search"
	"github.com/worklinkhq/relevance/internal/store"
	"github.com/worklinkhq/relevance/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting relevance engine")

	st, err := store.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Warn().Err(err).Msg("Storage close failed")
		}
	}()

	lex := lexicon.Default()
	engine, err := feed.NewEngine(cfg.Feed, cfg.Scoring, lex, st.Profiles(), st.Interactions())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize feed engine")
	}
	defer engine.Close()
	ranker := search.New(cfg.Search)

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	// Interaction ingestion: NATS pipeline when enabled, direct
	// storage writes otherwise.
	var sink api.InteractionSink = api.NewAppenderSink(st.Interactions())
	var pipeline *pipelineComponents
	if cfg.NATS.Enabled {
		pipeline, err = initPipeline(cfg, st.Interactions())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize interaction pipeline")
		}
		defer pipeline.closeMessaging()

		sink = api.NewPublisherSink(pipeline.publisher)
		tree.AddPipelineService(supervisor.NewRunnerService("interaction-recorder", pipeline.recorder))
		if pipeline.embedded != nil {
			tree.AddPipelineService(supervisor.NewShutdownService("nats-server", pipeline.embedded, 10*time.Second))
		}
	}

	tree.AddPipelineService(supervisor.NewPruneService(
		st.Interactions(), cfg.NATS.StreamRetentionDays, time.Hour))

	handlers, err := api.NewHandlers(api.HandlersConfig{
		DefaultPageSize: cfg.API.DefaultPageSize,
		MaxPageSize:     cfg.API.MaxPageSize,
		CandidatePool:   500,
	}, engine, ranker, st.Content(), st.Profiles(), sink)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize API handlers")
	}

	router := api.NewRouter(handlers, api.NewHealthHandlers(st), api.RouterConfig{
		JWTSecret:         cfg.Security.JWTSecret,
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitReqs,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", addr).
		Int("lexicon_size", lex.Size()).
		Msg("HTTP server listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree exited with error")
	}

	logging.Info().Msg("Shutdown complete")
}
