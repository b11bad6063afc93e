// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package store

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core tables and indexes.
//
// Tables:
//   - interest_profiles: one row per viewer; list fields are JSON-encoded
//     TEXT so the profile round-trips without DuckDB list scanning
//   - interactions: append-only viewer action log; the composite unique
//     constraint makes re-delivered events idempotent
//   - content_items: candidate content snapshots for feed assembly
//   - search_documents: denormalized searchable entities (companies,
//     people, posts) with pre-extracted tags
func (s *Store) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("execute schema query: %s: %w", query, err)
		}
	}

	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS interest_profiles (
			viewer_id TEXT PRIMARY KEY,
			industries TEXT NOT NULL DEFAULT '[]',
			skills TEXT NOT NULL DEFAULT '[]',
			followed_companies TEXT NOT NULL DEFAULT '[]',
			work_history TEXT NOT NULL DEFAULT '[]',
			onboarding_completed BOOLEAN NOT NULL DEFAULT false,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS interactions (
			id UUID PRIMARY KEY,
			viewer_id TEXT NOT NULL,
			content_id TEXT NOT NULL,
			content_type TEXT NOT NULL,
			action TEXT NOT NULL,
			occurred_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (viewer_id, content_id, content_type, action, occurred_at)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_interactions_viewer_occurred
			ON interactions (viewer_id, occurred_at)`,

		`CREATE TABLE IF NOT EXISTS content_items (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			body TEXT NOT NULL,
			author_headline TEXT,
			author_skills TEXT NOT NULL DEFAULT '[]',
			published_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_content_items_published
			ON content_items (published_at)`,

		`CREATE INDEX IF NOT EXISTS idx_content_items_kind
			ON content_items (kind, published_at)`,

		`CREATE TABLE IF NOT EXISTS search_documents (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			main TEXT NOT NULL,
			slug TEXT,
			secondary TEXT NOT NULL DEFAULT '[]',
			tags TEXT NOT NULL DEFAULT '{}',
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_search_documents_kind
			ON search_documents (kind)`,
	}
}
