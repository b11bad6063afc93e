// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/worklinkhq/relevance/internal/metrics"
	"github.com/worklinkhq/relevance/internal/scoring"
)

// InteractionStore persists the append-only interaction log. It satisfies
// feed.InteractionProvider and interactions.Appender.
type InteractionStore struct {
	store *Store
}

// AppendInteraction appends one viewer action. The composite unique
// constraint absorbs redelivered events, so retries are idempotent.
func (i *InteractionStore) AppendInteraction(ctx context.Context, viewerID string, interaction scoring.Interaction) error {
	if viewerID == "" {
		return fmt.Errorf("append interaction: viewer_id is required")
	}
	if interaction.ContentID == "" {
		return fmt.Errorf("append interaction: content_id is required")
	}

	query := `INSERT INTO interactions (
		id, viewer_id, content_id, content_type, action, occurred_at
	) VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`

	start := time.Now()
	_, err := i.store.conn.ExecContext(ctx, query,
		uuid.New(), viewerID, interaction.ContentID,
		string(interaction.ContentType), string(interaction.Action),
		interaction.OccurredAt.UTC())
	metrics.RecordDBQuery("insert", "interactions", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("append interaction for %s: %w", viewerID, err)
	}
	return nil
}

// GetRecentInteractions returns a viewer's interactions inside the recency
// window, newest first.
func (i *InteractionStore) GetRecentInteractions(ctx context.Context, viewerID string, windowDays int) ([]scoring.Interaction, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	query := `SELECT content_id, content_type, action, occurred_at
	FROM interactions
	WHERE viewer_id = ? AND occurred_at >= ?
	ORDER BY occurred_at DESC`

	start := time.Now()
	rows, err := i.store.conn.QueryContext(ctx, query, viewerID, cutoff)
	metrics.RecordDBQuery("select", "interactions", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("get recent interactions for %s: %w", viewerID, err)
	}
	defer closeQuietly(rows)

	var out []scoring.Interaction
	for rows.Next() {
		var (
			it          scoring.Interaction
			contentType string
			action      string
		)
		if err := rows.Scan(&it.ContentID, &contentType, &action, &it.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		it.ContentType = scoring.ContentType(contentType)
		it.Action = scoring.Action(action)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return out, nil
}

// CountForViewer returns the size of a viewer's interaction log.
func (i *InteractionStore) CountForViewer(ctx context.Context, viewerID string) (int64, error) {
	start := time.Now()
	var n int64
	err := i.store.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interactions WHERE viewer_id = ?`, viewerID).Scan(&n)
	metrics.RecordDBQuery("count", "interactions", time.Since(start), err)

	if err != nil {
		return 0, fmt.Errorf("count interactions for %s: %w", viewerID, err)
	}
	return n, nil
}

// PruneOlderThan deletes interactions past the retention horizon and
// returns the number removed.
func (i *InteractionStore) PruneOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	start := time.Now()
	result, err := i.store.conn.ExecContext(ctx,
		`DELETE FROM interactions WHERE occurred_at < ?`, cutoff)
	metrics.RecordDBQuery("delete", "interactions", time.Since(start), err)

	if err != nil {
		return 0, fmt.Errorf("prune interactions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune interactions: rows affected: %w", err)
	}
	return affected, nil
}
