// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/worklinkhq/relevance/internal/extract"
	"github.com/worklinkhq/relevance/internal/feed"
	"github.com/worklinkhq/relevance/internal/metrics"
	"github.com/worklinkhq/relevance/internal/scoring"
	"github.com/worklinkhq/relevance/internal/search"
)

// SearchDocument pairs a ranker document with its storage identity.
type SearchDocument struct {
	ID  string
	Doc search.Document
}

// ContentStore persists feed candidates and search documents.
type ContentStore struct {
	store *Store
}

// UpsertContentItem writes a candidate content snapshot.
func (c *ContentStore) UpsertContentItem(ctx context.Context, item feed.ContentItem) error {
	if item.ID == "" {
		return fmt.Errorf("upsert content item: id is required")
	}

	var (
		headline sql.NullString
		skills   = "[]"
	)
	if item.Author != nil {
		headline = sql.NullString{String: item.Author.Headline, Valid: true}
		data, err := json.Marshal(item.Author.Skills)
		if err != nil {
			return fmt.Errorf("marshal author skills: %w", err)
		}
		skills = string(data)
	}

	query := `INSERT INTO content_items (
		id, kind, body, author_headline, author_skills, published_at
	) VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		kind = EXCLUDED.kind,
		body = EXCLUDED.body,
		author_headline = EXCLUDED.author_headline,
		author_skills = EXCLUDED.author_skills,
		published_at = EXCLUDED.published_at`

	start := time.Now()
	_, err := c.store.conn.ExecContext(ctx, query,
		item.ID, item.Kind, item.Text, headline, skills, item.PublishedAt.UTC())
	metrics.RecordDBQuery("upsert", "content_items", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("upsert content item %s: %w", item.ID, err)
	}
	return nil
}

// ListCandidates returns the newest content items, optionally restricted to
// one kind. Limit caps the candidate pool handed to the feed engine.
func (c *ContentStore) ListCandidates(ctx context.Context, kind string, limit int) ([]feed.ContentItem, error) {
	if limit <= 0 {
		limit = 500
	}

	query := `SELECT id, kind, body, author_headline, author_skills, published_at
	FROM content_items`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY published_at DESC LIMIT ?`
	args = append(args, limit)

	start := time.Now()
	rows, err := c.store.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "content_items", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer closeQuietly(rows)

	var out []feed.ContentItem
	for rows.Next() {
		var (
			item     feed.ContentItem
			headline sql.NullString
			skills   string
		)
		if err := rows.Scan(&item.ID, &item.Kind, &item.Text, &headline,
			&skills, &item.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan content item: %w", err)
		}

		if headline.Valid || skills != "[]" {
			author := &scoring.AuthorProfile{Headline: headline.String}
			if err := json.Unmarshal([]byte(skills), &author.Skills); err != nil {
				return nil, fmt.Errorf("unmarshal author skills: %w", err)
			}
			if author.Headline != "" || len(author.Skills) > 0 {
				item.Author = author
			}
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content items: %w", err)
	}

	return out, nil
}

// GetContentItem loads a single content item by id. Returns sql.ErrNoRows
// wrapped when absent.
func (c *ContentStore) GetContentItem(ctx context.Context, id string) (feed.ContentItem, error) {
	query := `SELECT id, kind, body, author_headline, author_skills, published_at
	FROM content_items WHERE id = ?`

	start := time.Now()
	row := c.store.conn.QueryRowContext(ctx, query, id)

	var (
		item     feed.ContentItem
		headline sql.NullString
		skills   string
	)
	err := row.Scan(&item.ID, &item.Kind, &item.Text, &headline, &skills, &item.PublishedAt)
	metrics.RecordDBQuery("select", "content_items", time.Since(start), err)

	if err != nil {
		return feed.ContentItem{}, fmt.Errorf("get content item %s: %w", id, err)
	}

	if headline.Valid || skills != "[]" {
		author := &scoring.AuthorProfile{Headline: headline.String}
		if err := json.Unmarshal([]byte(skills), &author.Skills); err != nil {
			return feed.ContentItem{}, fmt.Errorf("unmarshal author skills: %w", err)
		}
		if author.Headline != "" || len(author.Skills) > 0 {
			item.Author = author
		}
	}

	return item, nil
}

// UpsertSearchDocument writes a searchable document with its pre-extracted
// entity tags.
func (c *ContentStore) UpsertSearchDocument(ctx context.Context, doc SearchDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("upsert search document: id is required")
	}

	secondary, err := json.Marshal(doc.Doc.Secondary)
	if err != nil {
		return fmt.Errorf("marshal secondary fields: %w", err)
	}
	tags, err := json.Marshal(doc.Doc.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	query := `INSERT INTO search_documents (
		id, kind, main, slug, secondary, tags, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, now())
	ON CONFLICT (id) DO UPDATE SET
		kind = EXCLUDED.kind,
		main = EXCLUDED.main,
		slug = EXCLUDED.slug,
		secondary = EXCLUDED.secondary,
		tags = EXCLUDED.tags,
		updated_at = now()`

	start := time.Now()
	_, err = c.store.conn.ExecContext(ctx, query,
		doc.ID, string(doc.Doc.Kind), doc.Doc.Main, doc.Doc.Slug,
		string(secondary), string(tags))
	metrics.RecordDBQuery("upsert", "search_documents", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("upsert search document %s: %w", doc.ID, err)
	}
	return nil
}

// ListSearchDocuments returns all documents, optionally restricted to one
// kind. The ranker scores them in memory; the corpus is expected to be
// modest relative to the content table.
func (c *ContentStore) ListSearchDocuments(ctx context.Context, kind search.Kind) ([]SearchDocument, error) {
	query := `SELECT id, kind, main, slug, secondary, tags FROM search_documents`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}

	start := time.Now()
	rows, err := c.store.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "search_documents", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("list search documents: %w", err)
	}
	defer closeQuietly(rows)

	var out []SearchDocument
	for rows.Next() {
		var (
			doc       SearchDocument
			kindStr   string
			slug      sql.NullString
			secondary string
			tags      string
		)
		if err := rows.Scan(&doc.ID, &kindStr, &doc.Doc.Main, &slug,
			&secondary, &tags); err != nil {
			return nil, fmt.Errorf("scan search document: %w", err)
		}
		doc.Doc.Kind = search.Kind(kindStr)
		doc.Doc.Slug = slug.String
		if err := json.Unmarshal([]byte(secondary), &doc.Doc.Secondary); err != nil {
			return nil, fmt.Errorf("unmarshal secondary fields: %w", err)
		}
		var tagSet extract.TagSet
		if err := json.Unmarshal([]byte(tags), &tagSet); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		doc.Doc.Tags = tagSet
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search documents: %w", err)
	}

	return out, nil
}
