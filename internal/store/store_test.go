// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/worklinkhq/relevance/internal/extract"
	"github.com/worklinkhq/relevance/internal/feed"
	"github.com/worklinkhq/relevance/internal/scoring"
	"github.com/worklinkhq/relevance/internal/search"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Path = ":memory:"
	cfg.MaxMemory = "256MB"

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	profile := &scoring.InterestProfile{
		ViewerID:            "viewer-1",
		Industries:          []string{"fintech", "saas"},
		Skills:              []string{"go", "react"},
		FollowedCompanies:   []string{"stripe"},
		WorkHistory:         []scoring.WorkEntry{{Company: "acme corp"}},
		OnboardingCompleted: true,
	}

	if err := s.Profiles().Upsert(ctx, profile); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := s.Profiles().GetInterestProfile(ctx, "viewer-1")
	if err != nil {
		t.Fatalf("GetInterestProfile: %v", err)
	}

	if got.ViewerID != profile.ViewerID {
		t.Errorf("ViewerID = %q, want %q", got.ViewerID, profile.ViewerID)
	}
	if len(got.Industries) != 2 || got.Industries[0] != "fintech" {
		t.Errorf("Industries = %v", got.Industries)
	}
	if len(got.WorkHistory) != 1 || got.WorkHistory[0].Company != "acme corp" {
		t.Errorf("WorkHistory = %v", got.WorkHistory)
	}
	if !got.OnboardingCompleted {
		t.Error("OnboardingCompleted not persisted")
	}
}

func TestProfileUpsertReplaces(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := &scoring.InterestProfile{
		ViewerID: "viewer-1",
		Skills:   []string{"go"},
	}
	if err := s.Profiles().Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	second := &scoring.InterestProfile{
		ViewerID:            "viewer-1",
		Skills:              []string{"go", "kubernetes"},
		OnboardingCompleted: true,
	}
	if err := s.Profiles().Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}

	got, err := s.Profiles().GetInterestProfile(ctx, "viewer-1")
	if err != nil {
		t.Fatalf("GetInterestProfile: %v", err)
	}
	if len(got.Skills) != 2 {
		t.Errorf("Skills = %v, want 2 entries", got.Skills)
	}
	if !got.OnboardingCompleted {
		t.Error("OnboardingCompleted not updated")
	}

	n, err := s.Profiles().Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestProfileNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Profiles().GetInterestProfile(context.Background(), "nobody")
	if !errors.Is(err, feed.ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestProfileDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	profile := &scoring.InterestProfile{ViewerID: "viewer-1"}
	if err := s.Profiles().Upsert(ctx, profile); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Profiles().Delete(ctx, "viewer-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Profiles().GetInterestProfile(ctx, "viewer-1"); !errors.Is(err, feed.ErrProfileNotFound) {
		t.Errorf("err after delete = %v, want ErrProfileNotFound", err)
	}

	// Deleting again is not an error.
	if err := s.Profiles().Delete(ctx, "viewer-1"); err != nil {
		t.Errorf("Delete absent: %v", err)
	}
}

func TestInteractionAppendAndWindow(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	inside := scoring.Interaction{
		ContentID:   "stripe",
		ContentType: scoring.ContentTypeCompany,
		Action:      scoring.ActionLike,
		OccurredAt:  now.AddDate(0, 0, -3),
	}
	outside := scoring.Interaction{
		ContentID:   "acme",
		ContentType: scoring.ContentTypeCompany,
		Action:      scoring.ActionView,
		OccurredAt:  now.AddDate(0, 0, -45),
	}

	if err := s.Interactions().AppendInteraction(ctx, "viewer-1", inside); err != nil {
		t.Fatalf("AppendInteraction: %v", err)
	}
	if err := s.Interactions().AppendInteraction(ctx, "viewer-1", outside); err != nil {
		t.Fatalf("AppendInteraction: %v", err)
	}

	got, err := s.Interactions().GetRecentInteractions(ctx, "viewer-1", 30)
	if err != nil {
		t.Fatalf("GetRecentInteractions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d interactions, want 1 inside window", len(got))
	}
	if got[0].ContentID != "stripe" {
		t.Errorf("ContentID = %q, want stripe", got[0].ContentID)
	}
	if got[0].ContentType != scoring.ContentTypeCompany {
		t.Errorf("ContentType = %q", got[0].ContentType)
	}
}

func TestInteractionAppendIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	it := scoring.Interaction{
		ContentID:   "stripe",
		ContentType: scoring.ContentTypeCompany,
		Action:      scoring.ActionLike,
		OccurredAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	for i := 0; i < 3; i++ {
		if err := s.Interactions().AppendInteraction(ctx, "viewer-1", it); err != nil {
			t.Fatalf("AppendInteraction attempt %d: %v", i, err)
		}
	}

	n, err := s.Interactions().CountForViewer(ctx, "viewer-1")
	if err != nil {
		t.Fatalf("CountForViewer: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1 after redeliveries", n)
	}
}

func TestInteractionPrune(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := scoring.Interaction{
		ContentID:   "acme",
		ContentType: scoring.ContentTypeCompany,
		Action:      scoring.ActionView,
		OccurredAt:  now.AddDate(0, 0, -120),
	}
	recent := scoring.Interaction{
		ContentID:   "stripe",
		ContentType: scoring.ContentTypeCompany,
		Action:      scoring.ActionLike,
		OccurredAt:  now.AddDate(0, 0, -1),
	}

	if err := s.Interactions().AppendInteraction(ctx, "viewer-1", old); err != nil {
		t.Fatalf("AppendInteraction: %v", err)
	}
	if err := s.Interactions().AppendInteraction(ctx, "viewer-1", recent); err != nil {
		t.Fatalf("AppendInteraction: %v", err)
	}

	removed, err := s.Interactions().PruneOlderThan(ctx, 90)
	if err != nil {
		t.Fatalf("PruneOlderThan: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	n, _ := s.Interactions().CountForViewer(ctx, "viewer-1")
	if n != 1 {
		t.Errorf("remaining = %d, want 1", n)
	}
}

func TestContentItemRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	item := feed.ContentItem{
		ID:   "post-1",
		Kind: "post",
		Text: "Stripe is hiring Go engineers",
		Author: &scoring.AuthorProfile{
			Headline: "Engineering at Stripe",
			Skills:   []string{"go", "payments"},
		},
		PublishedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	}

	if err := s.Content().UpsertContentItem(ctx, item); err != nil {
		t.Fatalf("UpsertContentItem: %v", err)
	}

	got, err := s.Content().GetContentItem(ctx, "post-1")
	if err != nil {
		t.Fatalf("GetContentItem: %v", err)
	}
	if got.Text != item.Text {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Author == nil || got.Author.Headline != "Engineering at Stripe" {
		t.Errorf("Author = %+v", got.Author)
	}
	if len(got.Author.Skills) != 2 {
		t.Errorf("Author.Skills = %v", got.Author.Skills)
	}
}

func TestListCandidatesOrderAndKindFilter(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	items := []feed.ContentItem{
		{ID: "post-old", Kind: "post", Text: "older", PublishedAt: base},
		{ID: "post-new", Kind: "post", Text: "newer", PublishedAt: base.AddDate(0, 0, 5)},
		{ID: "company-1", Kind: "company", Text: "a company page", PublishedAt: base.AddDate(0, 0, 3)},
	}
	for _, item := range items {
		if err := s.Content().UpsertContentItem(ctx, item); err != nil {
			t.Fatalf("UpsertContentItem %s: %v", item.ID, err)
		}
	}

	all, err := s.Content().ListCandidates(ctx, "", 10)
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d candidates, want 3", len(all))
	}
	if all[0].ID != "post-new" {
		t.Errorf("first candidate = %s, want post-new", all[0].ID)
	}

	posts, err := s.Content().ListCandidates(ctx, "post", 10)
	if err != nil {
		t.Fatalf("ListCandidates kind: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("got %d posts, want 2", len(posts))
	}
	for _, p := range posts {
		if p.Kind != "post" {
			t.Errorf("kind = %q, want post", p.Kind)
		}
	}

	// Authorless rows come back with a nil author.
	if posts[0].Author != nil {
		t.Errorf("Author = %+v, want nil", posts[0].Author)
	}
}

func TestSearchDocumentRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	doc := SearchDocument{
		ID: "company-stripe",
		Doc: search.Document{
			Kind:      search.KindCompany,
			Main:      "Stripe",
			Slug:      "stripe",
			Secondary: []string{"fintech", "san francisco"},
			Tags: extract.TagSet{
				Companies:  []string{"stripe"},
				Industries: []string{"fintech"},
			},
		},
	}

	if err := s.Content().UpsertSearchDocument(ctx, doc); err != nil {
		t.Fatalf("UpsertSearchDocument: %v", err)
	}

	docs, err := s.Content().ListSearchDocuments(ctx, search.KindCompany)
	if err != nil {
		t.Fatalf("ListSearchDocuments: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}

	got := docs[0]
	if got.ID != doc.ID {
		t.Errorf("ID = %q", got.ID)
	}
	if got.Doc.Main != "Stripe" || got.Doc.Slug != "stripe" {
		t.Errorf("Doc = %+v", got.Doc)
	}
	if len(got.Doc.Secondary) != 2 {
		t.Errorf("Secondary = %v", got.Doc.Secondary)
	}
	if len(got.Doc.Tags.Companies) != 1 || got.Doc.Tags.Companies[0] != "stripe" {
		t.Errorf("Tags = %+v", got.Doc.Tags)
	}

	// Kind filter excludes non-matching documents.
	none, err := s.Content().ListSearchDocuments(ctx, search.KindProfile)
	if err != nil {
		t.Fatalf("ListSearchDocuments profile: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d profile documents, want 0", len(none))
	}
}
