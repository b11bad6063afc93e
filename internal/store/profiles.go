// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/worklinkhq/relevance/internal/feed"
	"github.com/worklinkhq/relevance/internal/metrics"
	"github.com/worklinkhq/relevance/internal/scoring"
)

// ProfileStore persists viewer interest profiles. It satisfies
// feed.ProfileProvider.
type ProfileStore struct {
	store *Store
}

// Upsert writes a profile, replacing any existing row for the viewer.
func (p *ProfileStore) Upsert(ctx context.Context, profile *scoring.InterestProfile) error {
	if profile == nil || profile.ViewerID == "" {
		return fmt.Errorf("upsert profile: viewer_id is required")
	}

	industries, err := json.Marshal(profile.Industries)
	if err != nil {
		return fmt.Errorf("marshal industries: %w", err)
	}
	skills, err := json.Marshal(profile.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	companies, err := json.Marshal(profile.FollowedCompanies)
	if err != nil {
		return fmt.Errorf("marshal followed_companies: %w", err)
	}
	work, err := json.Marshal(profile.WorkHistory)
	if err != nil {
		return fmt.Errorf("marshal work_history: %w", err)
	}

	query := `INSERT INTO interest_profiles (
		viewer_id, industries, skills, followed_companies, work_history,
		onboarding_completed, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, now())
	ON CONFLICT (viewer_id) DO UPDATE SET
		industries = EXCLUDED.industries,
		skills = EXCLUDED.skills,
		followed_companies = EXCLUDED.followed_companies,
		work_history = EXCLUDED.work_history,
		onboarding_completed = EXCLUDED.onboarding_completed,
		updated_at = now()`

	start := time.Now()
	_, err = p.store.conn.ExecContext(ctx, query,
		profile.ViewerID, string(industries), string(skills),
		string(companies), string(work), profile.OnboardingCompleted)
	metrics.RecordDBQuery("upsert", "interest_profiles", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.ViewerID, err)
	}
	return nil
}

// GetInterestProfile loads a viewer's profile. Returns
// feed.ErrProfileNotFound when no row exists.
func (p *ProfileStore) GetInterestProfile(ctx context.Context, viewerID string) (*scoring.InterestProfile, error) {
	query := `SELECT viewer_id, industries, skills, followed_companies,
		work_history, onboarding_completed
	FROM interest_profiles WHERE viewer_id = ?`

	start := time.Now()
	row := p.store.conn.QueryRowContext(ctx, query, viewerID)

	var (
		profile    scoring.InterestProfile
		industries string
		skills     string
		companies  string
		work       string
	)
	err := row.Scan(&profile.ViewerID, &industries, &skills, &companies,
		&work, &profile.OnboardingCompleted)
	metrics.RecordDBQuery("select", "interest_profiles", time.Since(start), err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("viewer %s: %w", viewerID, feed.ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", viewerID, err)
	}

	if err := json.Unmarshal([]byte(industries), &profile.Industries); err != nil {
		return nil, fmt.Errorf("unmarshal industries: %w", err)
	}
	if err := json.Unmarshal([]byte(skills), &profile.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}
	if err := json.Unmarshal([]byte(companies), &profile.FollowedCompanies); err != nil {
		return nil, fmt.Errorf("unmarshal followed_companies: %w", err)
	}
	if err := json.Unmarshal([]byte(work), &profile.WorkHistory); err != nil {
		return nil, fmt.Errorf("unmarshal work_history: %w", err)
	}

	return &profile, nil
}

// Delete removes a viewer's profile. Deleting an absent profile is not an
// error.
func (p *ProfileStore) Delete(ctx context.Context, viewerID string) error {
	start := time.Now()
	_, err := p.store.conn.ExecContext(ctx,
		`DELETE FROM interest_profiles WHERE viewer_id = ?`, viewerID)
	metrics.RecordDBQuery("delete", "interest_profiles", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("delete profile %s: %w", viewerID, err)
	}
	return nil
}

// Count returns the number of stored profiles.
func (p *ProfileStore) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := p.store.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interest_profiles`).Scan(&n)
	metrics.RecordDBQuery("count", "interest_profiles", time.Since(start), err)

	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}
