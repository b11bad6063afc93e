// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package api exposes the HTTP surface: feed assembly, score
// explanation, tiered search, interaction ingestion, and diagnostics.
//
// All endpoints return the standardized APIResponse envelope. Viewer
// identity comes from a JWT bearer token; requests without one are
// served in generic mode rather than rejected.
package api
