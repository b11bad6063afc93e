// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package middleware provides HTTP middleware shared across the API
// surface: request ID propagation, Prometheus instrumentation, and
// response compression.
package middleware
