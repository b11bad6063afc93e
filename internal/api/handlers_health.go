// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package api

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports storage liveness. *store.Store implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers serves the liveness and readiness probes.
type HealthHandlers struct {
	pinger Pinger
}

// NewHealthHandlers creates health probe handlers. A nil pinger makes
// readiness unconditional, for tests and storage-less deployments.
func NewHealthHandlers(pinger Pinger) *HealthHandlers {
	return &HealthHandlers{pinger: pinger}
}

// Live handles GET /api/v1/health/live. Always 200 while the process
// serves requests.
func (h *HealthHandlers) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// Ready handles GET /api/v1/health/ready. 503 until storage answers.
func (h *HealthHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			rw.ServiceUnavailable("storage not ready")
			return
		}
	}

	rw.Success(map[string]string{"status": "ready"})
}
