// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/worklinkhq/relevance/internal/middleware"
)

// RouterConfig holds the HTTP surface configuration.
type RouterConfig struct {
	// JWTSecret verifies viewer identity tokens. Empty enables the
	// development header fallback.
	JWTSecret string

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string

	// RateLimitRequests and RateLimitWindow set the default per-IP API
	// rate limit.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// RateLimitDisabled turns off all rate limiting, for tests.
	RateLimitDisabled bool
}

// DefaultRouterConfig returns production router defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CORSOrigins:       []string{},
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// Endpoint-specific rate limits. Write endpoints are limited harder
// than reads; health probes are permissive so monitoring never trips.
const (
	rateLimitWriteRequests  = 30
	rateLimitHealthRequests = 1000
)

// NewRouter assembles the chi router: global tracing and recovery
// middleware, rate-limited and instrumented API routes, health probes,
// and the Prometheus scrape endpoint.
func NewRouter(h *Handlers, health *HealthHandlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		MaxAge:         86400,
	}))
	r.Use(securityHeaders)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimit(cfg, cfg.RateLimitRequests))
		r.Use(middleware.PrometheusMetrics)
		r.Use(ViewerAuth(cfg.JWTSecret))

		// Read endpoints, compressed: feed pages and search results are
		// JSON-heavy.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Compression)
			r.Get("/feed", h.GetFeed)
			r.Get("/feed/explain/{contentID}", h.ExplainScore)
			r.Get("/search", h.Search)
		})

		r.With(rateLimit(cfg, rateLimitWriteRequests)).
			Post("/interactions", h.PostInteraction)

		r.Get("/lexicon", h.GetLexicon)
		r.Get("/engine/status", h.EngineStatus)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rateLimit(cfg, rateLimitHealthRequests))
		r.Get("/live", health.Live)
		r.Get("/ready", health.Ready)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimit returns a per-IP limiter allowing the given requests per window, or a
// no-op when rate limiting is disabled.
func rateLimit(cfg RouterConfig, requests int) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			NewResponseWriter(w, r).Error(http.StatusTooManyRequests,
				ErrCodeTooManyRequests, "rate limit exceeded")
		}),
	)
}

// securityHeaders adds baseline API security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
