// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/worklinkhq/relevance/internal/logging"
)

type viewerContextKey struct{}

// DevViewerHeader identifies the viewer in development when no JWT
// secret is configured. Ignored entirely once a secret is set.
const DevViewerHeader = "X-Viewer-ID"

// ViewerIDFromContext returns the authenticated viewer ID, if any.
func ViewerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(viewerContextKey{}).(string)
	return id, ok && id != ""
}

// withViewerID returns a context carrying the viewer ID.
func withViewerID(ctx context.Context, viewerID string) context.Context {
	return context.WithValue(ctx, viewerContextKey{}, viewerID)
}

// ViewerAuth extracts viewer identity from a JWT bearer token. A missing
// or invalid token does not fail the request: the feed contract serves
// anonymous viewers the generic ranking, so identity here is best-effort.
// Invalid tokens are logged and treated as anonymous.
//
// With an empty secret (development only) identity falls back to the
// X-Viewer-ID header.
func ViewerAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewerID := resolveViewer(r, secret)
			if viewerID != "" {
				r = r.WithContext(withViewerID(r.Context(), viewerID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveViewer returns the viewer ID for the request, or "" for
// anonymous.
func resolveViewer(r *http.Request, secret string) string {
	authHeader := r.Header.Get("Authorization")

	if secret == "" {
		return r.Header.Get(DevViewerHeader)
	}

	if authHeader == "" {
		return ""
	}

	tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		logging.Ctx(r.Context()).Warn().Msg("Malformed Authorization header, serving anonymous")
		return ""
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	if err != nil || !token.Valid {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Invalid viewer token, serving anonymous")
		return ""
	}

	return claims.Subject
}
