// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/worklinkhq/relevance/internal/feed"
	"github.com/worklinkhq/relevance/internal/interactions"
	"github.com/worklinkhq/relevance/internal/logging"
	"github.com/worklinkhq/relevance/internal/scoring"
	"github.com/worklinkhq/relevance/internal/search"
	"github.com/worklinkhq/relevance/internal/store"
	"github.com/worklinkhq/relevance/internal/validation"
)

// ContentSource supplies feed candidates and search documents.
// *store.ContentStore implements it.
type ContentSource interface {
	ListCandidates(ctx context.Context, kind string, limit int) ([]feed.ContentItem, error)
	GetContentItem(ctx context.Context, id string) (feed.ContentItem, error)
	ListSearchDocuments(ctx context.Context, kind search.Kind) ([]store.SearchDocument, error)
}

// InteractionSink accepts interaction events. Backed by the NATS
// publisher when the event pipeline is enabled, or by the store
// directly when it is not.
type InteractionSink interface {
	RecordInteraction(ctx context.Context, event *interactions.InteractionEvent) error
}

// HandlersConfig holds pagination and candidate-pool tuning.
type HandlersConfig struct {
	// DefaultPageSize is used when no limit parameter is supplied.
	DefaultPageSize int

	// MaxPageSize clamps the limit parameter.
	MaxPageSize int

	// CandidatePool caps how many content items one feed pass scores.
	CandidatePool int
}

// DefaultHandlersConfig returns production pagination defaults.
func DefaultHandlersConfig() HandlersConfig {
	return HandlersConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		CandidatePool:   500,
	}
}

// Handlers implements the HTTP endpoints.
type Handlers struct {
	cfg      HandlersConfig
	engine   *feed.Engine
	ranker   *search.Ranker
	content  ContentSource
	profiles feed.ProfileProvider
	sink     InteractionSink
}

// NewHandlers wires the endpoint handlers. The sink may be nil, in
// which case interaction ingestion returns 503.
func NewHandlers(cfg HandlersConfig, engine *feed.Engine, ranker *search.Ranker,
	content ContentSource, profiles feed.ProfileProvider, sink InteractionSink) (*Handlers, error) {
	if engine == nil {
		return nil, errors.New("api handlers: feed engine is required")
	}
	if ranker == nil {
		return nil, errors.New("api handlers: search ranker is required")
	}
	if content == nil {
		return nil, errors.New("api handlers: content source is required")
	}
	if cfg.DefaultPageSize <= 0 {
		cfg = DefaultHandlersConfig()
	}

	return &Handlers{
		cfg:      cfg,
		engine:   engine,
		ranker:   ranker,
		content:  content,
		profiles: profiles,
		sink:     sink,
	}, nil
}

// GetFeed handles GET /api/v1/feed.
//
// Query parameters: kind, limit, offset, bypass_cache. Viewer identity
// comes from the bearer token; anonymous viewers get the generic feed.
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, offset, ok := h.parsePagination(rw, r)
	if !ok {
		return
	}
	kind := strings.TrimSpace(r.URL.Query().Get("kind"))
	bypassCache := r.URL.Query().Get("bypass_cache") == "true"

	viewerID, _ := ViewerIDFromContext(r.Context())

	candidates, err := h.content.ListCandidates(r.Context(), kind, h.cfg.CandidatePool)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	resp, err := h.engine.Assemble(r.Context(), feed.Request{
		ViewerID:    viewerID,
		Candidates:  candidates,
		Kind:        kind,
		Limit:       limit,
		Offset:      offset,
		BypassCache: bypassCache,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Feed assembly failed")
		rw.InternalError("Feed assembly failed")
		return
	}

	rw.SuccessWithPagination(resp, &PaginationMeta{
		Total:   int64(resp.Metadata.CandidateCount),
		Count:   len(resp.Items),
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+len(resp.Items) < resp.Metadata.CandidateCount,
	})
}

// ExplainScore handles GET /api/v1/feed/explain/{contentID}. It scores
// one item for the viewer and returns the full match-reason audit trail.
func (h *Handlers) ExplainScore(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	contentID := chi.URLParam(r, "contentID")
	if contentID == "" {
		rw.BadRequest("content ID is required")
		return
	}

	item, err := h.content.GetContentItem(r.Context(), contentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			rw.NotFound("content item not found")
			return
		}
		rw.DatabaseError(err)
		return
	}

	viewerID, _ := ViewerIDFromContext(r.Context())
	scored, err := h.engine.Explain(r.Context(), viewerID, item)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Score explanation failed")
		rw.InternalError("Score explanation failed")
		return
	}

	rw.Success(scored)
}

// SearchResult is one ranked search hit.
type SearchResult struct {
	ID        string      `json:"id"`
	Kind      search.Kind `json:"kind"`
	Main      string      `json:"main"`
	Slug      string      `json:"slug,omitempty"`
	Secondary []string    `json:"secondary,omitempty"`
	Score     int         `json:"score"`
}

// Search handles GET /api/v1/search.
//
// Query parameters: q, kind, limit, offset. An empty q browses all
// documents in default order; a non-empty q shorter than the minimum is
// a validation error. Authenticated viewers get the personalization
// boost.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, offset, ok := h.parsePagination(rw, r)
	if !ok {
		return
	}

	kind, ok := parseSearchKind(rw, r.URL.Query().Get("kind"))
	if !ok {
		return
	}

	query, err := search.PrepareQuery(r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, search.ErrQueryTooShort) {
			rw.ValidationError("search query too short", map[string]interface{}{
				"min_length": search.MinQueryRunes,
			})
			return
		}
		rw.BadRequest("invalid search query")
		return
	}

	docs, err := h.content.ListSearchDocuments(r.Context(), kind)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	profile := h.resolveSearchProfile(r)

	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		var score int
		if profile != nil {
			score = h.ranker.RankPersonalized(doc.Doc, query, profile)
		} else {
			score = h.ranker.Rank(doc.Doc, query)
		}
		if !query.Browse && score == search.ScoreNoMatch {
			continue
		}
		results = append(results, SearchResult{
			ID:        doc.ID,
			Kind:      doc.Doc.Kind,
			Main:      doc.Doc.Main,
			Slug:      doc.Doc.Slug,
			Secondary: doc.Doc.Secondary,
			Score:     score,
		})
	}

	sortSearchResults(results, query.Browse)
	total := len(results)
	page := paginateResults(results, offset, limit)

	rw.SuccessWithPagination(page, &PaginationMeta{
		Total:   int64(total),
		Count:   len(page),
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+len(page) < total,
	})
}

// interactionRequest is the POST /api/v1/interactions payload.
type interactionRequest struct {
	ViewerID    string `json:"viewer_id,omitempty" validate:"omitempty,max=128"`
	ContentID   string `json:"content_id" validate:"required,max=128"`
	ContentType string `json:"content_type" validate:"required,max=32"`
	Action      string `json:"action" validate:"required,max=32"`
	Source      string `json:"source,omitempty" validate:"omitempty,max=64"`
}

// PostInteraction handles POST /api/v1/interactions. The event is
// validated, then handed to the sink; with the NATS pipeline enabled
// this is fire-and-forget ingestion, hence 202.
//
// The bearer token identifies the viewer; the body viewer_id is only
// honored for anonymous requests (service-to-service ingestion).
func (h *Handlers) PostInteraction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.sink == nil {
		rw.ServiceUnavailable("interaction ingestion is disabled")
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	viewerID, ok := ViewerIDFromContext(r.Context())
	if !ok {
		viewerID = strings.TrimSpace(req.ViewerID)
	}
	if viewerID == "" {
		rw.BadRequest("viewer identity is required")
		return
	}

	event := interactions.NewInteractionEvent(viewerID, req.ContentID,
		scoring.ContentType(req.ContentType), scoring.Action(req.Action))
	if req.Source != "" {
		event.Source = req.Source
	}

	if verr := event.Validate(); verr != nil {
		rw.ValidationError("invalid interaction event", verr)
		return
	}

	if err := h.sink.RecordInteraction(r.Context(), event); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("viewer", viewerID).
			Str("content_id", event.ContentID).
			Msg("Failed to record interaction")
		rw.InternalError("Failed to record interaction")
		return
	}

	rw.Accepted(map[string]interface{}{
		"event_id":    event.EventID,
		"occurred_at": event.OccurredAt,
	})
}

// GetLexicon handles GET /api/v1/lexicon, exposing the entity lexicon
// for diagnostics and client-side autocomplete.
func (h *Handlers) GetLexicon(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	lex := h.engine.Lexicon()

	rw.Success(map[string]interface{}{
		"companies":  lex.Companies(),
		"skills":     lex.Skills(),
		"industries": lex.Industries(),
		"size":       lex.Size(),
	})
}

// EngineStatus handles GET /api/v1/engine/status.
func (h *Handlers) EngineStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.Status())
}

// parsePagination reads and clamps limit/offset. Reports false after
// writing the error response when a parameter is malformed.
func (h *Handlers) parsePagination(rw *ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit = h.cfg.DefaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			rw.BadRequest("limit must be a positive integer")
			return 0, 0, false
		}
		limit = v
	}
	if limit > h.cfg.MaxPageSize {
		limit = h.cfg.MaxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			rw.BadRequest("offset must be a non-negative integer")
			return 0, 0, false
		}
		offset = v
	}

	return limit, offset, true
}

// resolveSearchProfile loads the viewer's normalized profile for the
// personalization boost. Any miss or failure means no boost.
func (h *Handlers) resolveSearchProfile(r *http.Request) *scoring.InterestProfile {
	viewerID, ok := ViewerIDFromContext(r.Context())
	if !ok || h.profiles == nil {
		return nil
	}

	profile, err := h.profiles.GetInterestProfile(r.Context(), viewerID)
	if err != nil {
		if !errors.Is(err, feed.ErrProfileNotFound) {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Profile fetch failed, searching without boost")
		}
		return nil
	}
	if profile == nil || !profile.OnboardingCompleted {
		return nil
	}
	return profile.Normalize()
}

// parseSearchKind validates the kind parameter. Empty means all kinds.
func parseSearchKind(rw *ResponseWriter, raw string) (search.Kind, bool) {
	switch search.Kind(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case search.KindProfile:
		return search.KindProfile, true
	case search.KindCompany:
		return search.KindCompany, true
	case search.KindPost:
		return search.KindPost, true
	default:
		rw.BadRequest("kind must be one of: profile, company, post")
		return "", false
	}
}

// sortSearchResults orders hits: score descending for ranked queries,
// alphabetical for browse mode where every score is zero. Ties break on
// main field then ID so pagination is reproducible.
func sortSearchResults(results []SearchResult, browse bool) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if !browse && a.Score != b.Score {
			return a.Score > b.Score
		}
		am, bm := strings.ToLower(a.Main), strings.ToLower(b.Main)
		if am != bm {
			return am < bm
		}
		return a.ID < b.ID
	})
}

// paginateResults slices the sorted hits. Out-of-range offsets yield an
// empty page.
func paginateResults(results []SearchResult, offset, limit int) []SearchResult {
	if offset >= len(results) {
		return []SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
