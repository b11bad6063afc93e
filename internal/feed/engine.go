// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

// Package feed orchestrates entity extraction and relevance scoring over a
// candidate set: it decides between personalized and generic passes, scores
// candidates (in parallel above a threshold), sorts deterministically, and
// paginates. Every emitted item retains its detected entities and match
// reasons for the explain view.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/worklinkhq/relevance/internal/cache"
	"github.com/worklinkhq/relevance/internal/extract"
	"github.com/worklinkhq/relevance/internal/lexicon"
	"github.com/worklinkhq/relevance/internal/logging"
	"github.com/worklinkhq/relevance/internal/metrics"
	"github.com/worklinkhq/relevance/internal/scoring"
)

// profileCacheSize bounds the viewer-profile LRU independently of
// traffic shape.
const profileCacheSize = 8192

// ErrProfileNotFound is returned by ProfileProvider implementations when
// the viewer has no interest profile. The engine treats it as the routine
// generic-mode signal, never as a failure.
var ErrProfileNotFound = errors.New("interest profile not found")

// ProfileProvider supplies viewer interest profiles. Implementations must
// return ErrProfileNotFound (possibly wrapped) for absent profiles.
type ProfileProvider interface {
	GetInterestProfile(ctx context.Context, viewerID string) (*scoring.InterestProfile, error)
}

// InteractionProvider supplies a viewer's recent interaction history.
type InteractionProvider interface {
	GetRecentInteractions(ctx context.Context, viewerID string, windowDays int) ([]scoring.Interaction, error)
}

// Engine assembles ranked feeds. Construct once with NewEngine and share
// across requests; each assembly pass reads immutable inputs and produces
// an independent output.
type Engine struct {
	cfg       Config
	logger    zerolog.Logger
	lex       *lexicon.Lexicon
	extractor *extract.Extractor
	scorer    *scoring.Scorer

	profiles     ProfileProvider
	interactions InteractionProvider

	respCache    *cache.Cache
	profileCache *cache.LRUCache
	limiter      *rate.Limiter

	windowDays int

	// counters
	totalRequests      atomic.Int64
	personalizedPasses atomic.Int64
	genericPasses      atomic.Int64
	cacheHits          atomic.Int64
}

// NewEngine wires the feed engine. The interaction provider may be nil, in
// which case the recency bonus never fires.
func NewEngine(cfg Config, scoringCfg scoring.Config, lex *lexicon.Lexicon,
	profiles ProfileProvider, interactions InteractionProvider) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := scoringCfg.Validate(); err != nil {
		return nil, err
	}
	if lex == nil {
		return nil, errors.New("feed engine: lexicon is required")
	}
	if profiles == nil {
		return nil, errors.New("feed engine: profile provider is required")
	}

	e := &Engine{
		cfg:          cfg,
		logger:       logging.With().Str("component", "feed").Logger(),
		lex:          lex,
		extractor:    extract.New(lex),
		scorer:       scoring.New(scoringCfg),
		profiles:     profiles,
		interactions: interactions,
		windowDays:   scoringCfg.RecencyWindowDays,
	}

	if cfg.CacheEnabled {
		e.respCache = cache.New(cfg.CacheTTL)
		e.profileCache = cache.NewLRUCache(profileCacheSize, cfg.CacheTTL)
	}
	if cfg.RateLimit > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	return e, nil
}

// Assemble runs one feed pass: resolve mode, score, sort, paginate.
func (e *Engine) Assemble(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.totalRequests.Add(1)

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("feed rate limit: %w", err)
		}
	}

	req = e.prepareRequest(req)
	requestID := uuid.NewString()
	logger := logging.Ctx(ctx).With().
		Str("component", "feed").
		Str("feed_request_id", requestID).
		Str("viewer", req.ViewerID).
		Logger()

	cacheKey := ""
	if e.respCache != nil && !req.BypassCache {
		cacheKey = cache.GenerateKey("feed", cacheableKey(req))
		if cached, ok := e.respCache.Get(cacheKey); ok {
			if resp, ok := cached.(*Response); ok {
				e.cacheHits.Add(1)
				metrics.CacheHits.WithLabelValues("feed").Inc()
				out := *resp
				out.Metadata.CacheHit = true
				logger.Debug().Msg("Feed served from cache")
				return &out, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("feed").Inc()
	}

	profile, history := e.resolveViewer(ctx, req.ViewerID, logger)

	mode := ModeGeneric
	if profile != nil {
		mode = ModePersonalized
		e.personalizedPasses.Add(1)
	} else {
		e.genericPasses.Add(1)
	}

	candidates := filterByKind(req.Candidates, req.Kind)
	scored := e.scoreAll(ctx, profile, history, candidates)
	sortScored(scored, mode)
	page := paginate(scored, req.Offset, req.Limit)

	latency := time.Since(start)
	metrics.RecordFeedAssembly(mode, latency, len(candidates))

	logger.Info().
		Str("mode", mode).
		Int("candidates", len(candidates)).
		Int("returned", len(page)).
		Dur("latency", latency).
		Msg("Feed assembled")

	resp := &Response{
		Items: page,
		Metadata: ResponseMetadata{
			RequestID:      requestID,
			Mode:           mode,
			CandidateCount: len(candidates),
			LatencyMs:      latency.Milliseconds(),
			GeneratedAt:    time.Now().UTC(),
		},
	}

	if cacheKey != "" {
		e.respCache.Set(cacheKey, resp)
	}

	return resp, nil
}

// Explain scores a single item for the viewer and returns the full audit
// trail. This is the literal engine output, no additional contract.
func (e *Engine) Explain(ctx context.Context, viewerID string, item ContentItem) (*ScoredItem, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("feed rate limit: %w", err)
		}
	}

	logger := logging.Ctx(ctx).With().Str("component", "feed").Logger()
	profile, history := e.resolveViewer(ctx, viewerID, logger)

	scored := e.scoreOne(profile, history, item)
	return &scored, nil
}

// Status returns a snapshot of the engine counters.
func (e *Engine) Status() Status {
	total := e.totalRequests.Load()
	hits := e.cacheHits.Load()

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100.0
	}

	return Status{
		TotalRequests:      total,
		PersonalizedPasses: e.personalizedPasses.Load(),
		GenericPasses:      e.genericPasses.Load(),
		CacheHits:          hits,
		CacheHitRate:       hitRate,
		LexiconSize:        e.lex.Size(),
	}
}

// Lexicon returns the engine's lexicon for the diagnostics endpoint.
func (e *Engine) Lexicon() *lexicon.Lexicon {
	return e.lex
}

// Close stops the response cache's cleanup goroutine. The engine must
// not be used after Close.
func (e *Engine) Close() {
	if e.respCache != nil {
		e.respCache.Stop()
	}
}

// InvalidateCache drops all cached pages and profiles, e.g. after a
// config reload.
func (e *Engine) InvalidateCache() {
	if e.respCache != nil {
		e.respCache.Clear()
	}
	if e.profileCache != nil {
		e.profileCache.Clear()
	}
}

// prepareRequest applies limit defaults and clamps.
func (e *Engine) prepareRequest(req Request) Request {
	if req.Limit <= 0 {
		req.Limit = e.cfg.DefaultLimit
	}
	if req.Limit > e.cfg.MaxLimit {
		req.Limit = e.cfg.MaxLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return req
}

// resolveViewer fetches the profile and recent interaction window.
// An absent profile, an incomplete onboarding, or any fetch failure routes
// the pass to generic mode; scoring must never fail because a collaborator
// did.
func (e *Engine) resolveViewer(ctx context.Context, viewerID string, logger zerolog.Logger) (*scoring.InterestProfile, []scoring.Interaction) {
	if viewerID == "" {
		return nil, nil
	}

	normalized := e.resolveProfile(ctx, viewerID, logger)
	if normalized == nil {
		return nil, nil
	}

	var history []scoring.Interaction
	if e.interactions != nil {
		var err error
		history, err = e.interactions.GetRecentInteractions(ctx, viewerID, e.windowDays)
		if err != nil {
			logger.Warn().Err(err).Msg("Interaction fetch failed, scoring without recency bonus")
			history = nil
		}
	}

	return normalized, history
}

// resolveProfile returns the viewer's normalized interest profile, or nil
// when the viewer has no usable profile. Normalized profiles are kept in a
// bounded LRU so hot viewers skip the storage round trip; staleness is
// capped by the cache TTL.
func (e *Engine) resolveProfile(ctx context.Context, viewerID string, logger zerolog.Logger) *scoring.InterestProfile {
	if e.profileCache != nil {
		if cached, ok := e.profileCache.Get(viewerID); ok {
			if p, ok := cached.(*scoring.InterestProfile); ok {
				metrics.CacheHits.WithLabelValues("profile").Inc()
				return p
			}
		}
		metrics.CacheMisses.WithLabelValues("profile").Inc()
	}

	profile, err := e.profiles.GetInterestProfile(ctx, viewerID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			logger.Warn().Err(err).Msg("Profile fetch failed, serving generic feed")
		}
		return nil
	}
	if profile == nil || !profile.OnboardingCompleted {
		return nil
	}

	normalized := profile.Normalize()
	if e.profileCache != nil {
		e.profileCache.Add(viewerID, normalized)
	}
	return normalized
}

// scoreAll maps the scorer over the candidates. Above the configured
// threshold the pass runs as a chunked parallel map; output order always
// mirrors input order, parallel or not, so the following sort is the only
// reordering step.
func (e *Engine) scoreAll(ctx context.Context, profile *scoring.InterestProfile,
	history []scoring.Interaction, candidates []ContentItem) []ScoredItem {
	scored := make([]ScoredItem, len(candidates))

	if len(candidates) < e.cfg.ParallelThreshold {
		for i, item := range candidates {
			scored[i] = e.scoreOne(profile, history, item)
		}
		return scored
	}

	workers := e.cfg.Workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	chunk := (len(candidates) + workers - 1) / workers
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(candidates) {
			hi = len(candidates)
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					return
				}
				scored[i] = e.scoreOne(profile, history, candidates[i])
			}
		}(lo, hi)
	}

	wg.Wait()
	return scored
}

// scoreOne extracts and scores a single candidate.
func (e *Engine) scoreOne(profile *scoring.InterestProfile, history []scoring.Interaction, item ContentItem) ScoredItem {
	tags := e.extractor.Extract(item.Text)
	score, reasons := e.scorer.Score(profile, tags, item.Author, history)

	return ScoredItem{
		Item:         item,
		Score:        score,
		MatchReasons: reasons,
		Tags:         tags,
	}
}

// sortScored orders the pass output. Personalized passes sort by score
// descending with a most-recent-first tie-break; generic passes sort
// most-recent-first only, since every score is zero there. The final ID
// tie-break makes pagination reproducible even for identical timestamps.
func sortScored(items []ScoredItem, mode string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		if mode == ModePersonalized && a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Item.PublishedAt.Equal(b.Item.PublishedAt) {
			return a.Item.PublishedAt.After(b.Item.PublishedAt)
		}
		return a.Item.ID < b.Item.ID
	})
}

// paginate slices the sorted list. Out-of-range offsets yield an empty
// page, not an error.
func paginate(items []ScoredItem, offset, limit int) []ScoredItem {
	if offset >= len(items) {
		return []ScoredItem{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// filterByKind restricts candidates to one content kind when set.
func filterByKind(candidates []ContentItem, kind string) []ContentItem {
	if kind == "" {
		return candidates
	}
	filtered := make([]ContentItem, 0, len(candidates))
	for _, c := range candidates {
		if c.Kind == kind {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// cacheableKey strips per-request noise so identical logical requests
// share a cache entry. Candidate identity is reduced to ids because the
// store snapshot is stable within the cache TTL.
func cacheableKey(req Request) map[string]interface{} {
	ids := make([]string, len(req.Candidates))
	for i, c := range req.Candidates {
		ids[i] = c.ID
	}
	return map[string]interface{}{
		"viewer": req.ViewerID,
		"kind":   req.Kind,
		"limit":  req.Limit,
		"offset": req.Offset,
		"ids":    ids,
	}
}
