// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/worklinkhq/relevance/internal/logging"
)

// HTTPServer matches *http.Server's lifecycle methods, so the service
// can be tested against a mock.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService wraps an HTTP server as a supervised service. It
// bridges ListenAndServe's blocking pattern to suture's context-aware
// Serve: the listener runs in a goroutine, and context cancellation
// triggers a graceful Shutdown with the configured timeout.
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

// NewHTTPServerService creates the HTTP server service wrapper.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service. http.ErrServerClosed is swallowed
// since it is the expected shutdown signal.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// Fresh context: the original is already canceled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer for supervision logs.
func (h *HTTPServerService) String() string {
	return "http-server"
}

// Runner is a context-bound blocking loop. *interactions.Recorder
// satisfies it.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerService wraps a blocking Run loop as a supervised service, so a
// crashed consumer loop restarts under suture's backoff policy.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService wraps a Runner. The name identifies the service in
// supervision logs.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	if err := s.runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for supervision logs.
func (s *RunnerService) String() string {
	return s.name
}

// Shutdowner is a component that is already running and only needs a
// graceful stop. *interactions.EmbeddedServer satisfies it.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// ShutdownService supervises an already-started component: it parks
// until the context ends, then shuts the component down. Used for the
// embedded NATS server, which starts during wiring so that publishers
// can connect before the tree serves.
type ShutdownService struct {
	component       Shutdowner
	name            string
	shutdownTimeout time.Duration
}

// NewShutdownService wraps a running component for supervised shutdown.
func NewShutdownService(name string, component Shutdowner, shutdownTimeout time.Duration) *ShutdownService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &ShutdownService{
		component:       component,
		name:            name,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve implements suture.Service.
func (s *ShutdownService) Serve(ctx context.Context) error {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.component.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Str("service", s.name).Msg("Component shutdown failed")
	}
	return ctx.Err()
}

// String implements fmt.Stringer for supervision logs.
func (s *ShutdownService) String() string {
	return s.name
}

// Pruner deletes expired interaction records.
// *store.InteractionStore satisfies it.
type Pruner interface {
	PruneOlderThan(ctx context.Context, retentionDays int) (int64, error)
}

// PruneService periodically prunes interactions past the retention
// window. Storage retention mirrors the event stream's MaxAge so the
// two never drift apart.
type PruneService struct {
	pruner        Pruner
	retentionDays int
	interval      time.Duration
}

// NewPruneService creates the retention pruner. A non-positive interval
// defaults to hourly.
func NewPruneService(pruner Pruner, retentionDays int, interval time.Duration) *PruneService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PruneService{
		pruner:        pruner,
		retentionDays: retentionDays,
		interval:      interval,
	}
}

// Serve implements suture.Service. Prune failures are logged and
// retried next tick rather than crashing the service.
func (s *PruneService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pruned, err := s.pruner.PruneOlderThan(ctx, s.retentionDays)
			if err != nil {
				logging.Warn().Err(err).Msg("Interaction pruning failed")
				continue
			}
			if pruned > 0 {
				logging.Info().
					Int64("pruned", pruned).
					Int("retention_days", s.retentionDays).
					Msg("Pruned expired interactions")
			}
		}
	}
}

// String implements fmt.Stringer for supervision logs.
func (s *PruneService) String() string {
	return "interaction-pruner"
}
