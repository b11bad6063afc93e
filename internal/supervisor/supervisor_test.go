// Relevance - Content Matching and Personalization Scoring Engine
// Copyright 2026 WorkLink HQ
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/worklinkhq/relevance

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type blockingService struct {
	started atomic.Bool
}

func (s *blockingService) Serve(ctx context.Context) error {
	s.started.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return "blocking-service" }

func TestTreeServesAndStops(t *testing.T) {
	tree := NewTree(testLogger(), DefaultTreeConfig())

	pipelineSvc := &blockingService{}
	apiSvc := &blockingService{}
	tree.AddPipelineService(pipelineSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	done := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for !pipelineSvc.started.Load() || !apiSvc.started.Load() {
		select {
		case <-deadline:
			t.Fatal("services did not start in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want nil or context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}

func TestTreeAppliesDefaultsForZeroConfig(t *testing.T) {
	tree := NewTree(testLogger(), TreeConfig{})
	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want 5.0", tree.config.FailureThreshold)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", tree.config.ShutdownTimeout)
	}
}

type fakeHTTPServer struct {
	listenErr   error
	shutdownErr error
	shutdown    atomic.Bool
	release     chan struct{}
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{release: make(chan struct{})}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.release
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(ctx context.Context) error {
	f.shutdown.Store(true)
	close(f.release)
	return f.shutdownErr
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	server := newFakeHTTPServer()
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}

	if !server.shutdown.Load() {
		t.Error("expected Shutdown to be called")
	}
}

func TestHTTPServerServiceReportsListenFailure(t *testing.T) {
	server := newFakeHTTPServer()
	server.listenErr = fmt.Errorf("listen tcp: address in use")
	svc := NewHTTPServerService(server, time.Second)

	err := svc.Serve(context.Background())
	if err == nil {
		t.Fatal("expected listen failure to surface")
	}
}

type fakeRunner struct {
	err error
}

func (f *fakeRunner) Run(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRunnerServicePropagatesFailure(t *testing.T) {
	svc := NewRunnerService("recorder", &fakeRunner{err: fmt.Errorf("subscribe failed")})
	if err := svc.Serve(context.Background()); err == nil {
		t.Fatal("expected runner failure to surface")
	}
	if svc.String() != "recorder" {
		t.Errorf("String() = %q, want recorder", svc.String())
	}
}

func TestRunnerServiceTreatsCancelAsClean(t *testing.T) {
	svc := NewRunnerService("recorder", &fakeRunner{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

type countingPruner struct {
	calls  atomic.Int64
	pruned int64
	err    error
}

func (p *countingPruner) PruneOlderThan(_ context.Context, _ int) (int64, error) {
	p.calls.Add(1)
	return p.pruned, p.err
}

func TestPruneServiceRunsOnTicks(t *testing.T) {
	pruner := &countingPruner{pruned: 3}
	svc := NewPruneService(pruner, 30, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v, want deadline exceeded", err)
	}
	if pruner.calls.Load() < 2 {
		t.Errorf("pruner ran %d times, want at least 2", pruner.calls.Load())
	}
}

func TestPruneServiceSurvivesErrors(t *testing.T) {
	pruner := &countingPruner{err: fmt.Errorf("table locked")}
	svc := NewPruneService(pruner, 30, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	// Errors are logged, not returned; only the deadline ends the loop.
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve returned %v, want deadline exceeded", err)
	}
	if pruner.calls.Load() < 2 {
		t.Errorf("pruner stopped after %d calls, want retries", pruner.calls.Load())
	}
}
