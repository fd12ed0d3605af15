// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/models"
)

type mockLoader struct {
	calls    atomic.Int32
	err      error
	deadline atomic.Bool
}

func (m *mockLoader) FetchFilms(ctx context.Context) ([]models.Film, error) {
	m.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		m.deadline.Store(true)
	}
	if m.err != nil {
		return nil, m.err
	}
	return []models.Film{{URI: "http://example.org/film#Film_Heat", Title: "Heat"}}, nil
}

func serveFor(t *testing.T, svc *CatalogRefreshService, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return svc.Serve(ctx)
}

func TestCatalogRefreshService_LoadOnStartup(t *testing.T) {
	t.Parallel()

	loader := &mockLoader{}
	svc := NewCatalogRefreshService(loader, CatalogRefreshConfig{LoadOnStartup: true}, zerolog.Nop())

	err := serveFor(t, svc, 50*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", loader.calls.Load())
	}
	if !loader.deadline.Load() {
		t.Error("fetch should run with a timeout")
	}
}

func TestCatalogRefreshService_NoStartupNoInterval(t *testing.T) {
	t.Parallel()

	loader := &mockLoader{}
	svc := NewCatalogRefreshService(loader, CatalogRefreshConfig{}, zerolog.Nop())

	_ = serveFor(t, svc, 50*time.Millisecond)
	if loader.calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", loader.calls.Load())
	}
}

func TestCatalogRefreshService_PeriodicRefresh(t *testing.T) {
	t.Parallel()

	loader := &mockLoader{}
	svc := NewCatalogRefreshService(loader, CatalogRefreshConfig{RefreshInterval: 20 * time.Millisecond}, zerolog.Nop())

	_ = serveFor(t, svc, 150*time.Millisecond)
	if got := loader.calls.Load(); got < 3 {
		t.Errorf("calls = %d, want at least 3", got)
	}
}

func TestCatalogRefreshService_FailureDoesNotStopService(t *testing.T) {
	t.Parallel()

	loader := &mockLoader{err: errors.New("connection refused")}
	svc := NewCatalogRefreshService(loader, CatalogRefreshConfig{
		LoadOnStartup:   true,
		RefreshInterval: 20 * time.Millisecond,
	}, zerolog.Nop())

	err := serveFor(t, svc, 100*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v, want the context error only", err)
	}
	if loader.calls.Load() < 2 {
		t.Errorf("calls = %d, want retries on each tick", loader.calls.Load())
	}
}

func TestCatalogRefreshService_StartupLoadWaitsForStartAfter(t *testing.T) {
	t.Parallel()

	ready := make(chan struct{})
	loader := &mockLoader{}
	svc := NewCatalogRefreshService(loader, CatalogRefreshConfig{
		LoadOnStartup: true,
		StartAfter:    ready,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	if loader.calls.Load() != 0 {
		t.Fatal("startup load ran before StartAfter was closed")
	}

	close(ready)
	deadline := time.Now().Add(2 * time.Second)
	for loader.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if loader.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 after StartAfter closed", loader.calls.Load())
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve = %v", err)
	}
}

func TestCatalogRefreshService_StartAfterTimeoutStillLoads(t *testing.T) {
	t.Parallel()

	loader := &mockLoader{}
	svc := NewCatalogRefreshService(loader, CatalogRefreshConfig{
		LoadOnStartup:     true,
		StartAfter:        make(chan struct{}),
		StartAfterTimeout: 10 * time.Millisecond,
	}, zerolog.Nop())

	_ = serveFor(t, svc, 100*time.Millisecond)
	if loader.calls.Load() != 1 {
		t.Errorf("calls = %d, want the load to run after the wait timed out", loader.calls.Load())
	}
}

func TestCatalogRefreshService_CancelWhileWaiting(t *testing.T) {
	t.Parallel()

	loader := &mockLoader{}
	svc := NewCatalogRefreshService(loader, CatalogRefreshConfig{
		LoadOnStartup: true,
		StartAfter:    make(chan struct{}),
	}, zerolog.Nop())

	err := serveFor(t, svc, 30*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v", err)
	}
	if loader.calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", loader.calls.Load())
	}
}

func TestCatalogRefreshService_String(t *testing.T) {
	t.Parallel()

	svc := NewCatalogRefreshService(&mockLoader{}, CatalogRefreshConfig{}, zerolog.Nop())
	if svc.String() != "catalog-refresh" {
		t.Errorf("String() = %q", svc.String())
	}
	if svc.config.Timeout != 30*time.Second {
		t.Errorf("default timeout = %v", svc.config.Timeout)
	}
	if svc.config.StartAfterTimeout != 15*time.Second {
		t.Errorf("default start-after timeout = %v", svc.config.StartAfterTimeout)
	}
}
