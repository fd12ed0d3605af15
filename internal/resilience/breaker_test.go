// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

func TestBreaker_OpensAfterFailureRatio(t *testing.T) {
	t.Parallel()

	b := NewBreaker[string](t.Name(), BreakerSettings{}, zerolog.Nop())
	errBoom := errors.New("connection refused")

	for i := 0; i < 10; i++ {
		_, err := b.Execute(func() (string, error) { return "", errBoom })
		if !errors.Is(err, errBoom) {
			t.Fatalf("call %d: expected underlying error, got %v", i, err)
		}
	}

	if got := b.State(); got != "open" {
		t.Fatalf("State() = %q, want open", got)
	}

	var calls atomic.Int32
	_, err := b.Execute(func() (string, error) {
		calls.Add(1)
		return "ok", nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected wrapped gobreaker.ErrOpenState, got %v", err)
	}
	if calls.Load() != 0 {
		t.Error("fn must not run while the circuit is open")
	}
}

func TestBreaker_StaysClosedBelowMinimum(t *testing.T) {
	t.Parallel()

	b := NewBreaker[int](t.Name(), BreakerSettings{MinRequests: 20}, zerolog.Nop())
	for i := 0; i < 15; i++ {
		_, _ = b.Execute(func() (int, error) { return 0, fmt.Errorf("fail %d", i) })
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed", got)
	}
}

func TestBreaker_CancellationDoesNotTrip(t *testing.T) {
	t.Parallel()

	b := NewBreaker[int](t.Name(), BreakerSettings{}, zerolog.Nop())
	for i := 0; i < 25; i++ {
		_, err := b.Execute(func() (int, error) {
			return 0, fmt.Errorf("query aborted: %w", context.Canceled)
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed", got)
	}
}

func TestBreaker_PassesResult(t *testing.T) {
	t.Parallel()

	b := NewBreaker[[]string](t.Name(), BreakerSettings{}, zerolog.Nop())
	got, err := b.Execute(func() ([]string, error) { return []string{"a", "b"}, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1] != "b" {
		t.Errorf("result = %v", got)
	}
	if b.Name() != t.Name() {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		want  string
		num   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
	}
	for _, tt := range tests {
		if got := StateString(tt.state); got != tt.want {
			t.Errorf("StateString(%v) = %q, want %q", tt.state, got, tt.want)
		}
		if got := stateToFloat(tt.state); got != tt.num {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.num)
		}
	}
}
