// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

// Package resilience wraps sony/gobreaker with the metrics and logging used by
// the outbound clients (SPARQL endpoint, OMDb).
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/filmgraph/internal/metrics"
)

// ErrCircuitOpen is returned when the breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker open")

// BreakerSettings tunes a Breaker. Zero values take the defaults below.
type BreakerSettings struct {
	// MaxRequests allowed while half-open. Default 3.
	MaxRequests uint32

	// Interval after which closed-state counts reset. Default 1m.
	Interval time.Duration

	// Timeout spent open before probing again. Default 30s.
	Timeout time.Duration

	// MinRequests before the failure ratio is considered. Default 10.
	MinRequests uint32

	// FailureRatio at or above which the breaker opens. Default 0.6.
	FailureRatio float64
}

func (s *BreakerSettings) withDefaults() BreakerSettings {
	out := *s
	if out.MaxRequests == 0 {
		out.MaxRequests = 3
	}
	if out.Interval == 0 {
		out.Interval = time.Minute
	}
	if out.Timeout == 0 {
		out.Timeout = 30 * time.Second
	}
	if out.MinRequests == 0 {
		out.MinRequests = 10
	}
	if out.FailureRatio == 0 {
		out.FailureRatio = 0.6
	}
	return out
}

// Breaker is a typed circuit breaker.
//
// The breaker uses wall-clock time for its interval and timeout. Unit tests
// should trip it with failures rather than wait for recovery.
type Breaker[T any] struct {
	cb     *gobreaker.CircuitBreaker[T]
	name   string
	logger zerolog.Logger
}

// NewBreaker creates a breaker named name; the name is the metrics label.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreaker[T any](name string, settings BreakerSettings, logger zerolog.Logger) *Breaker[T] {
	s := settings.withDefaults()
	log := logger.With().Str("breaker", name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= s.FailureRatio {
				log.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("from", StateString(from)).Str("to", StateString(to)).Msg("circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, StateString(from), StateString(to)).Inc()
		},
		// A caller giving up is not evidence that the remote side is unhealthy.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Breaker[T]{cb: cb, name: name, logger: log}
}

// Execute runs fn under breaker protection. Rejections are returned as
// ErrCircuitOpen wrapping the gobreaker error.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Debug().Err(err).Msg("request rejected")
			var zero T
			return zero, errors.Join(ErrCircuitOpen, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return result, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// State returns "closed", "half-open" or "open".
func (b *Breaker[T]) State() string {
	return StateString(b.cb.State())
}

// Name returns the breaker name.
func (b *Breaker[T]) Name() string {
	return b.name
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// StateString converts a gobreaker state for logs and health output.
func StateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
