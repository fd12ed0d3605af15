// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// BusRunner is satisfied by *events.Bus.
type BusRunner interface {
	Run(ctx context.Context) error
	Close() error
}

// EventBusService runs the event router until ctx is cancelled and then
// closes the bus.
//
// A watermill router cannot be started again once it has stopped, so an
// unexpected stop is reported with suture.ErrDoNotRestart. Publishing keeps
// working without the router; only the consumers stop.
type EventBusService struct {
	bus    BusRunner
	logger zerolog.Logger
	name   string
}

// NewEventBusService wraps bus.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventBusService(bus BusRunner, logger zerolog.Logger) *EventBusService {
	return &EventBusService{
		bus:    bus,
		logger: logger.With().Str("service", "event-bus").Logger(),
		name:   "event-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	runErr := s.bus.Run(ctx)

	if ctx.Err() != nil {
		if err := s.bus.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("event bus close failed")
		}
		return ctx.Err()
	}

	s.logger.Error().Err(runErr).Msg("event router stopped unexpectedly")
	return fmt.Errorf("event router stopped: %v: %w", runErr, suture.ErrDoNotRestart)
}

func (s *EventBusService) String() string {
	return s.name
}
