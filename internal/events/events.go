// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/filmgraph/internal/models"
)

// Topic names.
const (
	TopicCatalogLoaded = "catalog.loaded"
)

// Metadata keys set on every published message.
const (
	MetadataEventType     = "event_type"
	MetadataCorrelationID = "correlation_id"
)

// ErrInvalidEvent is returned when a payload cannot be decoded or is missing
// required fields.
var ErrInvalidEvent = errors.New("invalid event")

// FilmRef is the part of a film the poster prefetch needs.
type FilmRef struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
}

// CatalogLoaded is published after a catalog or search fetch is applied.
type CatalogLoaded struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Films      []FilmRef `json:"films"`
}

// NewCatalogLoaded builds the event for films.
func NewCatalogLoaded(films []models.Film) *CatalogLoaded {
	refs := make([]FilmRef, 0, len(films))
	for i := range films {
		refs = append(refs, FilmRef{URI: films[i].URI, Title: films[i].Title, Year: films[i].Year})
	}
	return &CatalogLoaded{
		EventID:    uuid.New().String(),
		OccurredAt: time.Now().UTC(),
		Films:      refs,
	}
}

// ModelFilms converts the references back to models for the poster cache.
func (e *CatalogLoaded) ModelFilms() []models.Film {
	out := make([]models.Film, len(e.Films))
	for i, f := range e.Films {
		out[i] = models.Film{URI: f.URI, Title: f.Title, Year: f.Year}
	}
	return out
}

// Validate checks required fields.
func (e *CatalogLoaded) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurred_at is required", ErrInvalidEvent)
	}
	return nil
}

func marshalEvent(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalCatalogLoaded(payload []byte) (*CatalogLoaded, error) {
	var e CatalogLoaded
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
