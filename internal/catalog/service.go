// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/logging"
	"github.com/tomtom215/filmgraph/internal/models"
	"github.com/tomtom215/filmgraph/internal/recommend"
)

// ErrFilmNotFound is returned when a film URI resolves to nothing.
var ErrFilmNotFound = errors.New("film not found")

// Querier is the read side of the knowledge graph.
type Querier interface {
	Catalog(ctx context.Context) ([]models.Film, error)
	Search(ctx context.Context, term string) ([]models.Film, error)
	FilmDetails(ctx context.Context, filmID string) (*models.FilmDetails, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	FilmsByGenre(ctx context.Context, genreID string) ([]models.Film, error)
}

// Recommender produces recommendations for a film.
type Recommender interface {
	Recommend(ctx context.Context, subjectID string) (recommend.Result, error)
}

// Publisher is notified after a catalog fetch is applied.
type Publisher interface {
	PublishCatalogLoaded(ctx context.Context, films []models.Film) error
}

// Service runs the catalog fetch and selection flows against a State.
type Service struct {
	state       *State
	querier     Querier
	recommender Recommender
	publisher   Publisher
	logger      zerolog.Logger
}

// NewService wires a Service. publisher may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(state *State, querier Querier, recommender Recommender, publisher Publisher, logger zerolog.Logger) *Service {
	return &Service{
		state:       state,
		querier:     querier,
		recommender: recommender,
		publisher:   publisher,
		logger:      logger.With().Str("component", "catalog").Logger(),
	}
}

// State returns the state handle.
func (s *Service) State() *State {
	return s.state
}

// Snapshot copies the current state.
func (s *Service) Snapshot() Snapshot {
	return s.state.Snapshot()
}

// FetchFilms loads the catalog, or searches when a search term is set, and
// writes the films to the state. The films are returned even when a newer
// fetch has superseded this one and the write-back was discarded.
func (s *Service) FetchFilms(ctx context.Context) ([]models.Film, error) {
	gen, term := s.state.BeginFetch()
	log := logging.Annotate(ctx, s.logger).With().Uint64("generation", gen).Str("search", term).Logger()

	var (
		films []models.Film
		err   error
	)
	if term == "" {
		films, err = s.querier.Catalog(ctx)
	} else {
		films, err = s.querier.Search(ctx, term)
	}

	if errors.Is(err, context.Canceled) {
		// The caller went away; there is no connectivity problem to report.
		_ = s.state.AbandonFetch(gen)
		return nil, fmt.Errorf("fetch films: %w", err)
	}

	if cerr := s.state.CompleteFetch(gen, films, err); errors.Is(cerr, ErrStale) {
		log.Debug().Msg("discarding superseded catalog fetch")
	} else if err == nil {
		s.publishLoaded(ctx, films)
	}

	if err != nil {
		log.Error().Err(err).Msg("catalog fetch failed")
		return nil, fmt.Errorf("fetch films: %w", err)
	}

	log.Debug().Int("films", len(films)).Msg("catalog fetched")
	return films, nil
}

// Search sets the search term and runs FetchFilms.
func (s *Service) Search(ctx context.Context, term string) ([]models.Film, error) {
	s.state.SetSearchTerm(term)
	return s.FetchFilms(ctx)
}

func (s *Service) publishLoaded(ctx context.Context, films []models.Film) {
	if s.publisher == nil || len(films) == 0 {
		return
	}
	if err := s.publisher.PublishCatalogLoaded(ctx, films); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish catalog loaded event")
	}
}

// Select makes film the selection and aggregates its recommendations. The
// result is written back only if no newer selection or clear happened in
// the meantime; otherwise ErrStale is returned with the result.
func (s *Service) Select(ctx context.Context, film models.Film) (recommend.Result, error) {
	gen := s.state.BeginSelect(film)
	log := logging.Annotate(ctx, s.logger).With().Uint64("generation", gen).Str("film", film.URI).Logger()

	res, err := s.recommender.Recommend(ctx, film.URI)
	if errors.Is(err, context.Canceled) {
		// Nobody is waiting for this selection; leave no error behind.
		if cerr := s.state.AbandonSelect(gen); cerr != nil {
			return res, cerr
		}
		log.Debug().Msg("selection abandoned by caller")
		return res, err
	}
	if cerr := s.state.CompleteSelect(gen, res.Films, err); cerr != nil {
		log.Debug().Msg("discarding superseded selection")
		return res, cerr
	}
	if err != nil {
		log.Warn().Err(err).Msg("recommendation failed")
		return res, err
	}
	return res, nil
}

// SelectByURI resolves uri against the loaded catalog, falling back to the
// graph, and selects it.
func (s *Service) SelectByURI(ctx context.Context, uri string) (models.Film, recommend.Result, error) {
	film, ok := s.state.FindFilm(uri)
	if !ok {
		details, err := s.querier.FilmDetails(ctx, uri)
		if err != nil {
			return models.Film{}, recommend.Result{}, err
		}
		if details == nil {
			return models.Film{}, recommend.Result{}, fmt.Errorf("%w: %s", ErrFilmNotFound, uri)
		}
		film = filmFromDetails(details)
	}

	res, err := s.Select(ctx, film)
	return film, res, err
}

// ClearSelection drops the selection.
func (s *Service) ClearSelection() {
	s.state.ClearSelection()
}

// Details returns one film with its multi-valued properties.
func (s *Service) Details(ctx context.Context, filmID string) (*models.FilmDetails, error) {
	d, err := s.querier.FilmDetails(ctx, filmID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrFilmNotFound, filmID)
	}
	return d, nil
}

// Genres lists all genres.
func (s *Service) Genres(ctx context.Context) ([]models.Genre, error) {
	return s.querier.Genres(ctx)
}

// FilmsByGenre lists the films of a genre.
func (s *Service) FilmsByGenre(ctx context.Context, genreID string) ([]models.Film, error) {
	return s.querier.FilmsByGenre(ctx, genreID)
}

func filmFromDetails(d *models.FilmDetails) models.Film {
	f := models.Film{URI: d.URI, Title: d.Title, Year: d.Year, Duration: d.Duration}
	if len(d.Genres) > 0 {
		f.Genre = d.Genres[0]
	}
	if len(d.Directors) > 0 {
		f.Director = d.Directors[0]
	}
	return f
}
