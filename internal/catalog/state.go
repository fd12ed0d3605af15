// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package catalog

import (
	"errors"
	"sync"

	"github.com/tomtom215/filmgraph/internal/metrics"
	"github.com/tomtom215/filmgraph/internal/models"
)

// ErrStale is returned when a write-back belongs to a superseded fetch or
// selection. The state is left untouched.
var ErrStale = errors.New("stale result discarded")

// User-facing error messages stored in the state.
const (
	ConnectivityMessage   = "Unable to load films. Check that the SPARQL endpoint is running."
	RecommendationMessage = "Unable to load recommendations for the selected film."
)

// Snapshot is a point-in-time copy of the state. Version increases with
// every applied change.
type Snapshot struct {
	Version         uint64        `json:"version"`
	Films           []models.Film `json:"films"`
	SelectedFilm    *models.Film  `json:"selected_film"`
	Recommendations []models.Film `json:"recommendations"`
	Loading         bool          `json:"loading"`
	Error           string        `json:"error,omitempty"`
	SearchTerm      string        `json:"search_term"`
}

// State is the shared catalog view. Only the fetch flow and the selection
// flow write to it; each flow owns a generation counter and a write-back is
// applied only if its generation is still current. Each flow also owns its
// error message, so one flow succeeding never hides or revives the other's.
type State struct {
	mu sync.RWMutex

	films           []models.Film
	selected        *models.Film
	recommendations []models.Film
	searchTerm      string
	fetchErr        string
	selectErr       string

	fetchGen      uint64
	fetchLoading  bool
	selectGen     uint64
	selectLoading bool

	version  uint64
	onChange func()
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		films:           []models.Film{},
		recommendations: []models.Film{},
	}
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Films:           append([]models.Film(nil), s.films...),
		Recommendations: append([]models.Film(nil), s.recommendations...),
		Loading:         s.fetchLoading || s.selectLoading,
		Error:           s.errMsg(),
		SearchTerm:      s.searchTerm,
		Version:         s.version,
	}
	if snap.Films == nil {
		snap.Films = []models.Film{}
	}
	if snap.Recommendations == nil {
		snap.Recommendations = []models.Film{}
	}
	if s.selected != nil {
		f := *s.selected
		snap.SelectedFilm = &f
	}
	return snap
}

// errMsg is the message clients see. A connectivity problem outranks a
// failed selection. Callers hold mu.
func (s *State) errMsg() string {
	if s.fetchErr != "" {
		return s.fetchErr
	}
	return s.selectErr
}

// OnChange registers fn to run after every applied change, outside the lock.
// fn must not block.
func (s *State) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// changed bumps the version and returns the hook to call once mu is
// released. Callers hold mu.
func (s *State) changed() func() {
	s.version++
	if s.onChange == nil {
		return func() {}
	}
	return s.onChange
}

// SearchTerm returns the current search term.
func (s *State) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchTerm
}

// SetSearchTerm stores term for the next fetch.
func (s *State) SetSearchTerm(term string) {
	s.mu.Lock()
	s.searchTerm = term
	notify := s.changed()
	s.mu.Unlock()
	notify()
}

// FindFilm returns the catalog film with uri.
func (s *State) FindFilm(uri string) (models.Film, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.films {
		if s.films[i].URI == uri {
			return s.films[i], true
		}
	}
	return models.Film{}, false
}

// BeginFetch starts a catalog fetch. It returns the fetch generation and the
// search term the fetch should use.
func (s *State) BeginFetch() (gen uint64, term string) {
	s.mu.Lock()
	s.fetchGen++
	s.fetchLoading = true
	s.fetchErr = ""
	gen, term = s.fetchGen, s.searchTerm
	notify := s.changed()
	s.mu.Unlock()

	notify()
	return gen, term
}

// CompleteFetch applies the outcome of fetch gen. On failure the previous
// films are kept and the connectivity message is set.
func (s *State) CompleteFetch(gen uint64, films []models.Film, fetchErr error) error {
	s.mu.Lock()
	if gen != s.fetchGen {
		s.mu.Unlock()
		metrics.CatalogStaleResults.WithLabelValues("fetch").Inc()
		return ErrStale
	}

	s.fetchLoading = false
	if fetchErr != nil {
		s.fetchErr = ConnectivityMessage
	} else {
		s.films = append([]models.Film(nil), films...)
		if s.films == nil {
			s.films = []models.Film{}
		}
		metrics.CatalogFilms.Set(float64(len(s.films)))
	}
	notify := s.changed()
	s.mu.Unlock()

	notify()
	return nil
}

// AbandonFetch ends fetch gen without applying a result or an error, for a
// fetch whose caller went away.
func (s *State) AbandonFetch(gen uint64) error {
	s.mu.Lock()
	if gen != s.fetchGen {
		s.mu.Unlock()
		return ErrStale
	}
	s.fetchLoading = false
	notify := s.changed()
	s.mu.Unlock()

	notify()
	return nil
}

// BeginSelect records film as selected, clears the previous recommendations
// and any recommendation error, and returns the selection generation.
func (s *State) BeginSelect(film models.Film) uint64 {
	s.mu.Lock()
	s.selectGen++
	s.selected = &film
	s.recommendations = []models.Film{}
	s.selectLoading = true
	s.selectErr = ""
	gen := s.selectGen
	notify := s.changed()
	s.mu.Unlock()

	notify()
	return gen
}

// CompleteSelect applies the recommendations of selection gen. A failed
// aggregation leaves the list empty and sets the recommendation message.
func (s *State) CompleteSelect(gen uint64, recs []models.Film, recErr error) error {
	s.mu.Lock()
	if gen != s.selectGen {
		s.mu.Unlock()
		metrics.CatalogStaleResults.WithLabelValues("select").Inc()
		return ErrStale
	}

	s.selectLoading = false
	if recErr != nil {
		s.recommendations = []models.Film{}
		s.selectErr = RecommendationMessage
	} else {
		s.recommendations = append([]models.Film(nil), recs...)
		if s.recommendations == nil {
			s.recommendations = []models.Film{}
		}
		s.selectErr = ""
	}
	notify := s.changed()
	s.mu.Unlock()

	notify()
	return nil
}

// AbandonSelect ends selection gen without recommendations and without an
// error. The film stays selected.
func (s *State) AbandonSelect(gen uint64) error {
	s.mu.Lock()
	if gen != s.selectGen {
		s.mu.Unlock()
		return ErrStale
	}
	s.selectLoading = false
	notify := s.changed()
	s.mu.Unlock()

	notify()
	return nil
}

// ClearSelection drops the selection, its recommendations and its error.
// Any selection still in flight becomes stale.
func (s *State) ClearSelection() {
	s.mu.Lock()
	s.selectGen++
	s.selected = nil
	s.recommendations = []models.Film{}
	s.selectLoading = false
	s.selectErr = ""
	notify := s.changed()
	s.mu.Unlock()

	notify()
}
