// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/catalog"
	"github.com/tomtom215/filmgraph/internal/models"
	"github.com/tomtom215/filmgraph/internal/recommend"
	"github.com/tomtom215/filmgraph/internal/sparql"
)

const (
	uriInception = "http://example.org/film#Film_Inception"
	uriDunkirk   = "http://example.org/film#Film_Dunkirk"
	uriRevenant  = "http://example.org/film#Film_The_Revenant"
	uriHeat      = "http://example.org/film#Film_Heat"
	uriAction    = "http://example.org/film#Genre_Action"
)

var (
	filmInception = models.Film{URI: uriInception, Title: "Inception", Year: "2010", Genre: "Action", Director: "Christopher Nolan"}
	filmDunkirk   = models.Film{URI: uriDunkirk, Title: "Dunkirk", Year: "2017", Genre: "Drama", Director: "Christopher Nolan"}
	filmRevenant  = models.Film{URI: uriRevenant, Title: "The Revenant", Year: "2015"}
	filmHeat      = models.Film{URI: uriHeat, Title: "Heat", Year: "1995"}
)

// mockQuerier implements catalog.Querier.
type mockQuerier struct {
	mu      sync.Mutex
	films   []models.Film
	details map[string]*models.FilmDetails
	genres  []models.Genre
	err     error

	catalogCalls atomic.Int32
	searchCalls  atomic.Int32
	lastTerm     string
}

func (m *mockQuerier) Catalog(_ context.Context) ([]models.Film, error) {
	m.catalogCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.films, nil
}

func (m *mockQuerier) Search(_ context.Context, term string) ([]models.Film, error) {
	m.searchCalls.Add(1)
	m.mu.Lock()
	m.lastTerm = term
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Film
	for _, f := range m.films {
		if strings.Contains(strings.ToLower(f.Title), strings.ToLower(term)) {
			out = append(out, f)
		}
	}
	if out == nil {
		out = []models.Film{}
	}
	return out, nil
}

func (m *mockQuerier) FilmDetails(_ context.Context, filmID string) (*models.FilmDetails, error) {
	if err := sparql.ValidateIRI(filmID); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.details[filmID], nil
}

func (m *mockQuerier) Genres(_ context.Context) ([]models.Genre, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.genres, nil
}

func (m *mockQuerier) FilmsByGenre(_ context.Context, genreID string) ([]models.Film, error) {
	if m.err != nil {
		return nil, m.err
	}
	if genreID == uriAction {
		return []models.Film{filmInception}, nil
	}
	return []models.Film{}, nil
}

// mockFetcher implements recommend.Fetcher.
type mockFetcher struct {
	films map[sparql.Relation][]models.Film
	errs  map[sparql.Relation]error
	calls atomic.Int32
}

func (m *mockFetcher) FetchRelation(_ context.Context, rel sparql.Relation, _ string) ([]models.Film, error) {
	m.calls.Add(1)
	if err := m.errs[rel]; err != nil {
		return nil, err
	}
	return m.films[rel], nil
}

// mockPosters implements PosterLookup.
type mockPosters struct {
	calls atomic.Int32
}

func (m *mockPosters) Result(_ context.Context, title, year string) models.PosterResult {
	m.calls.Add(1)
	if title == "Inception" {
		return models.PosterResult{Title: title, Year: year, URL: "https://img.example/inception.jpg", Found: true}
	}
	return models.PosterResult{Title: title, Year: year}
}

// mockProbe implements SPARQLProbe and PosterProbe.
type mockProbe struct {
	pingErr error
	breaker string
	enabled bool
}

func (m *mockProbe) Ping(_ context.Context) error { return m.pingErr }
func (m *mockProbe) Endpoint() string             { return "http://localhost:3030/films/sparql" }
func (m *mockProbe) BreakerState() string         { return m.breaker }
func (m *mockProbe) Enabled() bool                { return m.enabled }

type testEnv struct {
	querier *mockQuerier
	fetcher *mockFetcher
	posters *mockPosters
	probe   *mockProbe
	service *catalog.Service
	router  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		querier: &mockQuerier{
			films: []models.Film{filmInception, filmDunkirk, filmRevenant, filmHeat},
			details: map[string]*models.FilmDetails{
				uriInception: {
					URI: uriInception, Title: "Inception", Year: "2010", Duration: "148",
					Genres: []string{"Action", "Science Fiction"}, Directors: []string{"Christopher Nolan"},
					Actors: []string{"Leonardo DiCaprio", "Tom Hardy"},
				},
			},
			genres: []models.Genre{{URI: uriAction, Name: "Action"}},
		},
		fetcher: &mockFetcher{
			films: map[sparql.Relation][]models.Film{
				sparql.RelationActor:    {filmRevenant, filmDunkirk},
				sparql.RelationGenre:    {filmDunkirk},
				sparql.RelationDirector: {filmDunkirk},
			},
			errs: map[sparql.Relation]error{},
		},
		posters: &mockPosters{},
		probe:   &mockProbe{breaker: "closed", enabled: true},
	}

	agg := recommend.NewAggregator(env.fetcher, time.Second, zerolog.Nop())
	env.service = catalog.NewService(catalog.NewState(), env.querier, agg, nil, zerolog.Nop())

	h := NewHandler(Dependencies{
		Catalog:      env.service,
		Recommender:  agg,
		Posters:      env.posters,
		SPARQL:       env.probe,
		PosterStatus: env.probe,
		Version:      "test",
	}, 5*time.Second, zerolog.Nop())

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	env.router = NewRouter(h, RouterConfig{Middleware: cfg})
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// envelope decodes an APIResponse whose data is decoded into data.
func envelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
		Meta    *APIMeta        `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode envelope: %v; body: %s", err, rec.Body.String())
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("decode data: %v; body: %s", err, raw.Data)
		}
	}
	return APIResponse{Success: raw.Success, Error: raw.Error, Meta: raw.Meta}
}

var errUnreachable = errors.New("dial tcp 127.0.0.1:3030: connect: connection refused")
