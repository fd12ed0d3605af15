// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package sparql

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/metrics"
	"github.com/tomtom215/filmgraph/internal/models"
	"github.com/tomtom215/filmgraph/internal/resilience"
)

// maxErrorBodySize limits how much of an error response is kept.
const maxErrorBodySize = 64 * 1024

const (
	contentTypeQuery = "application/sparql-query"
	acceptJSON       = "application/json"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	Endpoint       string
	Timeout        time.Duration
	CircuitBreaker bool

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client runs SELECT queries against a SPARQL 1.1 query endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *resilience.Breaker[[]Binding]
	logger     zerolog.Logger
}

// NewClient validates cfg and returns a Client.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg ClientConfig, logger zerolog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrEndpointNotDefined
	}
	if err := checkHTTPEndpoint(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("sparql endpoint: %w", err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	c := &Client{
		endpoint:   cfg.Endpoint,
		httpClient: hc,
		logger:     logger.With().Str("component", "sparql").Logger(),
	}
	if cfg.CircuitBreaker {
		c.breaker = resilience.NewBreaker[[]Binding]("sparql", resilience.BreakerSettings{}, logger)
	}
	return c, nil
}

// Endpoint returns the configured query endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// BreakerState reports the circuit state, or "disabled".
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State()
}

// Select executes query and returns its bindings in response order. kind
// labels the query in metrics and logs.
func (c *Client) Select(ctx context.Context, kind, query string) ([]Binding, error) {
	start := time.Now()

	var (
		rows []Binding
		err  error
	)
	if c.breaker != nil {
		rows, err = c.breaker.Execute(func() ([]Binding, error) {
			return c.doSelect(ctx, query)
		})
	} else {
		rows, err = c.doSelect(ctx, query)
	}

	metrics.RecordSPARQLQuery(kind, time.Since(start), len(rows), err)
	if err != nil {
		c.logger.Debug().Err(err).Str("kind", kind).Dur("elapsed", time.Since(start)).Msg("query failed")
		return nil, fmt.Errorf("sparql %s query: %w", kind, err)
	}
	return rows, nil
}

func (c *Client) doSelect(ctx context.Context, query string) ([]Binding, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeQuery)
	req.Header.Set("Accept", acceptJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if decoded.Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrMalformedResponse)
	}
	if decoded.Results.Bindings == nil {
		return []Binding{}, nil
	}
	return decoded.Results.Bindings, nil
}

// checkHTTPEndpoint requires an absolute http or https URL.
func checkHTTPEndpoint(endpoint string) error {
	if err := ValidateIRI(endpoint); err != nil {
		return err
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", endpoint)
	}
	return nil
}

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return bytes.TrimSpace(body)
}

// Ping runs a trivial query.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Select(ctx, "ping", "SELECT (1 AS ?ok) WHERE {}")
	return err
}

// Catalog returns every film ordered by title.
func (c *Client) Catalog(ctx context.Context) ([]models.Film, error) {
	rows, err := c.Select(ctx, "catalog", BuildCatalogQuery())
	if err != nil {
		return nil, err
	}
	return FilmsFromBindings(rows), nil
}

// Search returns films whose title contains term, ignoring case.
func (c *Client) Search(ctx context.Context, term string) ([]models.Film, error) {
	rows, err := c.Select(ctx, "search", BuildSearchQuery(term))
	if err != nil {
		return nil, err
	}
	return FilmsFromBindings(rows), nil
}

// FetchRelation returns films that share relation with subjectID, each tagged
// with the relation. An invalid subject fails before any request is made.
func (c *Client) FetchRelation(ctx context.Context, relation Relation, subjectID string) ([]models.Film, error) {
	query, err := BuildRelationQuery(subjectID, relation)
	if err != nil {
		return nil, err
	}
	rows, err := c.Select(ctx, "relation_"+string(relation), query)
	if err != nil {
		return nil, err
	}
	films := FilmsFromBindings(rows)
	for i := range films {
		films[i].Relation = string(relation)
	}
	return films, nil
}

// FilmDetails returns filmID with its genres, directors and actors, or nil
// when the graph has no title for it.
func (c *Client) FilmDetails(ctx context.Context, filmID string) (*models.FilmDetails, error) {
	query, err := BuildFilmDetailsQuery(filmID)
	if err != nil {
		return nil, err
	}
	rows, err := c.Select(ctx, "details", query)
	if err != nil {
		return nil, err
	}
	return FoldDetails(filmID, rows), nil
}

// Genres returns every genre ordered by name.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	rows, err := c.Select(ctx, "genres", BuildGenresQuery())
	if err != nil {
		return nil, err
	}
	genres := make([]models.Genre, 0, len(rows))
	for _, row := range rows {
		uri, ok := row.URI()
		if !ok {
			continue
		}
		genres = append(genres, models.Genre{URI: uri, Name: row.Value(VarName)})
	}
	return genres, nil
}

// FilmsByGenre returns the films of genreID ordered by title.
func (c *Client) FilmsByGenre(ctx context.Context, genreID string) ([]models.Film, error) {
	query, err := BuildFilmsByGenreQuery(genreID)
	if err != nil {
		return nil, err
	}
	rows, err := c.Select(ctx, "films_by_genre", query)
	if err != nil {
		return nil, err
	}
	return FilmsFromBindings(rows), nil
}
