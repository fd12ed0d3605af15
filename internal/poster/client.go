// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/filmgraph/internal/resilience"
)

// ErrNoAPIKey is returned when no OMDb API key is configured.
var ErrNoAPIKey = errors.New("poster lookup disabled: no API key")

// notAvailable is OMDb's marker for a missing field.
const notAvailable = "N/A"

// ClientConfig configures the OMDb client.
type ClientConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration

	// RequestsPerSecond and Burst bound outbound traffic. Zero disables
	// limiting.
	RequestsPerSecond float64
	Burst             int

	HTTPClient *http.Client
}

// omdbResponse holds the fields of an OMDb title lookup that matter here.
type omdbResponse struct {
	Response string `json:"Response"`
	Poster   string `json:"Poster"`
	Error    string `json:"Error"`
}

type lookupResult struct {
	url   string
	found bool
}

// Client looks up posters through the OMDb API.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *resilience.Breaker[lookupResult]
	logger     zerolog.Logger
}

// NewClient returns a Client. An empty APIKey yields a client whose lookups
// fail fast with ErrNoAPIKey and never touch the network.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		httpClient: hc,
		breaker:    resilience.NewBreaker[lookupResult]("omdb", resilience.BreakerSettings{}, logger),
		logger:     logger.With().Str("component", "omdb").Logger(),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// BreakerState reports the OMDb circuit state.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// FetchPoster queries OMDb for title and optional year. found is false when
// OMDb does not know the film or reports its poster as "N/A". A non-nil
// error means the answer is unknown and should not be cached.
func (c *Client) FetchPoster(ctx context.Context, title, year string) (string, bool, error) {
	if !c.Enabled() {
		return "", false, ErrNoAPIKey
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", false, fmt.Errorf("omdb rate limiter: %w", err)
		}
	}

	res, err := c.breaker.Execute(func() (lookupResult, error) {
		return c.fetch(ctx, title, year)
	})
	if err != nil {
		return "", false, err
	}
	return res.url, res.found, nil
}

func (c *Client) fetch(ctx context.Context, title, year string) (lookupResult, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	if year != "" {
		params.Set("y", year)
	}

	reqURL := c.endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return lookupResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return lookupResult{}, fmt.Errorf("omdb request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return lookupResult{}, fmt.Errorf("omdb returned status %d: %s", resp.StatusCode, body)
	}

	var decoded omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return lookupResult{}, fmt.Errorf("failed to decode omdb response: %w", err)
	}

	if decoded.Response != "True" || decoded.Poster == "" || decoded.Poster == notAvailable {
		c.logger.Debug().Str("title", title).Str("year", year).Str("omdb_error", decoded.Error).Msg("no poster")
		return lookupResult{}, nil
	}
	return lookupResult{url: decoded.Poster, found: true}, nil
}
