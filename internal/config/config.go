// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

// Package config loads filmgraph configuration from defaults, an optional YAML
// file, and environment variables, in that order of increasing precedence.
//
// Frequently used environment variables:
//
//	SPARQL_ENDPOINT              SPARQL query endpoint (default http://localhost:3030/films/sparql)
//	SPARQL_GRAPH_STORE_ENDPOINT  Graph Store Protocol endpoint used by the ingest tool
//	OMDB_API_KEY                 poster lookups are disabled when empty
//	POSTER_CACHE_PATH            badger directory for the persistent poster cache
//	HTTP_PORT, HTTP_HOST         API listen address
//	LOG_LEVEL, LOG_FORMAT        logging
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	SPARQL  SPARQLConfig  `koanf:"sparql"`
	Poster  PosterConfig  `koanf:"poster"`
	Catalog CatalogConfig `koanf:"catalog"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// SPARQLConfig configures the triple store client.
type SPARQLConfig struct {
	// Endpoint receives POSTed SPARQL queries.
	Endpoint string `koanf:"endpoint"`

	// GraphStoreEndpoint receives POSTed Turtle documents (SPARQL 1.1 Graph Store Protocol).
	GraphStoreEndpoint string `koanf:"graph_store_endpoint"`

	Timeout               time.Duration `koanf:"timeout"`
	CircuitBreakerEnabled bool          `koanf:"circuit_breaker_enabled"`
}

// PosterConfig configures the OMDb poster lookup and its cache.
type PosterConfig struct {
	APIKey            string        `koanf:"api_key"`
	Endpoint          string        `koanf:"endpoint"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`

	// CachePath enables the badger-backed cache tier when non-empty.
	CachePath string `koanf:"cache_path"`

	// PrefetchEnabled warms the cache for every film in a freshly loaded catalog.
	PrefetchEnabled bool `koanf:"prefetch_enabled"`
}

// CatalogConfig configures the background catalog loader.
type CatalogConfig struct {
	LoadOnStartup bool `koanf:"load_on_startup"`

	// RefreshInterval of zero disables periodic refresh.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// LoggingConfig mirrors logging.Config for the fields users may set.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// PostersEnabled reports whether an OMDb key is configured.
func (c *Config) PostersEnabled() bool {
	return c.Poster.APIKey != ""
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
