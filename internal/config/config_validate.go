// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package config

import (
	"fmt"
	"net/url"
	"time"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSPARQL(); err != nil {
		return err
	}
	if err := c.validatePoster(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1 (or set DISABLE_RATE_LIMIT=true)")
	}
	if c.Server.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	return nil
}

func (c *Config) validateSPARQL() error {
	if c.SPARQL.Endpoint == "" {
		return fmt.Errorf("SPARQL_ENDPOINT is required")
	}
	if err := validateEndpointURL(c.SPARQL.Endpoint, "SPARQL_ENDPOINT"); err != nil {
		return err
	}
	if c.SPARQL.GraphStoreEndpoint != "" {
		if err := validateEndpointURL(c.SPARQL.GraphStoreEndpoint, "SPARQL_GRAPH_STORE_ENDPOINT"); err != nil {
			return err
		}
	}
	if c.SPARQL.Timeout <= 0 {
		return fmt.Errorf("SPARQL_TIMEOUT must be positive")
	}
	return nil
}

// validatePoster only checks the lookup settings when a key is configured;
// without a key every lookup short-circuits and the rest is unused.
func (c *Config) validatePoster() error {
	if !c.PostersEnabled() {
		return nil
	}
	if err := validateEndpointURL(c.Poster.Endpoint, "OMDB_URL"); err != nil {
		return err
	}
	if c.Poster.Timeout <= 0 {
		return fmt.Errorf("OMDB_TIMEOUT must be positive")
	}
	if c.Poster.RequestsPerSecond <= 0 {
		return fmt.Errorf("OMDB_RATE_LIMIT must be positive, got %v", c.Poster.RequestsPerSecond)
	}
	if c.Poster.Burst < 1 {
		return fmt.Errorf("OMDB_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL must not be negative")
	}
	if c.Catalog.RefreshInterval > 0 && c.Catalog.RefreshInterval < 10*time.Second {
		return fmt.Errorf("CATALOG_REFRESH_INTERVAL must be at least 10s when set, got %v", c.Catalog.RefreshInterval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateEndpointURL accepts absolute http(s) URLs. Unlike a base URL, an
// endpoint may carry a path (Fuseki serves /<dataset>/sparql).
func validateEndpointURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsed.Fragment != "" {
		return fmt.Errorf("%s must not contain a fragment", fieldName)
	}
	return nil
}
