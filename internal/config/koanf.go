// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/filmgraph/config.yaml",
	"/etc/filmgraph/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default endpoints match a stock Fuseki dataset named "films".
const (
	DefaultSPARQLEndpoint     = "http://localhost:3030/films/sparql"
	DefaultGraphStoreEndpoint = "http://localhost:3030/films/data"
	DefaultOMDbEndpoint       = "https://www.omdbapi.com/"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		SPARQL: SPARQLConfig{
			Endpoint:              DefaultSPARQLEndpoint,
			GraphStoreEndpoint:    DefaultGraphStoreEndpoint,
			Timeout:               15 * time.Second,
			CircuitBreakerEnabled: true,
		},
		Poster: PosterConfig{
			APIKey:            "", // posters disabled until a key is supplied
			Endpoint:          DefaultOMDbEndpoint,
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5, // OMDb free tier is 1000/day; stay polite
			Burst:             5,
			CachePath:         "",
			PrefetchEnabled:   false,
		},
		Catalog: CatalogConfig{
			LoadOnStartup:   true,
			RefreshInterval: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in three layers:
//  1. built-in defaults
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. environment variables listed in envTransformFunc
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths arrive from env as comma-separated strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are ignored.
//
// Examples:
//   - SPARQL_ENDPOINT -> sparql.endpoint
//   - OMDB_API_KEY -> poster.api_key
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":           "server.host",
		"http_port":           "server.port",
		"http_timeout":        "server.timeout",
		"cors_origins":        "server.cors_origins",
		"rate_limit_requests": "server.rate_limit_requests",
		"rate_limit_window":   "server.rate_limit_window",
		"disable_rate_limit":  "server.rate_limit_disabled",

		// SPARQL
		"sparql_endpoint":                "sparql.endpoint",
		"sparql_graph_store_endpoint":    "sparql.graph_store_endpoint",
		"sparql_timeout":                 "sparql.timeout",
		"sparql_circuit_breaker_enabled": "sparql.circuit_breaker_enabled",

		// Posters
		"omdb_api_key":      "poster.api_key",
		"omdb_url":          "poster.endpoint",
		"omdb_timeout":      "poster.timeout",
		"omdb_rate_limit":   "poster.requests_per_second",
		"omdb_burst":        "poster.burst",
		"poster_cache_path": "poster.cache_path",
		"poster_prefetch":   "poster.prefetch_enabled",

		// Catalog
		"catalog_load_on_startup":  "catalog.load_on_startup",
		"catalog_refresh_interval": "catalog.refresh_interval",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
