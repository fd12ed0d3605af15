// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package poster

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/filmgraph/internal/metrics"
	"github.com/tomtom215/filmgraph/internal/models"
)

// Lookup outcomes used as metric labels.
const (
	outcomeFound    = "found"
	outcomeAbsent   = "absent"
	outcomeError    = "error"
	outcomeDisabled = "disabled"
)

// Fetcher performs the remote poster lookup.
type Fetcher interface {
	FetchPoster(ctx context.Context, title, year string) (url string, found bool, err error)
}

// Cache memoizes poster lookups by title and year. Both a poster URL and the
// absence of one are cached for good; failed lookups are not, so they are
// retried on the next call. Concurrent lookups of one key share a single
// remote call.
type Cache struct {
	fetcher Fetcher
	store   Store
	group   singleflight.Group
	logger  zerolog.Logger
}

// NewCache returns a Cache over fetcher. A nil store selects a MemoryStore.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCache(fetcher Fetcher, store Store, logger zerolog.Logger) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{
		fetcher: fetcher,
		store:   store,
		logger:  logger.With().Str("component", "poster_cache").Logger(),
	}
}

// Key returns the cache key for title and year. The parts are joined with
// NUL, which occurs in neither, so a dash in a title cannot shift the
// boundary.
func Key(title, year string) string {
	return title + "\x00" + year
}

// Lookup returns the poster URL for title and year and whether one exists.
// Lookup never fails: errors degrade to "no poster".
func (c *Cache) Lookup(ctx context.Context, title, year string) (string, bool) {
	key := Key(title, year)

	if e, ok := c.cached(key); ok {
		metrics.PosterCacheHits.Inc()
		return e.URL, e.Found
	}
	metrics.PosterCacheMisses.Inc()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent flight may have finished between the check above
		// and joining the group.
		if e, ok := c.cached(key); ok {
			return e, nil
		}

		// Detached so that one caller giving up does not fail the callers
		// sharing this flight. The fetcher's HTTP timeout still applies.
		url, found, err := c.fetcher.FetchPoster(context.WithoutCancel(ctx), title, year)
		if err != nil {
			return nil, err
		}

		e := Entry{URL: url, Found: found, CachedAt: time.Now().UTC()}
		if perr := c.store.Put(key, e); perr != nil {
			c.logger.Warn().Err(perr).Str("title", title).Msg("failed to store poster entry")
		}
		c.updateSize()
		if found {
			metrics.RecordPosterLookup(outcomeFound)
		} else {
			metrics.RecordPosterLookup(outcomeAbsent)
		}
		return e, nil
	})
	if err != nil {
		if errors.Is(err, ErrNoAPIKey) {
			metrics.RecordPosterLookup(outcomeDisabled)
		} else {
			metrics.RecordPosterLookup(outcomeError)
			c.logger.Debug().Err(err).Str("title", title).Str("year", year).Msg("poster lookup failed")
		}
		return "", false
	}

	e := v.(Entry)
	return e.URL, e.Found
}

// Result is Lookup in API form.
func (c *Cache) Result(ctx context.Context, title, year string) models.PosterResult {
	url, found := c.Lookup(ctx, title, year)
	return models.PosterResult{Title: title, Year: year, URL: url, Found: found}
}

// Warm looks up every film in turn, stopping early if ctx is done. It returns
// the number of films processed.
func (c *Cache) Warm(ctx context.Context, films []models.Film) int {
	n := 0
	for i := range films {
		if ctx.Err() != nil {
			break
		}
		if films[i].Title == "" {
			continue
		}
		c.Lookup(ctx, films[i].Title, films[i].Year)
		n++
	}
	return n
}

// Len returns the number of cached outcomes.
func (c *Cache) Len() int {
	n, err := c.store.Len()
	if err != nil {
		return 0
	}
	return n
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

func (c *Cache) cached(key string) (Entry, bool) {
	e, ok, err := c.store.Get(key)
	if err != nil {
		c.logger.Warn().Err(err).Msg("poster store read failed")
		return Entry{}, false
	}
	return e, ok
}

func (c *Cache) updateSize() {
	if n, err := c.store.Len(); err == nil {
		metrics.PosterCacheEntries.Set(float64(n))
	}
}
