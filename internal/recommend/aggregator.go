// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/logging"
	"github.com/tomtom215/filmgraph/internal/metrics"
	"github.com/tomtom215/filmgraph/internal/models"
	"github.com/tomtom215/filmgraph/internal/sparql"
)

var (
	// ErrAllSourcesFailed is returned when no relation lookup succeeded.
	ErrAllSourcesFailed = errors.New("all recommendation sources failed")

	// ErrSourcePanic wraps a recovered panic from a Fetcher.
	ErrSourcePanic = errors.New("recommendation source panicked")
)

// Fetcher runs one relation lookup for a subject film.
type Fetcher interface {
	FetchRelation(ctx context.Context, relation sparql.Relation, subjectID string) ([]models.Film, error)
}

// SourceOutcome reports what one relation lookup contributed.
type SourceOutcome struct {
	Relation sparql.Relation `json:"relation"`
	Count    int             `json:"count"`
	Error    string          `json:"error,omitempty"`
}

// Result is one aggregation.
type Result struct {
	SubjectID string          `json:"subject"`
	Films     []models.Film   `json:"films"`
	Sources   []SourceOutcome `json:"sources"`

	// Unidentified counts rows dropped for having no URI.
	Unidentified int           `json:"unidentified,omitempty"`
	Duration     time.Duration `json:"-"`
}

func emptyResult(subjectID string) Result {
	return Result{SubjectID: subjectID, Films: []models.Film{}, Sources: []SourceOutcome{}}
}

// Aggregator fans out the relation lookups and merges them.
type Aggregator struct {
	fetcher       Fetcher
	relations     []sparql.Relation
	sourceTimeout time.Duration
	logger        zerolog.Logger
}

// NewAggregator returns an Aggregator over fetcher. sourceTimeout bounds each
// lookup; zero leaves only the caller's deadline.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAggregator(fetcher Fetcher, sourceTimeout time.Duration, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		fetcher:       fetcher,
		relations:     sparql.Relations,
		sourceTimeout: sourceTimeout,
		logger:        logger.With().Str("component", "recommend").Logger(),
	}
}

type sourceResult struct {
	films []models.Film
	err   error
}

// Recommend returns the merged recommendations for subjectID.
//
// A failing relation lookup is logged and treated as empty. The returned
// error is non-nil when the subject is invalid, ctx is already done, or every
// lookup failed; Films is then empty.
func (a *Aggregator) Recommend(ctx context.Context, subjectID string) (Result, error) {
	start := time.Now()
	log := logging.Annotate(ctx, a.logger).With().Str("subject", subjectID).Logger()

	if err := sparql.ValidateIRI(subjectID); err != nil {
		metrics.RecordRecommendation(0, err)
		return emptyResult(subjectID), err
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordRecommendation(0, err)
		return emptyResult(subjectID), fmt.Errorf("recommend: %w", err)
	}

	results := a.fanOut(ctx, subjectID)

	res := Result{SubjectID: subjectID, Sources: make([]SourceOutcome, len(a.relations))}
	lists := make([][]models.Film, len(a.relations))
	var errs []error

	for i, rel := range a.relations {
		r := results[i]
		res.Sources[i] = SourceOutcome{Relation: rel}
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rel, r.err))
			res.Sources[i].Error = r.err.Error()
			metrics.RecommendationSourceFailures.WithLabelValues(string(rel)).Inc()
			log.Warn().Err(r.err).Str("relation", string(rel)).Msg("recommendation source failed")
			continue
		}
		lists[i] = r.films
		res.Sources[i].Count = len(r.films)
	}

	// The three lookups go to the same endpoint. When all of them fail the
	// endpoint is unreachable, and an empty list would read as "this film has
	// no related films". Report it as an error so the caller can say so.
	if len(errs) == len(a.relations) {
		err := fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
		metrics.RecordRecommendation(0, err)
		log.Error().Err(err).Msg("recommendation failed")
		failed := emptyResult(subjectID)
		failed.Sources = res.Sources
		failed.Duration = time.Since(start)
		return failed, err
	}

	res.Films, res.Unidentified = mergeSources(lists...)
	res.Duration = time.Since(start)

	if res.Unidentified > 0 {
		metrics.RecommendationUnidentifiedDropped.Add(float64(res.Unidentified))
	}
	metrics.RecordRecommendation(len(res.Films), nil)

	log.Debug().
		Int("films", len(res.Films)).
		Int("failed_sources", len(errs)).
		Int("unidentified", res.Unidentified).
		Dur("elapsed", res.Duration).
		Msg("recommendations merged")

	return res, nil
}

// fanOut runs every relation lookup concurrently and waits for all of them.
// Slots are indexed by relation so completion order is irrelevant.
func (a *Aggregator) fanOut(ctx context.Context, subjectID string) []sourceResult {
	results := make([]sourceResult, len(a.relations))
	var wg sync.WaitGroup

	for i, rel := range a.relations {
		wg.Add(1)
		go func(idx int, relation sparql.Relation) {
			defer wg.Done()
			results[idx] = a.fetchOne(ctx, relation, subjectID)
		}(i, rel)
	}

	wg.Wait()
	return results
}

func (a *Aggregator) fetchOne(ctx context.Context, relation sparql.Relation, subjectID string) (res sourceResult) {
	defer func() {
		if r := recover(); r != nil {
			res = sourceResult{err: fmt.Errorf("%w: %v", ErrSourcePanic, r)}
		}
	}()

	if a.sourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.sourceTimeout)
		defer cancel()
	}

	films, err := a.fetcher.FetchRelation(ctx, relation, subjectID)
	return sourceResult{films: films, err: err}
}
