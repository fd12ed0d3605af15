// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/logging"
)

// DefaultSlowRequestThreshold is used when AccessLog gets a zero threshold.
const DefaultSlowRequestThreshold = 2 * time.Second

// AccessLog logs each request at debug level, or at warn when it took longer
// than slow or ended with a 5xx status. Request and correlation IDs come from
// the context, so RequestID must run first.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func AccessLog(logger zerolog.Logger, slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			log := logging.Annotate(r.Context(), logger)

			var ev *zerolog.Event
			switch {
			case sw.statusCode >= http.StatusInternalServerError:
				ev = log.Warn()
			case elapsed > slow:
				ev = log.Warn().Bool("slow", true)
			default:
				ev = log.Debug()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", sw.statusCode).
				Dur("elapsed", elapsed).
				Str("remote_addr", r.RemoteAddr).
				Msg("request handled")
		})
	}
}
