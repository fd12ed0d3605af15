// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Package poster resolves film posters through the OMDb API and caches the
outcome.

Cache is keyed by title and year. A key holds either a poster URL or the
"no poster" sentinel (Entry.Found false); a key with no entry has not been
looked up yet. Neither outcome is ever evicted. Transport failures are not
cached and report "no poster" to the caller.

Storage is pluggable: MemoryStore for a process-lifetime cache, BadgerStore
to keep results across restarts.

Client talks to OMDb: GET <endpoint>?apikey=K&t=<title>[&y=<year>]. A poster
is found only when Response is "True" and Poster is neither empty nor "N/A".
Without an API key the client returns ErrNoAPIKey before any network access.
Outbound calls are rate limited with golang.org/x/time/rate and guarded by a
circuit breaker.
*/
package poster
