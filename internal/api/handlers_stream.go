// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/filmgraph/internal/logging"
)

// upgrader returns the WebSocket upgrader for the state stream.
func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkStreamOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkStreamOrigin accepts browser origins listed in StreamOrigins. A
// request without an Origin header is refused: browsers always send one.
func (h *Handler) checkStreamOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Ctx(r.Context()).Warn().Msg("state stream rejected: missing Origin header")
		return false
	}
	for _, allowed := range h.deps.StreamOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Ctx(r.Context()).Warn().Str("origin", origin).Msg("state stream rejected: origin not allowed")
	return false
}

// StateStream handles GET /api/v1/state/ws. It upgrades to a WebSocket that
// receives the catalog state on connect and after every change.
func (h *Handler) StateStream(w http.ResponseWriter, r *http.Request) {
	if h.deps.StateHub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("State stream unavailable")
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("state stream upgrade failed")
		return
	}
	h.deps.StateHub.Attach(conn)
}
