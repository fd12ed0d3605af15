// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/filmgraph/internal/metrics"
)

// ShutdownReason identifies why the hub stopped.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types.
const (
	MessageTypeState = "state"
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
)

// Message is one frame on the wire.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SnapshotFunc returns the value pushed in "state" messages.
type SnapshotFunc func() interface{}

// Hub tracks clients and pushes state to them.
type Hub struct {
	snapshot SnapshotFunc
	changed  chan struct{}
	logger   zerolog.Logger

	mu      sync.Mutex
	clients map[*Client]bool
}

// NewHub returns a hub that pushes snapshot().
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHub(snapshot SnapshotFunc, logger zerolog.Logger) *Hub {
	return &Hub{
		snapshot: snapshot,
		changed:  make(chan struct{}, 1),
		logger:   logger.With().Str("component", "websocket-hub").Logger(),
		clients:  make(map[*Client]bool),
	}
}

// Notify signals a state change. It never blocks; a change signalled while
// another is pending is folded into it.
func (h *Hub) Notify() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

// RunWithContext pushes state after each Notify until ctx is done, then
// closes every client and returns ctx.Err().
func (h *Hub) RunWithContext(ctx context.Context) error {
	h.logger.Info().Msg("websocket hub started")
	for {
		// Shutdown first when both are ready.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case <-h.changed:
			h.broadcastState()
		}
	}
}

// Attach registers a client for conn, queues the current state for it and
// starts its read and write loops.
func (h *Hub) Attach(conn *websocket.Conn) *Client {
	c := newClient(h, conn)

	h.mu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.deliverLocked(c, h.stateMessage())
	h.mu.Unlock()

	metrics.StateStreamClients.Inc()
	h.logger.Info().Uint64("client", c.id).Int("total_clients", count).Msg("websocket client connected")

	c.start()
	return c
}

// ClientCount returns the number of attached clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// remove detaches c. It is safe to call more than once.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	removed := h.removeLocked(c)
	count := len(h.clients)
	h.mu.Unlock()

	if removed {
		h.logger.Info().Uint64("client", c.id).Int("total_clients", count).Msg("websocket client disconnected")
	}
}

func (h *Hub) removeLocked(c *Client) bool {
	if !h.clients[c] {
		return false
	}
	delete(h.clients, c)
	close(c.send)
	metrics.StateStreamClients.Dec()
	return true
}

// deliver queues msg for c if c is still attached.
func (h *Hub) deliver(c *Client, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		h.deliverLocked(c, msg)
	}
}

// deliverLocked queues msg without blocking. A client whose queue is full
// is too slow to keep up and is dropped. Callers hold mu.
func (h *Hub) deliverLocked(c *Client, msg Message) {
	select {
	case c.send <- msg:
		metrics.StateStreamMessages.WithLabelValues("sent").Inc()
	default:
		metrics.StateStreamMessages.WithLabelValues("dropped").Inc()
		h.logger.Warn().Uint64("client", c.id).Msg("websocket client too slow, disconnecting")
		h.removeLocked(c)
	}
}

func (h *Hub) stateMessage() Message {
	return Message{Type: MessageTypeState, Data: h.snapshot()}
}

// broadcastState takes one snapshot and queues it for every client in ID
// order. The snapshot is taken under mu, so per-client delivery order
// follows snapshot order.
func (h *Hub) broadcastState() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}
	msg := h.stateMessage()
	for _, c := range h.sortedLocked() {
		h.deliverLocked(c, msg)
	}
}

func (h *Hub) sortedLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	return clients
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	closed := 0
	for _, c := range h.sortedLocked() {
		if h.removeLocked(c) {
			closed++
		}
	}
	h.mu.Unlock()

	reason := ShutdownReasonContextCanceled
	if ctx.Err() == context.DeadlineExceeded {
		reason = ShutdownReasonContextDeadline
	}
	h.logger.Info().
		Str("reason", string(reason)).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}

// MarshalMessage encodes msg as JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
