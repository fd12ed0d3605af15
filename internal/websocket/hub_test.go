// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type versionState struct {
	Version int64 `json:"version"`
}

// counterSource is a snapshot source whose version the test bumps.
type counterSource struct {
	version atomic.Int64
	reads   atomic.Int32
}

func (s *counterSource) snapshot() interface{} {
	s.reads.Add(1)
	return versionState{Version: s.version.Load()}
}

// startHub runs a hub and an httptest server that attaches every upgraded
// connection to it.
func startHub(t *testing.T, src *counterSource) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(src.snapshot, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn)
	}))

	t.Cleanup(func() {
		cancel()
		<-done
		server.Close()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) (string, versionState) {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	var st versionState
	if len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, &st); err != nil {
			t.Fatalf("decode data %s: %v", raw.Data, err)
		}
	}
	return raw.Type, st
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_AttachSendsCurrentState(t *testing.T) {
	t.Parallel()

	src := &counterSource{}
	src.version.Store(7)
	hub, server := startHub(t, src)

	conn := dial(t, server)
	typ, st := readMessage(t, conn)
	if typ != MessageTypeState || st.Version != 7 {
		t.Errorf("first message = %s %+v, want state v7", typ, st)
	}
	waitForClients(t, hub, 1)
}

func TestHub_NotifyPushesToEveryClient(t *testing.T) {
	t.Parallel()

	src := &counterSource{}
	hub, server := startHub(t, src)

	a := dial(t, server)
	b := dial(t, server)
	readMessage(t, a)
	readMessage(t, b)
	waitForClients(t, hub, 2)

	src.version.Store(1)
	hub.Notify()

	for name, conn := range map[string]*websocket.Conn{"a": a, "b": b} {
		typ, st := readMessage(t, conn)
		if typ != MessageTypeState || st.Version != 1 {
			t.Errorf("client %s got %s %+v, want state v1", name, typ, st)
		}
	}
}

func TestHub_StateNeverGoesBackwards(t *testing.T) {
	t.Parallel()

	src := &counterSource{}
	hub, server := startHub(t, src)
	conn := dial(t, server)
	_, first := readMessage(t, conn)

	for i := int64(1); i <= 10; i++ {
		src.version.Store(i)
		hub.Notify()
	}

	last := first.Version
	for last < 10 {
		_, st := readMessage(t, conn)
		if st.Version < last {
			t.Fatalf("version went from %d to %d", last, st.Version)
		}
		last = st.Version
	}
}

func TestHub_NotifyCoalesces(t *testing.T) {
	t.Parallel()

	hub := NewHub(func() interface{} { return nil }, zerolog.Nop())
	for i := 0; i < 100; i++ {
		hub.Notify()
	}
	if got := len(hub.changed); got != 1 {
		t.Errorf("pending notifications = %d, want 1", got)
	}
}

func TestHub_NoSnapshotWithoutClients(t *testing.T) {
	t.Parallel()

	src := &counterSource{}
	hub := NewHub(src.snapshot, zerolog.Nop())
	hub.broadcastState()
	if src.reads.Load() != 0 {
		t.Error("snapshot taken with no clients attached")
	}
}

func TestHub_PingPong(t *testing.T) {
	t.Parallel()

	hub, server := startHub(t, &counterSource{})
	conn := dial(t, server)
	readMessage(t, conn)
	waitForClients(t, hub, 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if typ, _ := readMessage(t, conn); typ != MessageTypePong {
		t.Errorf("type = %q, want pong", typ)
	}
}

func TestHub_ClientDisconnectRemoves(t *testing.T) {
	t.Parallel()

	hub, server := startHub(t, &counterSource{})
	conn := dial(t, server)
	readMessage(t, conn)
	waitForClients(t, hub, 1)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	t.Parallel()

	hub := NewHub((&counterSource{}).snapshot, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if conn, err := upgrader.Upgrade(w, r, nil); err == nil {
			hub.Attach(conn)
		}
	}))
	defer server.Close()

	conn := dial(t, server)
	readMessage(t, conn)
	waitForClients(t, hub, 1)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithContext = %v", err)
	}
	if hub.ClientCount() != 0 {
		t.Errorf("clients = %d after shutdown", hub.ClientCount())
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("read after shutdown = %v, want normal close", err)
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	t.Parallel()

	hub := NewHub(func() interface{} { return nil }, zerolog.Nop())
	c := newClient(hub, nil)
	hub.mu.Lock()
	hub.clients[c] = true
	hub.mu.Unlock()

	for i := 0; i < sendBuffer; i++ {
		hub.deliver(c, Message{Type: MessageTypeState})
	}
	if hub.ClientCount() != 1 {
		t.Fatal("client dropped before its queue was full")
	}

	hub.deliver(c, Message{Type: MessageTypeState})
	if hub.ClientCount() != 0 {
		t.Error("client with a full queue must be dropped")
	}
	// Removing again is a no-op rather than a double close.
	hub.remove(c)
}

func TestMarshalMessage(t *testing.T) {
	t.Parallel()

	b, err := MarshalMessage(Message{Type: MessageTypeState, Data: versionState{Version: 3}})
	if err != nil {
		t.Fatalf("MarshalMessage: %v", err)
	}
	if string(b) != `{"type":"state","data":{"version":3}}` {
		t.Errorf("encoded = %s", b)
	}
}
