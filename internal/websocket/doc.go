// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

/*
Package websocket pushes catalog state to browser clients.

A Hub holds the connected clients. Every client receives the current state
when it attaches and again after each change signalled with Notify:

	hub := websocket.NewHub(func() interface{} { return svc.Snapshot() }, logger)
	state.OnChange(hub.Notify)
	go hub.RunWithContext(ctx)

	// in the HTTP handler, after the upgrade
	hub.Attach(conn)

Notify never blocks and bursts of changes collapse into one push. The hub
takes the snapshot itself at delivery time, under its own lock, so a client
never receives an older state after a newer one.

Messages are JSON objects {"type": ..., "data": ...}. The server sends
"state"; a client may send {"type":"ping"} and gets {"type":"pong"} back.
*/
package websocket
