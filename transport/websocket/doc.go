// Package websocket provides the real-time transport for arcade sessions.
//
// The websocket package implements:
//   - Session-scoped connections (one hub, many sessions)
//   - Broadcast of every session state change
//   - Optional handling of client actions
//
// Architecture:
//
// A central Hub owns every connection. Its Run loop is the only goroutine
// that registers, unregisters or broadcasts; each client gets a read pump and
// a write pump. The Hub implements service.Publisher, so the game service
// hands it an update after every input, tick, timer resolution and reset.
// Publish never blocks: updates go through a buffered queue and are dropped
// when the hub falls behind, and a client whose own queue is full is
// disconnected.
//
// Message Protocol:
//
//   - Outgoing: {"session_id","event":"state_update","snapshot",events}
//   - Incoming: {"type":"input","action":"left"}; type is input, tick,
//     start, pause or reset. Failures come back as {"event":"error","data"}.
//
// Usage:
//
//	hub := websocket.NewHub(log)
//	go hub.Run(ctx)
//	hub.OnMessage(handler)
//
//	// inside an HTTP handler
//	hub.ServeWS(w, r, sessionID, &snapshot)
package websocket
