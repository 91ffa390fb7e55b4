// Package websocket provides WebSocket transport for terminal snake.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Board broadcasting after every tick or reset
//   - Client inputs forwarded to an InputHandler
//
// Architecture:
//
// A central Hub owns all connections. Each client has a read pump and a
// write pump goroutine; broadcasts are queued on a buffered channel and fanned
// out by the hub's Run loop, so callers never block on slow clients. A client
// whose send buffer is full is dropped.
//
// Message Protocol:
//
//   - Incoming: {"input": "up"} (any text engine.ParseInput accepts)
//   - Outgoing: {"session_id": "a1b2c3d4", "event": "view_update", "view": {...}}
//
// Malformed incoming messages produce an "error" event for the session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetInputHandler(func(sessionID, input string) {
//		result, err := gameService.Tick(ctx, sessionID, input)
//		if err == nil {
//			hub.BroadcastView(sessionID, result.View)
//		}
//	})
//	go hub.Run()
//	defer hub.Stop()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
