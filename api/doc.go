// Package api provides HTTP REST API handlers for terminal snake.
//
// The api package implements:
//   - Session management endpoints
//   - Tick, bulk tick and reset endpoints
//   - Board views as JSON or plain text
//   - Theme listing, lookup and upload
//   - WebSocket upgrade handling and input forwarding
//   - Static file serving for the browser viewer
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "neon"})
//   - GET /api/sessions - List sessions (?sort=accessed|created|score&order=asc|desc&limit=N)
//   - GET /api/sessions/leaderboard - Sessions ranked by score
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - POST /api/sessions/{id}/tick - Apply one input ({"input": "up"})
//   - POST /api/sessions/{id}/bulk-tick - Apply several inputs ({"inputs": [...], "reset": true})
//   - POST /api/sessions/{id}/reset - Start over on a fresh board
//   - GET /api/sessions/{id}/state - Raw game state
//   - GET /api/sessions/{id}/view - Themed board (?format=text for plain text)
//   - GET /api/sessions/{id}/history - Tick history (?page=&limit=&order=)
//
// Themes:
//   - GET /api/configs - List available themes
//   - POST /api/configs - Save a theme
//   - GET /api/configs/{name} - Get one theme
//
// Other:
//   - GET /api/health - Liveness check
//   - GET /ws?session={id} - WebSocket board updates
//
// Error Handling:
//
// Errors are returned as JSON: {"error": "message"}. Unknown inputs map to
// 400, unknown sessions and themes to 404, and ticking a game that was quit
// to 409 until the session is reset.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
