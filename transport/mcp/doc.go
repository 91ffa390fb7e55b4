// Package mcp provides a Model Context Protocol server for terminal snake.
//
// The mcp package implements:
//   - MCP tools for AI agents to play snake
//   - A thin proxy that forwards every tool call to the REST API
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//   - create_session, list_sessions, get_session: Session management
//   - game_state: Themed board with head, heading, food and score
//   - tick: Apply one input and advance one tick
//   - bulk_tick: Several ticks in one call, stopping on death or quit
//   - reset_game: Fresh board for a session
//   - tick_history: Paginated tick log
//   - list_configs: Available themes
//   - game_instructions: Rules and legend
//   - describe_cell: What occupies one cell and whether entering it is fatal
//
// Transport Modes:
//   - Stdio: Client.ServeStdio for local MCP clients
//   - HTTP: Client implements http.Handler; mount it at /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
//
//	// HTTP mode
//	mux.Handle("/mcp", client)
package mcp
