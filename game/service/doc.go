// Package service provides the business logic layer for terminal snake.
//
// The service package implements:
//   - Multi-session game management
//   - Theme loading and listing
//   - Input parsing and tick processing
//   - Tick history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages theme loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the game engine. Each session owns its own engine, so remote clients can
// play independent boards. Inputs arrive as text ("up", "w", "restart",
// "none") and are parsed with engine.ParseInput; a tick with input "none"
// keeps the snake moving in its current direction.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Tick(ctx, info.ID, "right")
//	fmt.Print(result.View.Text())
//
// Game states returned by the service are snapshots; mutating them does not
// affect the session.
package service
