// Package engine provides the core game logic for terminal Snake.
//
// The engine package implements the game mechanics including:
//   - A fixed grid bordered by walls with a single food item
//   - The snake body as a double-ended sequence (front = tail, back = head)
//   - The per-tick state machine: input handling, movement, collisions,
//     growth, food respawn, death and restart
//   - A pure View of the board as symbolic cells plus score and status
//   - Themes (GameConfig) mapping symbols to glyphs and keys to inputs
//
// Core Types:
//
// GameState holds the board and implements Reset, Advance, Tick and View.
// GameEngine wraps a GameState with its theme and a tick history and
// implements the Engine interface used by the service layer.
//
// Usage:
//
//	state, err := engine.NewGameState(engine.DefaultWidth, engine.DefaultHeight, engine.NewRandSource(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state.Tick(engine.InputRight)
//	fmt.Print(state.View())
//
// Game Rules:
//
// The snake starts as one segment in the middle of the board and does not
// move until the first directional input. Each tick it moves one cell.
// Eating food grows it by one segment and moves the food somewhere inside
// the interior margin. Running into a wall or into its own body kills it;
// the board then freezes until a restart input.
package engine
