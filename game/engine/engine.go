package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsAlive() bool
	IsRunning() bool
	GetScore() int
	GetHead() Position

	// Simulation
	Tick(input Input) TickHistoryEntry
	View() *View

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetTickHistory() []TickHistoryEntry
	GetLastTick() *TickHistoryEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state   *GameState
	config  *GameConfig
	history []TickHistoryEntry
}

// NewEngine creates a game engine for a width x height board. A nil rng
// uses a clock-seeded source.
func NewEngine(config *GameConfig, width, height int, rng RandSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	state, err := NewGameState(width, height, rng)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		config:  config,
		state:   state,
		history: []TickHistoryEntry{},
	}, nil
}

// NewEngineWithDefaults creates an engine with the classic theme on the
// standard board
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultConfig(), DefaultWidth, DefaultHeight, nil)
	if err != nil {
		panic(fmt.Sprintf("engine: default configuration rejected: %v", err))
	}
	return e
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state, keeping the current random source
// when the new state has none
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Width < MinGridSize || state.Height < MinGridSize {
		return fmt.Errorf("%w: %dx%d", ErrGridTooSmall, state.Width, state.Height)
	}
	if state.Snake.Len() == 0 {
		return fmt.Errorf("state has an empty snake")
	}
	if state.rng == nil && e.state != nil {
		state.rng = e.state.rng
	}
	e.state = state
	return nil
}

// Reset forces a fresh board regardless of alive state. History is kept.
func (e *GameEngine) Reset() *GameState {
	e.state.Reset()
	e.state.Running = true
	return e.state
}

// IsAlive returns whether the snake is alive
func (e *GameEngine) IsAlive() bool {
	return e.state.Alive
}

// IsRunning returns false once a quit input has been processed
func (e *GameEngine) IsRunning() bool {
	return e.state.Running
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score()
}

// GetHead returns the position of the snake's head
func (e *GameEngine) GetHead() Position {
	return e.state.Snake.Head()
}

// Tick advances the game by one input and records the outcome
func (e *GameEngine) Tick(input Input) TickHistoryEntry {
	wasAlive := e.state.Alive
	from := e.state.Snake.Head()
	before := e.state.Snake.Len()

	e.state.Tick(input)

	entry := TickHistoryEntry{
		Input:      input,
		Direction:  e.state.Direction,
		From:       from,
		To:         e.state.Snake.Head(),
		Length:     e.state.Snake.Len(),
		Ate:        wasAlive && e.state.Alive && e.state.Snake.Len() > before,
		Died:       wasAlive && !e.state.Alive,
		Restarted:  !wasAlive && e.state.Alive,
		Timestamp:  time.Now().Unix(),
		TickNumber: len(e.history) + 1,
	}
	e.history = append(e.history, entry)
	return entry
}

// View renders the current state
func (e *GameEngine) View() *View {
	return e.state.View()
}

// GetConfig returns the current theme
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig swaps the theme. The board is untouched since themes only
// affect presentation and key bindings.
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}
	e.config = config
	return nil
}

// GetTickHistory returns the complete tick history
func (e *GameEngine) GetTickHistory() []TickHistoryEntry {
	return e.history
}

// GetLastTick returns the last tick, or nil if none
func (e *GameEngine) GetLastTick() *TickHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// BulkTick runs inputs in sequence, stopping after the tick that kills
// the snake or quits the game
func (e *GameEngine) BulkTick(inputs []Input) []TickHistoryEntry {
	results := make([]TickHistoryEntry, 0, len(inputs))

	for _, in := range inputs {
		entry := e.Tick(in)
		results = append(results, entry)
		if entry.Died || !e.IsRunning() {
			break
		}
	}

	return results
}
