package engine

import (
	"errors"
	"fmt"
)

var ErrGridTooSmall = errors.New("grid too small")

// GameState represents the complete game state
type GameState struct {
	Running   bool      `json:"running"`
	Alive     bool      `json:"alive"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Direction Direction `json:"direction"`
	Entities  []Entity  `json:"entities"`
	Snake     Snake     `json:"snake"`
	Ticks     int       `json:"ticks"`

	rng RandSource
}

// NewGameState validates the dimensions and returns a freshly reset board.
// A nil rng falls back to a clock-seeded source.
func NewGameState(width, height int, rng RandSource) (*GameState, error) {
	if width < MinGridSize || height < MinGridSize {
		return nil, fmt.Errorf("%w: %dx%d, minimum is %dx%d", ErrGridTooSmall, width, height, MinGridSize, MinGridSize)
	}
	if rng == nil {
		rng = NewTimeSeededRandSource()
	}

	gs := &GameState{
		Running: true,
		Width:   width,
		Height:  height,
		rng:     rng,
	}
	gs.Reset()
	return gs, nil
}

// SetRand replaces the food placement source. States decoded from JSON
// carry no source until one is attached.
func (gs *GameState) SetRand(rng RandSource) {
	gs.rng = rng
}

// Reset rebuilds walls, food and the snake. Running is left untouched.
func (gs *GameState) Reset() {
	gs.Alive = true
	gs.Direction = DirNone
	gs.Entities = gs.Entities[:0]
	gs.Snake = gs.Snake[:0]

	for x := 0; x < gs.Width; x++ {
		gs.Entities = append(gs.Entities,
			Entity{Kind: Wall, Position: Position{X: x, Y: 0}},
			Entity{Kind: Wall, Position: Position{X: x, Y: gs.Height - 1}},
		)
	}
	for y := 1; y < gs.Height-1; y++ {
		gs.Entities = append(gs.Entities,
			Entity{Kind: Wall, Position: Position{X: 0, Y: y}},
			Entity{Kind: Wall, Position: Position{X: gs.Width - 1, Y: y}},
		)
	}

	gs.Entities = append(gs.Entities, Entity{Kind: Food, Position: gs.randomFoodPosition()})
	gs.Snake.PushBack(Position{X: gs.Width / 2, Y: gs.Height / 2})
}

// Score is the number of food items eaten since the last reset
func (gs *GameState) Score() int {
	return gs.Snake.Len() - 1
}

// FoodPosition returns the position of the food entity
func (gs *GameState) FoodPosition() (Position, bool) {
	for _, e := range gs.Entities {
		if e.Kind == Food {
			return e.Position, true
		}
	}
	return Position{}, false
}

// Clone returns a deep copy sharing the random source
func (gs *GameState) Clone() *GameState {
	out := *gs
	out.Entities = append([]Entity(nil), gs.Entities...)
	out.Snake = gs.Snake.Clone()
	return &out
}

// randomFoodPosition draws one cell uniformly from the interior margin.
// The snake is not consulted; food may land under it.
func (gs *GameState) randomFoodPosition() Position {
	if gs.rng == nil {
		gs.rng = NewTimeSeededRandSource()
	}
	return Position{
		X: gs.rng.IntRange(FoodMargin, gs.Width-FoodMargin),
		Y: gs.rng.IntRange(FoodMargin, gs.Height-FoodMargin),
	}
}
